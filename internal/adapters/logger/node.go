package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sculpt/internal/adapters/config" //nolint:depguard // Logger level comes from settings
	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			l := New()
			l.SetLevel(domain.ParseLogLevel(settings.LogLevel))
			l.SetJSON(settings.LogFormat == "json")
			return l, nil
		},
	})
}
