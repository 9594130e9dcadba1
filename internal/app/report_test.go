package app

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"go.trai.ch/sculpt/internal/core/domain"
)

func TestReporter_Pass(t *testing.T) {
	tests := []struct {
		name       string
		outcome    *domain.PassOutcome
		affected   []string
		goldenName string
	}{
		{
			name:       "up to date",
			outcome:    &domain.PassOutcome{Workspaces: 2, Duration: 1500 * time.Millisecond},
			goldenName: "pass_clean",
		},
		{
			name: "changes and failures",
			outcome: &domain.PassOutcome{
				Dirty:      []string{"pkg-a", "pkg-c"},
				Added:      []string{"pkg-c"},
				Removed:    []string{"pkg-old"},
				Failures:   []domain.WorkspaceFailure{{Workspace: "pkg-b", Err: errors.New("resolver exited with status 2")}},
				Workspaces: 3,
				Duration:   42 * time.Millisecond,
			},
			affected:   []string{"pkg-a", "pkg-c", "pkg-d"},
			goldenName: "pass_changes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			buf := &bytes.Buffer{}
			newReporter(buf).pass(tt.outcome, tt.affected)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestReporter_ListAndValid(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	r := newReporter(buf)
	r.list([]string{"pkg-a", "pkg-b"})
	r.valid(2)

	g := goldie.New(t)
	g.Assert(t, "list_valid", buf.Bytes())
}
