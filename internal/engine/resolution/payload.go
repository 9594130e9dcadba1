package resolution

import (
	"encoding/json"

	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/zerr"
)

// DecodePayload parses a resolver payload: a JSON array of file paths.
// An empty payload means no inputs.
func DecodePayload(payload string) ([]string, error) {
	if payload == "" {
		return nil, nil
	}

	var paths []string
	if err := json.Unmarshal([]byte(payload), &paths); err != nil {
		err = zerr.With(zerr.Wrap(domain.ErrResolutionPayload, "resolver payload is not a JSON array of paths"), "cause", err.Error())
		return nil, err
	}
	return paths, nil
}
