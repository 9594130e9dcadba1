package ports

import "go.trai.ch/sculpt/internal/core/domain"

// Fingerprinter reads the state of input files. It satisfies domain.FileProbe.
//
//go:generate mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// ModTime returns the modification time of path in unix nanoseconds.
	ModTime(path string) (int64, error)

	// Fingerprint hashes the content of path and records its modification time.
	Fingerprint(path string) (domain.FileFingerprint, error)
}
