package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter hashes file content with xxhash.
type Fingerprinter struct{}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

// ModTime returns the modification time of path in unix nanoseconds.
func (f *Fingerprinter) ModTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info.ModTime().UnixNano(), nil
}

// Fingerprint records the modification time of path and hashes its content.
// The time is read before hashing so a concurrent write is seen again on the next pass.
func (f *Fingerprinter) Fingerprint(path string) (domain.FileFingerprint, error) {
	modTime, err := f.ModTime(path)
	if err != nil {
		return domain.FileFingerprint{}, err
	}

	file, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return domain.FileFingerprint{}, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer file.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return domain.FileFingerprint{}, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return domain.FileFingerprint{
		Path:       path,
		Hash:       fmt.Sprintf("%016x", hasher.Sum64()),
		ModifiedAt: modTime,
	}, nil
}
