package domain

// FileFingerprint identifies the state of one input file.
// ModifiedAt is only a trigger for rehashing; Hash decides whether the file changed.
type FileFingerprint struct {
	Path       string `json:"path"`
	Hash       string `json:"hash"`
	ModifiedAt int64  `json:"modified_at"`
}

// Equal reports whether both fingerprints describe the same file in the same state.
func (f FileFingerprint) Equal(other FileFingerprint) bool {
	return f.Path == other.Path && f.Hash == other.Hash && f.ModifiedAt == other.ModifiedAt
}

// FileProbe reads file state from disk.
type FileProbe interface {
	// ModTime returns the modification time of path in unix nanoseconds.
	ModTime(path string) (int64, error)
	// Fingerprint hashes the content of path and records its modification time.
	Fingerprint(path string) (FileFingerprint, error)
}
