//go:build windows

package cache

import "os"

// renameio does not support windows; a plain write is used there.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
