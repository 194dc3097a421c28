package pkg

import (
	"fmt"
	"os"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// PathExists returns whether the given file or directory exists
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if stat.IsDir() != isDir {
		return false, fmt.Errorf("path [%s] exists, but dir=%t", path, stat.IsDir())
	}
	return true, nil
}

// EnsureDir creates the directory (and parents) when missing.
func EnsureDir(path string) error {
	exists, err := PathExists(path, true)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create dir [%s]: %w", path, err)
	}
	return nil
}
