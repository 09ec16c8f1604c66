package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// InitDir initializes the directory containing path with the given mode
func InitDir(path string, mode fs.FileMode) error {
	expandedDir := os.ExpandEnv(path)
	fullPath := filepath.Dir(expandedDir)
	return os.MkdirAll(fullPath, mode)
}

// CheckError prints the error to stderr and exits non-zero. Reserved for
// unrecoverable startup failures before the command tree is running.
func CheckError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// GetString returns the string value pointed to by value, or an empty string if value is nil.
func GetString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
