// Package fs is the single place applets and the block layer open files.
// Applets should use this package instead of direct os calls.
package fs

import "os"

// Open opens a file for reading.
func Open(path string) (*os.File, error) {
	return os.Open(path) // #nosec G304 -- paths come from the command line
}

// OpenReadWrite opens an existing or new file for in-place block writes.
// Existing content is preserved.
func OpenReadWrite(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644) // #nosec G304 -- see Open
}

// Create creates or truncates a file for writing.
func Create(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644) // #nosec G304 -- see Open
}

// Stat returns file info.
func Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
