// Package resume loads the downloadable CV.
package resume

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// MissingMessage is shown to visitors when the resume cannot be served.
const MissingMessage = "Resume file is missing. Please add it to the specified path and refresh."

// ErrMissing is returned when the resume file does not exist or is empty.
var ErrMissing = errors.New("resume file is missing")

// Load reads the resume at path.
func Load(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrMissing
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMissing, path)
	}
	return data, nil
}

// Available reports whether Load would succeed.
func Available(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
