// Package fileutil provides helpers for locating pipeline configuration files.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/logger"
)

var log = logger.New("fileutil:fileutil")

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ResolvePipelineFile maps a command-line argument to the configuration file
// it names. An empty argument means the default file in the working
// directory; a directory means the default file inside it.
func ResolvePipelineFile(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}
	path := filepath.Clean(arg)
	if DirExists(path) {
		path = filepath.Join(path, constants.DefaultPipelineFile)
	}
	log.Printf("Resolved %q to %s", arg, path)
	if !FileExists(path) {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("pipeline file not found: %s", path)
		}
		return "", fmt.Errorf("not a regular file: %s", path)
	}
	return path, nil
}
