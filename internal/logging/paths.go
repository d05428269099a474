package logging

import (
	"fmt"
	"os"
)

// Default locations, relative to the working directory.
const (
	DefaultLogPath        = "log/file.log"
	DefaultArchivePattern = "archive/file.{}.log"
)

// ArchivePaths lists the archives of policy that exist on disk, oldest first.
func ArchivePaths(policy RotationPolicy) []string {
	var paths []string
	for i := policy.LastIndex(); i >= policy.StartIndex; i-- {
		p := policy.ArchivePath(i)
		if fileExists(p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// FindLogFiles resolves the files the viewer should read, oldest first.
// The active file must exist; archives are only listed when includeArchives
// is set and the pattern is valid.
func FindLogFiles(path, archivePattern string, includeArchives bool) ([]string, error) {
	if path == "" {
		path = DefaultLogPath
	}
	if !fileExists(path) {
		return nil, fmt.Errorf("log file not found: %s", path)
	}

	var paths []string
	if includeArchives {
		if archivePattern == "" {
			archivePattern = DefaultArchivePattern
		}
		policy := DefaultRotationPolicy(archivePattern)
		if err := policy.Validate(); err != nil {
			return nil, err
		}
		paths = append(paths, ArchivePaths(policy)...)
	}

	return append(paths, path), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
