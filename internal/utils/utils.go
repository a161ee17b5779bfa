// Package utils contains general helper functions used across repoprompt.
package utils

import (
	"path/filepath"
	"strings"
)

const pathSegmentSeparator = "/"

var serviceFiles = map[string]struct{}{
	GitIgnoreFileName: {},
}

// IsServiceFile reports whether a forward-slash path relative to the project root names one of
// the tool's own control files, which are never rendered or embedded. Only root-level files qualify;
// a nested .gitignore is ordinary project content.
func IsServiceFile(relativePath string) bool {
	_, isServiceFile := serviceFiles[relativePath]
	return isServiceFile
}

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf calculates the relative path from root to fullPath in forward-slash form.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// IsOutsideRoot reports whether a relative path produced by RelativePathOrSelf escapes its root.
func IsOutsideRoot(relativePath string) bool {
	return relativePath == ".." || strings.HasPrefix(relativePath, "../") || filepath.IsAbs(relativePath)
}

// ContainsGitSegment reports whether any segment of the forward-slash relative path names the
// version-control metadata directory.
func ContainsGitSegment(relativePath string) bool {
	for _, segment := range strings.Split(relativePath, pathSegmentSeparator) {
		if segment == GitDirectoryName {
			return true
		}
	}
	return false
}
