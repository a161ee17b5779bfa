// Package config loads ignore files and application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/repoprompt/internal/utils"
)

const (
	commentPrefix       = "#"
	escapedCommentStart = `\#`
	// errorLoadIgnoreFormat reports a failure to read the ignore file.
	errorLoadIgnoreFormat = "loading %s from %s: %w"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its pattern lines in file order.
// Blank lines and comments are dropped; a missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		patternLine := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(patternLine) == "" || strings.HasPrefix(patternLine, commentPrefix) {
			continue
		}
		if strings.HasPrefix(patternLine, escapedCommentStart) {
			patternLine = patternLine[1:]
		}
		ignorePatterns = append(ignorePatterns, patternLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadProjectIgnorePatterns returns the ordered ruleset for a project root: the root .gitignore
// patterns (when useGitignore is set) followed by the extra exclusion patterns.
// Later patterns override earlier ones, so exclusion patterns take precedence over the file.
func LoadProjectIgnorePatterns(absoluteRootPath string, exclusionPatterns []string, useGitignore bool) ([]string, error) {
	var combinedPatterns []string

	if useGitignore {
		gitIgnoreFilePath := filepath.Join(absoluteRootPath, utils.GitIgnoreFileName)
		gitIgnoreFilePatterns, loadError := LoadIgnoreFilePatterns(gitIgnoreFilePath)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFormat, utils.GitIgnoreFileName, absoluteRootPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, gitIgnoreFilePatterns...)
	}

	trimmedExclusions := make([]string, 0, len(exclusionPatterns))
	for _, pattern := range exclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		trimmedExclusions = append(trimmedExclusions, trimmedPattern)
	}
	combinedPatterns = append(combinedPatterns, utils.DeduplicatePatterns(trimmedExclusions)...)

	return combinedPatterns, nil
}
