package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repoprompt/internal/types"
	"github.com/temirov/repoprompt/internal/utils"
)

const (
	// RootLine represents the project root as the first rendered line.
	RootLine = "./"

	branchConnector     = "├── "
	lastBranchConnector = "└── "
	branchExtension     = "│   "
	lastBranchExtension = "    "
	directorySuffix     = "/"
	treeLineSeparator   = "\n"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// RenderTree returns the rendered tree lines for rootDirectoryPath, starting with RootLine.
// Entries are visited depth-first in pre-order with siblings sorted by name.
func (renderer *TreeRenderer) RenderTree(rootDirectoryPath string) ([]string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootEntries, readError := renderer.visibleEntries(absoluteRootPath, true)
	if readError != nil {
		return nil, readError
	}

	lines := renderer.appendLevel([]string{RootLine}, rootEntries, "")
	loggerOrNop(renderer.Logger).Debug("rendered project tree",
		zap.String("root", absoluteRootPath),
		zap.Int("lineCount", len(lines)))
	return lines, nil
}

// RenderTreeText joins the RenderTree lines with newlines.
func (renderer *TreeRenderer) RenderTreeText(rootDirectoryPath string) (string, error) {
	lines, renderError := renderer.RenderTree(rootDirectoryPath)
	if renderError != nil {
		return "", renderError
	}
	return strings.Join(lines, treeLineSeparator), nil
}

func (renderer *TreeRenderer) appendLevel(lines []string, entries []types.TreeEntry, prefix string) []string {
	for entryIndex, entry := range entries {
		connector := branchConnector
		extension := branchExtension
		if entryIndex == len(entries)-1 {
			connector = lastBranchConnector
			extension = lastBranchExtension
		}

		displayName := entry.Name
		if entry.IsDirectory {
			displayName += directorySuffix
		}
		lines = append(lines, prefix+connector+displayName)

		if !entry.IsDirectory {
			continue
		}
		childEntries, readError := renderer.visibleEntries(entry.Path, false)
		if readError != nil {
			loggerOrNop(renderer.Logger).Warn("skipping unreadable directory contents",
				zap.String("directory", entry.Path),
				zap.Error(readError))
			continue
		}
		lines = renderer.appendLevel(lines, childEntries, prefix+extension)
	}
	return lines
}

// visibleEntries lists the children of directoryPath that survive the ignore rules.
// Symbolic links report IsDir false and are therefore rendered as leaves, never followed.
// Service files are hidden only when directoryPath is the project root.
func (renderer *TreeRenderer) visibleEntries(directoryPath string, isProjectRoot bool) ([]types.TreeEntry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}
	sort.Slice(directoryEntries, func(left, right int) bool {
		return directoryEntries[left].Name() < directoryEntries[right].Name()
	})

	entries := make([]types.TreeEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		isDirectory := directoryEntry.IsDir()
		if isDirectory && directoryEntry.Name() == utils.GitDirectoryName {
			continue
		}
		if !isDirectory && isProjectRoot && utils.IsServiceFile(directoryEntry.Name()) {
			continue
		}
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		if renderer.Matcher.Excludes(childPath, isDirectory) {
			continue
		}
		entries = append(entries, types.TreeEntry{
			Name:        directoryEntry.Name(),
			Path:        childPath,
			IsDirectory: isDirectory,
		})
	}
	return entries, nil
}
