package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/repoprompt/internal/types"
	"github.com/temirov/repoprompt/internal/utils"
)

// CollectFiles walks rootPath and returns every non-excluded file in lexical walk order.
// Directories named .git are pruned at any depth; excluded directories are not descended into.
// A regular file named .git, as written by worktrees and submodules, is collected like any other file.
func (collector *FileCollector) CollectFiles(rootPath string) ([]types.SourceFile, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)
	logger := loggerOrNop(collector.Logger)

	var sourceFiles []types.SourceFile

	directoryWalkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			if walkedPath == cleanedRootPath {
				return fmt.Errorf(errorReadDirectoryFormat, walkedPath, accessError)
			}
			logger.Warn("skipping inaccessible path", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		if relativePath == "." {
			return nil
		}
		if directoryEntry.IsDir() {
			if utils.ContainsGitSegment(relativePath) || collector.Matcher.Excludes(walkedPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if utils.IsServiceFile(relativePath) || collector.Matcher.Excludes(walkedPath, false) {
			return nil
		}

		sourceFiles = append(sourceFiles, types.SourceFile{
			AbsolutePath: walkedPath,
			RelativePath: relativePath,
		})
		return nil
	})
	if directoryWalkError != nil {
		return nil, directoryWalkError
	}

	logger.Debug("collected source files",
		zap.String("root", cleanedRootPath),
		zap.Int("fileCount", len(sourceFiles)))
	return sourceFiles, nil
}
