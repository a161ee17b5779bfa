// Package commands contains the traversal logic shared by the prompt assembler:
// the tree renderer and the file collector.
package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/repoprompt/internal/ignore"
)

// TreeRenderer renders the visible directory tree of a project root.
type TreeRenderer struct {
	Matcher *ignore.Matcher
	Logger  *zap.Logger
}

// FileCollector lists the files of a project root that are eligible for embedding.
type FileCollector struct {
	Matcher *ignore.Matcher
	Logger  *zap.Logger
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
