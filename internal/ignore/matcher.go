// Package ignore decides which project paths are excluded by the project's ignore rules.
package ignore

import (
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"

	"github.com/temirov/repoprompt/internal/config"
	"github.com/temirov/repoprompt/internal/utils"
)

// Options selects the rule sources combined into a Matcher.
type Options struct {
	// ExclusionPatterns are appended after the .gitignore patterns.
	ExclusionPatterns []string
	// UseGitignore enables reading the root .gitignore file.
	UseGitignore bool
}

// Matcher answers whether a path under a project root is excluded.
// A Matcher is immutable after construction and bound to a single root.
type Matcher struct {
	root     string
	patterns []string
	matcher  gitignore.Matcher
}

// Load builds a Matcher for absoluteRoot. Failure to read the ignore file is logged and
// treated as an empty ruleset.
func Load(absoluteRoot string, options Options, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	patterns, loadError := config.LoadProjectIgnorePatterns(absoluteRoot, options.ExclusionPatterns, options.UseGitignore)
	if loadError != nil {
		logger.Warn("ignore rules unavailable, nothing will be excluded by them",
			zap.String("root", absoluteRoot),
			zap.Error(loadError))
		patterns, _ = config.LoadProjectIgnorePatterns(absoluteRoot, options.ExclusionPatterns, false)
	}
	matcher := NewMatcher(absoluteRoot, patterns)
	logger.Debug("loaded ignore rules",
		zap.String("root", absoluteRoot),
		zap.Int("patternCount", len(patterns)))
	return matcher
}

// NewMatcher compiles patterns, given in gitignore syntax, relative to absoluteRoot.
func NewMatcher(absoluteRoot string, patterns []string) *Matcher {
	compiledPatterns := make([]gitignore.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		compiledPatterns = append(compiledPatterns, gitignore.ParsePattern(pattern, nil))
	}
	return &Matcher{
		root:     absoluteRoot,
		patterns: append([]string(nil), patterns...),
		matcher:  gitignore.NewMatcher(compiledPatterns),
	}
}

// Root returns the project root the matcher is bound to.
func (matcher *Matcher) Root() string {
	return matcher.root
}

// Patterns returns a copy of the ordered pattern lines.
func (matcher *Matcher) Patterns() []string {
	return append([]string(nil), matcher.patterns...)
}

// Excludes reports whether absolutePath is excluded. The root itself and paths outside the root
// are never excluded.
func (matcher *Matcher) Excludes(absolutePath string, isDirectory bool) bool {
	if matcher == nil || len(matcher.patterns) == 0 {
		return false
	}
	relativePath := utils.RelativePathOrSelf(absolutePath, matcher.root)
	if relativePath == "." || utils.IsOutsideRoot(relativePath) {
		return false
	}
	segments := strings.Split(strings.Trim(relativePath, "/"), "/")
	return matcher.matcher.Match(segments, isDirectory)
}
