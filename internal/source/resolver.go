package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/repoprompt/internal/utils"
)

const (
	// DefaultCloneTimeout bounds a clone when no timeout is configured.
	DefaultCloneTimeout = 5 * time.Minute

	errorCreateTemporaryFormat  = "creating temporary clone directory: %w"
	errorCloneFormat            = "%w: %s: %w"
	errorCloneInterruptedFormat = "%w (%w)"
	errorInvalidSourceFormat    = "%w: %s does not exist or is not a directory"
	errorRemoveTemporaryFormat  = "removing temporary clone %s: %w"
)

// ErrInvalidSource marks a local source that does not exist or is not a directory.
var ErrInvalidSource = errors.New("invalid source")

// Resolver turns a source string into a project root on disk.
type Resolver struct {
	Cloner Cloner
	// CloneTimeout bounds a single clone. Zero selects DefaultCloneTimeout; negative disables the bound.
	CloneTimeout time.Duration
	// TemporaryDirectory is the parent of clone directories; empty selects the system default.
	TemporaryDirectory string
	Logger             *zap.Logger
}

// Project is a resolved project root. Close must be called once the root is no longer needed.
type Project struct {
	Root   string
	Source string
	Kind   Kind

	temporary bool
	closed    bool
	logger    *zap.Logger
}

// Resolve validates a local source or clones a remote source into a fresh temporary directory.
// On clone failure the temporary directory is removed before returning.
// Surrounding whitespace is trimmed before the source is classified or cloned.
func (resolver *Resolver) Resolve(ctx context.Context, rawSource string) (*Project, error) {
	source := strings.TrimSpace(rawSource)
	logger := resolver.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sourceKind := Classify(source)
	if !sourceKind.IsRemote() {
		return resolveLocal(source, logger)
	}

	temporaryDirectory, createError := os.MkdirTemp(resolver.TemporaryDirectory, utils.TemporaryClonePattern)
	if createError != nil {
		return nil, fmt.Errorf(errorCreateTemporaryFormat, createError)
	}
	project := &Project{
		Root:      temporaryDirectory,
		Source:    source,
		Kind:      sourceKind,
		temporary: true,
		logger:    logger,
	}

	cloneContext := ctx
	cloneTimeout := resolver.CloneTimeout
	if cloneTimeout == 0 {
		cloneTimeout = DefaultCloneTimeout
	}
	if cloneTimeout > 0 {
		var cancel context.CancelFunc
		cloneContext, cancel = context.WithTimeout(ctx, cloneTimeout)
		defer cancel()
	}

	cloner := resolver.Cloner
	if cloner == nil {
		cloner = &ExecCloner{}
	}
	logger.Debug("cloning repository",
		zap.String("source", source),
		zap.String("kind", sourceKind.String()),
		zap.String("destination", temporaryDirectory),
		zap.Duration("timeout", cloneTimeout))
	if cloneError := cloner.Clone(cloneContext, source, temporaryDirectory); cloneError != nil {
		if closeError := project.Close(); closeError != nil {
			logger.Warn("failed to remove temporary clone", zap.Error(closeError))
		}
		if contextError := cloneContext.Err(); contextError != nil {
			cloneError = fmt.Errorf(errorCloneInterruptedFormat, cloneError, contextError)
		}
		return nil, fmt.Errorf(errorCloneFormat, ErrCloneFailure, source, cloneError)
	}
	return project, nil
}

func resolveLocal(source string, logger *zap.Logger) (*Project, error) {
	absolutePath, absoluteError := filepath.Abs(source)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorInvalidSourceFormat, ErrInvalidSource, source)
	}
	fileInformation, statError := os.Stat(absolutePath)
	if statError != nil || !fileInformation.IsDir() {
		return nil, fmt.Errorf(errorInvalidSourceFormat, ErrInvalidSource, source)
	}
	return &Project{
		Root:   absolutePath,
		Source: source,
		Kind:   KindLocal,
		logger: logger,
	}, nil
}

// Temporary reports whether the project root is a clone owned by the project.
func (project *Project) Temporary() bool {
	return project.temporary
}

// Close removes a cloned root. It is a no-op for local projects and for repeated calls.
func (project *Project) Close() error {
	if project == nil || project.closed {
		return nil
	}
	project.closed = true
	if !project.temporary {
		return nil
	}
	if removeError := os.RemoveAll(project.Root); removeError != nil {
		return fmt.Errorf(errorRemoveTemporaryFormat, project.Root, removeError)
	}
	if project.logger != nil {
		project.logger.Debug("removed temporary clone", zap.String("path", project.Root))
	}
	return nil
}
