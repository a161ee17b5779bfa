// Package prompt assembles the Markdown prompt document for a project source.
package prompt

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repoprompt/internal/commands"
	"github.com/temirov/repoprompt/internal/ignore"
	"github.com/temirov/repoprompt/internal/source"
	"github.com/temirov/repoprompt/internal/types"
	"github.com/temirov/repoprompt/internal/utils"
)

const (
	// DocumentTitle opens every prompt.
	DocumentTitle = "## Project Source Code Prompt"
	// IntroductionParagraph describes the document layout to the reader.
	IntroductionParagraph = "Below is the source code of the considered project. The prompt begins with an organized view of the project's file structure, showing how the code is organized across directories and files. " +
		"Following this overview, the complete source code for each file is provided, allowing for an in-depth understanding of the project's implementation."
	// StructureHeading precedes the rendered tree.
	StructureHeading = "### Project Structure"
	// FilesHeading precedes the file sections.
	FilesHeading = "### Source Code Files"
	// ReadFailurePrefix starts the placeholder emitted for unreadable files.
	ReadFailurePrefix = "Error reading file: "

	fileHeadingPrefix = "#### "
	treeFence         = "``````"
	contentFence      = "```"
	lineSeparator     = "\n"

	errorRenderTreeFormat   = "rendering project tree for %s: %w"
	errorCollectFilesFormat = "collecting files for %s: %w"
	notTextErrorMessage     = "file is not valid UTF-8 text"
)

var (
	// ErrInvalidSource is returned when a local source is missing or not a directory.
	ErrInvalidSource = source.ErrInvalidSource
	// ErrCloneFailure is returned when a remote source cannot be cloned.
	ErrCloneFailure = source.ErrCloneFailure
)

// Assembler builds prompt documents.
type Assembler struct {
	Resolver       *source.Resolver
	MatcherOptions ignore.Options
	Logger         *zap.Logger
}

// BuildPrompt resolves source, renders its tree, and embeds every non-excluded file.
// Cloned projects are removed before BuildPrompt returns.
func (assembler *Assembler) BuildPrompt(ctx context.Context, projectSource string) (string, error) {
	logger := assembler.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := assembler.Resolver
	if resolver == nil {
		resolver = &source.Resolver{Logger: logger}
	}

	project, resolveError := resolver.Resolve(ctx, projectSource)
	if resolveError != nil {
		return "", resolveError
	}
	defer func() {
		if closeError := project.Close(); closeError != nil {
			logger.Warn("failed to clean up project", zap.Error(closeError))
		}
	}()

	matcher := ignore.Load(project.Root, assembler.MatcherOptions, logger)
	renderer := &commands.TreeRenderer{Matcher: matcher, Logger: logger}
	collector := &commands.FileCollector{Matcher: matcher, Logger: logger}

	treeText, renderError := renderer.RenderTreeText(project.Root)
	if renderError != nil {
		return "", fmt.Errorf(errorRenderTreeFormat, project.Root, renderError)
	}
	sourceFiles, collectError := collector.CollectFiles(project.Root)
	if collectError != nil {
		return "", fmt.Errorf(errorCollectFilesFormat, project.Root, collectError)
	}

	documentLines := []string{
		DocumentTitle + lineSeparator,
		IntroductionParagraph + lineSeparator,
		StructureHeading + lineSeparator,
		treeFence + lineSeparator + treeText + lineSeparator + treeFence + lineSeparator,
		FilesHeading + lineSeparator,
	}
	embeddedCount := 0
	for _, sourceFile := range sourceFiles {
		if matcher.Excludes(sourceFile.AbsolutePath, false) {
			continue
		}
		documentLines = append(documentLines,
			fileHeadingPrefix+sourceFile.RelativePath+lineSeparator,
			contentFence,
			readFileContent(sourceFile, logger),
			contentFence,
		)
		embeddedCount++
	}

	document := strings.Join(documentLines, lineSeparator)
	logger.Debug("assembled prompt",
		zap.String("source", projectSource),
		zap.String("kind", project.Kind.String()),
		zap.Int("files", embeddedCount),
		zap.Int("bytes", len(document)))
	return document, nil
}

// readFileContent returns the file text or the read-failure placeholder.
func readFileContent(sourceFile types.SourceFile, logger *zap.Logger) string {
	// #nosec G304
	content, readError := os.ReadFile(sourceFile.AbsolutePath)
	if readError != nil {
		logger.Warn("failed to read file", zap.String("path", sourceFile.RelativePath), zap.Error(readError))
		return ReadFailurePrefix + readError.Error()
	}
	if utils.IsBinary(content) {
		logger.Warn("skipping non-text file", zap.String("path", sourceFile.RelativePath))
		return ReadFailurePrefix + notTextErrorMessage
	}
	return string(content)
}
