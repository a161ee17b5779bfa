// Package output delivers an assembled prompt to a file, the terminal, or the clipboard.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repoprompt/internal/services/clipboard"
	"github.com/temirov/repoprompt/internal/types"
	"github.com/temirov/repoprompt/internal/utils"
)

const (
	savedMessageFormat   = "Prompt saved to '%s'.\n"
	copiedMessage        = "Prompt copied to clipboard.\n"
	promptFilePermission = 0o644

	errorUnsupportedTargetFormat = "unsupported target %q (expected %s)"
	errorWritePromptFormat       = "writing prompt to %s: %w"
	errorCopyPromptFormat        = "copying prompt to clipboard: %w"
)

var errClipboardUnavailable = errors.New("clipboard is not available")

// NormalizeTarget lower-cases target and verifies it names a supported delivery target.
// An empty target selects types.DefaultTarget.
func NormalizeTarget(target string) (string, error) {
	normalizedTarget := strings.ToLower(strings.TrimSpace(target))
	if normalizedTarget == "" {
		return types.DefaultTarget, nil
	}
	if !utils.ContainsString(types.SupportedTargets, normalizedTarget) {
		return "", fmt.Errorf(errorUnsupportedTargetFormat, target, strings.Join(types.SupportedTargets, ", "))
	}
	return normalizedTarget, nil
}

// Deliverer sends documents to the selected target and reports the outcome on Writer.
type Deliverer struct {
	Writer io.Writer
	Copier clipboard.Copier
	// FilePath names the prompt file; relative paths resolve against WorkingDirectory.
	FilePath         string
	WorkingDirectory string
	Logger           *zap.Logger
}

// Deliver writes document to target.
func (deliverer *Deliverer) Deliver(target string, document string) error {
	normalizedTarget, targetError := NormalizeTarget(target)
	if targetError != nil {
		return targetError
	}
	writer := deliverer.Writer
	if writer == nil {
		writer = os.Stdout
	}
	logger := deliverer.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch normalizedTarget {
	case types.TargetFile:
		displayPath, promptFilePath := deliverer.promptFilePaths()
		// #nosec G306
		if writeError := os.WriteFile(promptFilePath, []byte(document), promptFilePermission); writeError != nil {
			return fmt.Errorf(errorWritePromptFormat, promptFilePath, writeError)
		}
		logger.Debug("wrote prompt file", zap.String("path", promptFilePath), zap.Int("bytes", len(document)))
		_, printError := fmt.Fprintf(writer, savedMessageFormat, displayPath)
		return printError
	case types.TargetTerminal:
		_, printError := fmt.Fprintln(writer, document)
		return printError
	default:
		if deliverer.Copier == nil {
			return fmt.Errorf(errorCopyPromptFormat, errClipboardUnavailable)
		}
		if copyError := deliverer.Copier.Copy(document); copyError != nil {
			return fmt.Errorf(errorCopyPromptFormat, copyError)
		}
		_, printError := fmt.Fprint(writer, copiedMessage)
		return printError
	}
}

func (deliverer *Deliverer) promptFilePaths() (string, string) {
	displayPath := strings.TrimSpace(deliverer.FilePath)
	if displayPath == "" {
		displayPath = utils.DefaultPromptFileName
	}
	if filepath.IsAbs(displayPath) || deliverer.WorkingDirectory == "" {
		return displayPath, displayPath
	}
	return displayPath, filepath.Join(deliverer.WorkingDirectory, displayPath)
}
