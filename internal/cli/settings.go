package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/temirov/repoprompt/internal/config"
	"github.com/temirov/repoprompt/internal/output"
	"github.com/temirov/repoprompt/internal/tokenizer"
	"github.com/temirov/repoprompt/internal/types"
	"github.com/temirov/repoprompt/internal/utils"
)

// promptSettings are the effective values after flags are layered over configuration.
type promptSettings struct {
	target            string
	outputFile        string
	exclusionPatterns []string
	useGitignore      bool
	cloneBackend      string
	cloneDepth        int
	cloneTimeout      time.Duration
	tokensEnabled     bool
	model             string
}

// resolveSettings applies built-in defaults, then configuration, then explicitly set flags.
// The target is validated here so an unknown target fails before any traversal.
func resolveSettings(command *cobra.Command, options rootOptions, applicationConfiguration config.ApplicationConfiguration) (promptSettings, error) {
	flags := command.Flags()
	settings := promptSettings{
		target:       types.DefaultTarget,
		outputFile:   utils.DefaultPromptFileName,
		useGitignore: true,
		cloneBackend: types.CloneBackendGit,
		cloneDepth:   defaultCloneDepth,
		model:        tokenizer.DefaultModel,
	}

	if applicationConfiguration.Target != "" {
		settings.target = applicationConfiguration.Target
	}
	if flags.Changed(targetFlagName) {
		settings.target = options.target
	}
	normalizedTarget, targetError := output.NormalizeTarget(settings.target)
	if targetError != nil {
		return promptSettings{}, targetError
	}
	settings.target = normalizedTarget

	if strings.TrimSpace(applicationConfiguration.Output.File) != "" {
		settings.outputFile = applicationConfiguration.Output.File
	}

	combinedExclusions := append([]string{}, applicationConfiguration.Paths.Exclude...)
	combinedExclusions = append(combinedExclusions, options.exclusionPatterns...)
	settings.exclusionPatterns = utils.DeduplicatePatterns(combinedExclusions)

	if applicationConfiguration.Paths.UseGitignore != nil {
		settings.useGitignore = *applicationConfiguration.Paths.UseGitignore
	}
	if flags.Changed(noGitignoreFlagName) {
		settings.useGitignore = !options.disableGitignore
	}

	if applicationConfiguration.Clone.Backend != "" {
		settings.cloneBackend = applicationConfiguration.Clone.Backend
	}
	if flags.Changed(cloneBackendFlagName) {
		settings.cloneBackend = options.cloneBackend
	}
	if applicationConfiguration.Clone.Depth != nil {
		settings.cloneDepth = *applicationConfiguration.Clone.Depth
	}
	if flags.Changed(cloneDepthFlagName) {
		settings.cloneDepth = options.cloneDepth
	}
	configuredTimeout, timeoutError := applicationConfiguration.Clone.CloneTimeout()
	if timeoutError != nil {
		return promptSettings{}, timeoutError
	}
	settings.cloneTimeout = configuredTimeout
	if flags.Changed(cloneTimeoutFlagName) {
		settings.cloneTimeout = options.cloneTimeout
	}

	if applicationConfiguration.Tokens.Enabled != nil {
		settings.tokensEnabled = *applicationConfiguration.Tokens.Enabled
	}
	if flags.Changed(tokensFlagName) {
		settings.tokensEnabled = options.tokensEnabled
	}
	if applicationConfiguration.Tokens.Model != "" {
		settings.model = applicationConfiguration.Tokens.Model
	}
	if flags.Changed(modelFlagName) {
		settings.model = options.model
	}

	return settings, nil
}
