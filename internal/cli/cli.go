// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repoprompt/internal/config"
	"github.com/temirov/repoprompt/internal/ignore"
	"github.com/temirov/repoprompt/internal/output"
	"github.com/temirov/repoprompt/internal/prompt"
	"github.com/temirov/repoprompt/internal/services/clipboard"
	"github.com/temirov/repoprompt/internal/source"
	"github.com/temirov/repoprompt/internal/tokenizer"
	"github.com/temirov/repoprompt/internal/types"
	"github.com/temirov/repoprompt/internal/utils"
)

const (
	targetFlagName       = "target"
	targetFlagShorthand  = "t"
	exclusionFlagName    = "e"
	noGitignoreFlagName  = "no-gitignore"
	cloneBackendFlagName = "clone-backend"
	cloneDepthFlagName   = "clone-depth"
	cloneTimeoutFlagName = "clone-timeout"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	configFlagName       = "config"
	debugFlagName        = "debug"
	versionFlagName      = "version"
	globalFlagName       = "global"
	forceFlagName        = "force"

	versionTemplate      = "repoprompt version: %s\n"
	rootUse              = "repoprompt <source>"
	rootShortDescription = "generate an LLM prompt from project source code"
	rootLongDescription  = `repoprompt renders the file structure of a project followed by the content of every
file not excluded by .gitignore, as a single Markdown document.
SOURCE is a local directory or a git repository URL (https, ssh, or git@host:path).
Use --target to save the prompt to prompt.md, print it, or copy it to the clipboard.`
	rootUsageExample = `  # Copy the prompt for the current directory to the clipboard
  repoprompt .

  # Save the prompt for a remote repository to prompt.md
  repoprompt https://github.com/owner/repo.git --target file

  # Print the prompt, skipping generated directories
  repoprompt ./service -t terminal -e dist/ -e '*.pb.go'`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a default configuration file to ./.repoprompt.yaml, or to
~/.repoprompt/config.yaml with --global.`

	targetFlagDescription       = "where to deliver the prompt: file, terminal, or clipboard"
	exclusionFlagDescription    = "exclude path pattern (gitignore syntax, repeatable)"
	noGitignoreFlagDescription  = "do not use .gitignore"
	cloneBackendFlagDescription = "clone implementation: git, go-git, or auto"
	cloneDepthFlagDescription   = "clone history depth (0 for full history)"
	cloneTimeoutFlagDescription = "maximum duration of a clone"
	tokensFlagDescription       = "report an estimated token count of the prompt"
	modelFlagDescription        = "tokenizer model to use for token counting"
	configFlagDescription       = "path to a configuration file"
	debugFlagDescription        = "enable debug logging"
	versionFlagDescription      = "display application version"
	globalFlagDescription       = "write the global configuration file"
	forceFlagDescription        = "overwrite an existing configuration file"

	defaultCloneDepth          = 1
	tokenEstimateFormat        = "Estimated tokens: %d (%s)\n"
	configurationWrittenFormat = "Configuration written to %s\n"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorLoadConfigFormat       = "loading configuration: %w"
	errorTokenCounterFormat     = "initializing tokenizer: %w"
	errorTokenCountFormat       = "counting tokens: %w"
)

var errMissingSource = errors.New("a source directory or repository URL is required")

// applicationDependencies holds the collaborators that tests replace.
type applicationDependencies struct {
	copier         clipboard.Copier
	clonerFactory  func(backend string, depth int) (source.Cloner, error)
	counterFactory func(tokenizer.Config) (tokenizer.Counter, string, error)
	loggerFactory  func(debugEnabled bool) (*zap.Logger, error)
}

func defaultDependencies() applicationDependencies {
	return applicationDependencies{
		copier:         clipboard.NewService(),
		clonerFactory:  source.NewCloner,
		counterFactory: tokenizer.NewCounter,
		loggerFactory:  utils.NewApplicationLogger,
	}
}

// rootOptions stores the values of the root command flags.
type rootOptions struct {
	target            string
	exclusionPatterns []string
	disableGitignore  bool
	cloneBackend      string
	cloneDepth        int
	cloneTimeout      time.Duration
	tokensEnabled     bool
	model             string
	configPath        string
	debug             bool
	showVersion       bool
}

// Execute runs the repoprompt application.
func Execute() error {
	rootCommand := createRootCommand(defaultDependencies())
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies applicationDependencies) *cobra.Command {
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			if len(arguments) == 0 {
				return errMissingSource
			}
			return runPrompt(command, arguments[0], options, dependencies)
		},
	}

	flags := rootCommand.Flags()
	flags.StringVarP(&options.target, targetFlagName, targetFlagShorthand, types.DefaultTarget, targetFlagDescription)
	flags.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	flags.BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	flags.StringVar(&options.cloneBackend, cloneBackendFlagName, types.CloneBackendGit, cloneBackendFlagDescription)
	flags.IntVar(&options.cloneDepth, cloneDepthFlagName, defaultCloneDepth, cloneDepthFlagDescription)
	flags.DurationVar(&options.cloneTimeout, cloneTimeoutFlagName, source.DefaultCloneTimeout, cloneTimeoutFlagDescription)
	flags.BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flags.BoolVar(&options.debug, debugFlagName, false, debugFlagDescription)
	flags.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, writtenPath)
			return printError
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runPrompt resolves the effective settings, assembles the prompt for projectSource, and delivers it.
func runPrompt(command *cobra.Command, projectSource string, options rootOptions, dependencies applicationDependencies) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if loadError != nil {
		return fmt.Errorf(errorLoadConfigFormat, loadError)
	}
	settings, settingsError := resolveSettings(command, options, applicationConfiguration)
	if settingsError != nil {
		return settingsError
	}

	logger, loggerError := dependencies.loggerFactory(options.debug)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cloner, clonerError := dependencies.clonerFactory(settings.cloneBackend, settings.cloneDepth)
	if clonerError != nil {
		return clonerError
	}

	logger.Debug("resolved settings",
		zap.String("source", projectSource),
		zap.String("target", settings.target),
		zap.Strings("exclude", settings.exclusionPatterns),
		zap.Bool("useGitignore", settings.useGitignore),
		zap.String("cloneBackend", settings.cloneBackend),
		zap.Int("cloneDepth", settings.cloneDepth),
		zap.Duration("cloneTimeout", settings.cloneTimeout))

	assembler := &prompt.Assembler{
		Resolver: &source.Resolver{
			Cloner:       cloner,
			CloneTimeout: settings.cloneTimeout,
			Logger:       logger,
		},
		MatcherOptions: ignore.Options{
			ExclusionPatterns: settings.exclusionPatterns,
			UseGitignore:      settings.useGitignore,
		},
		Logger: logger,
	}
	document, buildError := assembler.BuildPrompt(command.Context(), projectSource)
	if buildError != nil {
		return buildError
	}

	if settings.tokensEnabled {
		if reportError := reportTokenEstimate(command.ErrOrStderr(), document, settings.model, dependencies); reportError != nil {
			logger.Warn("token estimate unavailable", zap.Error(reportError))
		}
	}

	deliverer := &output.Deliverer{
		Writer:           command.OutOrStdout(),
		Copier:           dependencies.copier,
		FilePath:         settings.outputFile,
		WorkingDirectory: workingDirectory,
		Logger:           logger,
	}
	return deliverer.Deliver(settings.target, document)
}

func reportTokenEstimate(writer io.Writer, document string, model string, dependencies applicationDependencies) error {
	counter, counterName, counterError := dependencies.counterFactory(tokenizer.Config{Model: model})
	if counterError != nil {
		return fmt.Errorf(errorTokenCounterFormat, counterError)
	}
	countResult, countError := tokenizer.CountDocument(counter, document)
	if countError != nil {
		return fmt.Errorf(errorTokenCountFormat, countError)
	}
	if !countResult.Counted {
		return nil
	}
	_, printError := fmt.Fprintf(writer, tokenEstimateFormat, countResult.Tokens, counterName)
	return printError
}
