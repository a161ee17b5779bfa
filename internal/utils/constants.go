package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// Project file and directory names used across the tool.
const (
	// GitIgnoreFileName is the name of the ignore file read from the project root.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the version-control metadata directory that is always pruned.
	GitDirectoryName = ".git"
	// DefaultPromptFileName is the file written by the file target.
	DefaultPromptFileName = "prompt.md"
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".repoprompt.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".repoprompt"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
	// TemporaryClonePattern is the os.MkdirTemp pattern for cloned repositories.
	TemporaryClonePattern = "repoprompt-*"
)

const (
	// LoggerInitializationFailedMessageFormat reports logger construction failures.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "repoprompt failed"
)
