package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/repoprompt/internal/utils"
)

const (
	errorWorkingDirectoryFormat  = "determine working directory: %w"
	errorResolveConfigPathFormat = "resolve configuration path %s: %w"
	errorStatConfigFormat        = "stat configuration %s: %w"
	errorConfigIsDirectoryFormat = "configuration path %s is a directory"
	errorReadConfigFormat        = "read configuration from %s: %w"
	errorDecodeConfigFormat      = "decode configuration from %s: %w"
	errorCloneTimeoutFormat      = "invalid clone.timeout %q: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the defaults read from configuration files.
type ApplicationConfiguration struct {
	Target string              `mapstructure:"target"`
	Output OutputConfiguration `mapstructure:"output"`
	Paths  PathConfiguration   `mapstructure:"paths"`
	Clone  CloneConfiguration  `mapstructure:"clone"`
	Tokens TokenConfiguration  `mapstructure:"tokens"`
}

// OutputConfiguration configures the file target.
type OutputConfiguration struct {
	File string `mapstructure:"file"`
}

// PathConfiguration configures exclusion rules for traversal.
type PathConfiguration struct {
	Exclude      []string `mapstructure:"exclude"`
	UseGitignore *bool    `mapstructure:"use_gitignore"`
}

// CloneConfiguration configures how remote sources are cloned.
type CloneConfiguration struct {
	Backend string `mapstructure:"backend"`
	Depth   *int   `mapstructure:"depth"`
	// Timeout is a Go duration string such as "90s" or "5m".
	Timeout string `mapstructure:"timeout"`
}

// TokenConfiguration controls the token estimate.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from the global file and then the local or explicit file.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Paths.Exclude = utils.DeduplicatePatterns(merged.Paths.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(errorResolveConfigPathFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigIsDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Target != "" {
		result.Target = override.Target
	}
	if override.Output.File != "" {
		result.Output.File = override.Output.File
	}
	result.Paths = result.Paths.merge(override.Paths)
	result.Clone = result.Clone.merge(override.Clone)
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

// CloneTimeout parses clone.timeout. An empty value yields zero, which selects the resolver default.
func (config CloneConfiguration) CloneTimeout() (time.Duration, error) {
	trimmedTimeout := strings.TrimSpace(config.Timeout)
	if trimmedTimeout == "" {
		return 0, nil
	}
	timeout, parseErr := time.ParseDuration(trimmedTimeout)
	if parseErr != nil {
		return 0, fmt.Errorf(errorCloneTimeoutFormat, config.Timeout, parseErr)
	}
	return timeout, nil
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	return result
}

func (config CloneConfiguration) merge(override CloneConfiguration) CloneConfiguration {
	result := config
	if override.Backend != "" {
		result.Backend = override.Backend
	}
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
