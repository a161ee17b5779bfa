package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/temirov/repoprompt/internal/utils"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	explicitBody    string
	expectTarget    string
	expectFile      string
	expectExclude   []string
	expectGitignore *bool
	expectBackend   string
	expectDepth     *int
	expectTimeout   time.Duration
	expectTokens    *bool
	expectModel     string
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "target: file\noutput:\n  file: global.md\nclone:\n  backend: go-git\n  depth: 5\n",
			localContent:    "target: terminal\npaths:\n  exclude: [dist/, dist/, node_modules/]\n  use_gitignore: false\nclone:\n  timeout: 90s\ntokens:\n  enabled: true\n  model: gpt-4o-mini\n",
			expectTarget:    "terminal",
			expectFile:      "global.md",
			expectExclude:   []string{"dist/", "node_modules/"},
			expectGitignore: boolPointer(false),
			expectBackend:   "go-git",
			expectDepth:     intPointer(5),
			expectTimeout:   90 * time.Second,
			expectTokens:    boolPointer(true),
			expectModel:     "gpt-4o-mini",
		},
		{
			name:          "explicit_path_replaces_local",
			globalContent: "clone:\n  depth: 0\n",
			localContent:  "target: terminal\n",
			explicitPath:  "custom.yaml",
			explicitBody:  "target: clipboard\n",
			expectTarget:  "clipboard",
			expectExclude: []string{},
			expectDepth:   intPointer(0),
		},
		{
			name:          "no_files",
			expectExclude: []string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.GlobalConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitBody), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Target != testCase.expectTarget {
				t.Fatalf("expected target %q, got %q", testCase.expectTarget, loadedConfig.Target)
			}
			if loadedConfig.Output.File != testCase.expectFile {
				t.Fatalf("expected output file %q, got %q", testCase.expectFile, loadedConfig.Output.File)
			}
			if !reflect.DeepEqual(loadedConfig.Paths.Exclude, testCase.expectExclude) {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, loadedConfig.Paths.Exclude)
			}
			if !reflect.DeepEqual(loadedConfig.Paths.UseGitignore, testCase.expectGitignore) {
				t.Fatalf("unexpected use_gitignore value %v", loadedConfig.Paths.UseGitignore)
			}
			if loadedConfig.Clone.Backend != testCase.expectBackend {
				t.Fatalf("expected backend %q, got %q", testCase.expectBackend, loadedConfig.Clone.Backend)
			}
			if !reflect.DeepEqual(loadedConfig.Clone.Depth, testCase.expectDepth) {
				t.Fatalf("unexpected depth value %v", loadedConfig.Clone.Depth)
			}
			timeout, timeoutErr := loadedConfig.Clone.CloneTimeout()
			if timeoutErr != nil || timeout != testCase.expectTimeout {
				t.Fatalf("expected timeout %s, got %s (%v)", testCase.expectTimeout, timeout, timeoutErr)
			}
			if !reflect.DeepEqual(loadedConfig.Tokens.Enabled, testCase.expectTokens) {
				t.Fatalf("unexpected tokens enabled value %v", loadedConfig.Tokens.Enabled)
			}
			if loadedConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Tokens.Model)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsInvalidFile(t *testing.T) {
	homeDir := t.TempDir()
	workingDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	if err := os.WriteFile(filepath.Join(workingDir, utils.ConfigFileName), []byte("target: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("write local config: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir}); err == nil {
		t.Fatalf("expected error for malformed configuration")
	}
	if err := os.Mkdir(filepath.Join(workingDir, "dir.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, ExplicitFilePath: "dir.yaml"}); err == nil {
		t.Fatalf("expected error for directory configuration path")
	}
}

func TestCloneTimeoutRejectsInvalidDuration(t *testing.T) {
	if _, err := (CloneConfiguration{Timeout: "soon"}).CloneTimeout(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestMergeKeepsBaseWhenOverrideEmpty(t *testing.T) {
	base := ApplicationConfiguration{
		Target: "file",
		Paths:  PathConfiguration{Exclude: []string{"a/"}, UseGitignore: boolPointer(true)},
		Clone:  CloneConfiguration{Backend: "git", Depth: intPointer(1), Timeout: "1m"},
	}
	merged := base.Merge(ApplicationConfiguration{})
	if !reflect.DeepEqual(merged, base) {
		t.Fatalf("expected base to survive an empty override, got %+v", merged)
	}
	override := ApplicationConfiguration{Paths: PathConfiguration{UseGitignore: boolPointer(false)}}
	merged = base.Merge(override)
	*override.Paths.UseGitignore = true
	if *merged.Paths.UseGitignore {
		t.Fatalf("merge must copy pointer values")
	}
}
