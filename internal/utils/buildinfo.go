package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion = "unknown"
	develVersion   = "(devel)"
)

// Version is populated at build time:
//
//	go build -ldflags "-X 'github.com/temirov/repoprompt/internal/utils.Version=v1.2.3'"
var Version = EmptyString

// GetApplicationVersion determines the application version.
// The ldflags value wins, then Go build info, then git describe inside the source checkout.
func GetApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}

	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}

	gitDirectoryPath, gitDirectoryError := findGitDirectory(".")
	if gitDirectoryError != nil {
		return unknownVersion
	}

	describeVariants := [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	}
	for _, describeArguments := range describeVariants {
		// #nosec G204
		describeCommand := exec.Command("git", describeArguments...)
		describeCommand.Dir = gitDirectoryPath
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}

	return unknownVersion
}

// findGitDirectory searches upward from startDirectory for the directory holding the .git folder.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, errorAbsolute := filepath.Abs(startDirectory)
	if errorAbsolute != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, errorAbsolute)
	}

	currentDirectory := absoluteStartDirectory
	for {
		fileInformation, errorStat := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if errorStat == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return "", fmt.Errorf("%s directory not found in or above %s", GitDirectoryName, absoluteStartDirectory)
}
