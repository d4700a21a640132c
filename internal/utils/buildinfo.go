package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// GetApplicationVersion returns the module version recorded in the binary, or
// the nearest git tag of the working tree for development builds.
func GetApplicationVersion() string {
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if version := buildInfo.Main.Version; version != "" && version != developmentVersion {
			return version
		}
	}

	repositoryRoot, found := findRepositoryRoot(".")
	if !found {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	} {
		if version := gitDescribe(repositoryRoot, describeArguments); version != "" {
			return version
		}
	}
	return unknownVersion
}

func gitDescribe(repositoryRoot string, arguments []string) string {
	// #nosec G204
	command := exec.Command("git", arguments...)
	command.Dir = repositoryRoot
	output, commandError := command.Output()
	if commandError != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// findRepositoryRoot walks upward from startDirectory to the first directory containing .git.
func findRepositoryRoot(startDirectory string) (string, bool) {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", false
	}
	for {
		gitInfo, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statError == nil && gitInfo.IsDir() {
			return currentDirectory, true
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", false
		}
		currentDirectory = parentDirectory
	}
}
