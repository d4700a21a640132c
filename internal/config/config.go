// Package config loads dirscan configuration files and pattern files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/dirscan/internal/utils"
)

const (
	commentPrefix = "#"

	errorOpenPatternFileFormat = "open pattern file %s: %w"
	errorReadPatternFileFormat = "read pattern file %s: %w"
	warningClosePatternFile    = "Warning: failed to close %s: %v\n"
)

// LoadIgnoreFilePatterns reads one pattern per line from the file at patternFilePath.
// Blank lines and lines starting with # are skipped. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(patternFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(patternFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorOpenPatternFileFormat, patternFilePath, openFileError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			fmt.Fprintf(os.Stderr, warningClosePatternFile, patternFilePath, closeError)
		}
	}()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorReadPatternFileFormat, patternFilePath, scanError)
	}
	return patterns, nil
}

// LoadExclusionFilePatterns reads a pattern file named explicitly by the user.
// Unlike LoadIgnoreFilePatterns, a missing file is an error.
func LoadExclusionFilePatterns(patternFilePath string) ([]string, error) {
	if _, statError := os.Stat(patternFilePath); statError != nil {
		return nil, fmt.Errorf(errorOpenPatternFileFormat, patternFilePath, statError)
	}
	return LoadIgnoreFilePatterns(patternFilePath)
}

// LoadGitIgnoreRules returns the rules of the .gitignore file directly inside rootDirectoryPath.
func LoadGitIgnoreRules(rootDirectoryPath string) ([]string, error) {
	return LoadIgnoreFilePatterns(filepath.Join(rootDirectoryPath, utils.GitIgnoreFileName))
}

// CombineExclusionPatterns concatenates the pattern groups in order, dropping
// blank entries and repeated patterns.
func CombineExclusionPatterns(patternGroups ...[]string) []string {
	var combinedPatterns []string
	for _, patternGroup := range patternGroups {
		for _, pattern := range patternGroup {
			trimmedPattern := strings.TrimSpace(pattern)
			if trimmedPattern == "" {
				continue
			}
			if !utils.ContainsString(combinedPatterns, trimmedPattern) {
				combinedPatterns = append(combinedPatterns, trimmedPattern)
			}
		}
	}
	return combinedPatterns
}
