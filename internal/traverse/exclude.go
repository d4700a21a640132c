package traverse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dlclark/regexp2"
	ignore "github.com/sabhiram/go-gitignore"
)

const relativePathSeparator = "/"

// exclusionMatcher holds the patterns of one traversal, compiled once.
type exclusionMatcher struct {
	rootPath    string
	expressions []*regexp2.Regexp
	ignoreRules *ignore.GitIgnore
}

func newExclusionMatcher(rootPath string, patterns []string, ignoreRules []string) (*exclusionMatcher, error) {
	matcher := &exclusionMatcher{rootPath: rootPath}
	for _, pattern := range patterns {
		expression, compileError := regexp2.Compile(pattern, regexp2.IgnoreCase)
		if compileError != nil {
			return nil, fmt.Errorf(errorCompilePatternFormat, ErrInvalidPattern, pattern, compileError)
		}
		matcher.expressions = append(matcher.expressions, expression)
	}
	if len(ignoreRules) > 0 {
		matcher.ignoreRules = ignore.CompileIgnoreLines(ignoreRules...)
	}
	return matcher, nil
}

// excludes reports whether the entry must be dropped together with its subtree.
// Expressions are tried in order and the first match wins.
func (matcher *exclusionMatcher) excludes(fullName string, isDirectory bool) bool {
	for _, expression := range matcher.expressions {
		isMatched, matchError := expression.MatchString(fullName)
		if matchError == nil && isMatched {
			return true
		}
	}
	if matcher.ignoreRules == nil {
		return false
	}
	relativePath, relativeError := filepath.Rel(matcher.rootPath, fullName)
	if relativeError != nil {
		return false
	}
	relativePath = filepath.ToSlash(relativePath)
	if isDirectory && !strings.HasSuffix(relativePath, relativePathSeparator) {
		relativePath += relativePathSeparator
	}
	return matcher.ignoreRules.MatchesPath(relativePath)
}
