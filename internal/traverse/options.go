package traverse

import (
	"fmt"
	"strings"
)

// Mode selects the shape of a traversal result.
type Mode int

const (
	// ModeList flattens every matched entry into a single depth-first sequence.
	ModeList Mode = iota
	// ModeTree nests the children of each directory in its Content field.
	ModeTree
)

const (
	modeListName = "list"
	modeTreeName = "tree"

	errorUnknownModeFormat = "unknown traversal mode %q"
)

// String returns the lower-case name of the mode.
func (mode Mode) String() string {
	switch mode {
	case ModeList:
		return modeListName
	case ModeTree:
		return modeTreeName
	default:
		return fmt.Sprintf("mode(%d)", int(mode))
	}
}

// ParseMode converts "list" or "tree" (case-insensitive) into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case modeListName:
		return ModeList, nil
	case modeTreeName:
		return ModeTree, nil
	default:
		return ModeList, fmt.Errorf(errorUnknownModeFormat, value)
	}
}

// Options controls a single call to Traverse.
// Start from DefaultOptions: the zero value disables recursion and emits directories.
type Options struct {
	Mode Mode
	// Recursive descends into subdirectories.
	Recursive bool
	// Stats looks up filesystem metadata for every visited entry.
	Stats bool
	// IgnoreFolders drops the descriptors of directories themselves.
	// It never decides whether a directory's children are visited.
	IgnoreFolders bool
	// Extensions splits the file extension off the title.
	Extensions bool
	// Exclude holds case-insensitive regular expressions tested against absolute paths.
	Exclude []string
	// IgnoreRules holds gitignore-style lines tested against root-relative paths.
	IgnoreRules []string
}

// DefaultOptions returns a recursive LIST traversal without stats, extensions or exclusions.
func DefaultOptions() Options {
	return Options{
		Mode:          ModeList,
		Recursive:     true,
		Stats:         false,
		IgnoreFolders: true,
		Extensions:    false,
	}
}

// MarshalText implements encoding.TextMarshaler.
func (mode Mode) MarshalText() ([]byte, error) {
	return []byte(mode.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (mode *Mode) UnmarshalText(text []byte) error {
	parsedMode, parseError := ParseMode(string(text))
	if parseError != nil {
		return parseError
	}
	*mode = parsedMode
	return nil
}
