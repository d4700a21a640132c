// Package types defines the cross-package values used by the dirscan CLI.
package types

const (
	CommandList = "list"
	CommandTree = "tree"
	CommandInit = "init"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case FormatRaw, FormatJSON, FormatXML, FormatYAML:
		return true
	default:
		return false
	}
}
