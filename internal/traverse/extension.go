package traverse

import "strings"

const (
	extensionSeparator  = "."
	parentDirectoryName = ".."
)

// splitExtension returns the title and the extension of a file name.
// The extension starts at the last dot, which must be preceded by at least one
// character: ".bashrc" has no extension while "archive." has ".".
func splitExtension(name string) (string, string) {
	if name == parentDirectoryName {
		return name, ""
	}
	separatorIndex := strings.LastIndex(name, extensionSeparator)
	if separatorIndex <= 0 {
		return name, ""
	}
	return name[:separatorIndex], name[separatorIndex:]
}
