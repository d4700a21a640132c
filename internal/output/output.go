// Package output renders traversal results as JSON, XML, YAML or raw text.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/temirov/dirscan/internal/traverse"
	"github.com/temirov/dirscan/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	xmlHeader = xml.Header

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	listFileFormat      = "[File] %s%s\n"
	listDirectoryFormat = "[Dir]  %s%s\n"
	listingHeaderFormat = "--- Listing: %s ---\n"
	treeLineFormat      = "%s%s%s%s\n"
	statsSuffixFormat   = " (%s, %s)"

	errorUnsupportedFormat = "unsupported format %q"
)

var directoryColor = color.New(color.FgBlue, color.Bold)

// Result is the outcome of traversing one root path.
type Result struct {
	XMLName xml.Name         `json:"-" yaml:"-" xml:"result"`
	Root    string           `json:"root" yaml:"root" xml:"root,attr"`
	Mode    traverse.Mode    `json:"mode" yaml:"mode" xml:"mode,attr"`
	Entries []traverse.Entry `json:"entries" yaml:"entries" xml:"entry"`
}

// RenderJSON marshals results to JSON. A single result is rendered as its bare entry array.
func RenderJSON(results []Result) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(documentValue(results), indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderYAML marshals results to YAML. A single result is rendered as its bare entry sequence.
func RenderYAML(results []Result) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if yamlEncodeError := encoder.Encode(documentValue(results)); yamlEncodeError != nil {
		return "", yamlEncodeError
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", closeError
	}
	return buffer.String(), nil
}

// RenderXML marshals results to an XML document with one <result> element per root.
func RenderXML(results []Result) (string, error) {
	wrapper := struct {
		XMLName xml.Name `xml:"results"`
		Results []Result `xml:"result"`
	}{Results: results}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

func documentValue(results []Result) any {
	if len(results) == 1 {
		if results[0].Entries == nil {
			return []traverse.Entry{}
		}
		return results[0].Entries
	}
	if results == nil {
		return []Result{}
	}
	return results
}

// writeRawResult renders one result as text: LIST results one line per entry,
// TREE results as an indented tree under the root path.
func writeRawResult(writer io.Writer, result Result, withHeader bool) {
	if result.Mode == traverse.ModeTree {
		fmt.Fprintln(writer, directoryColor.Sprint(result.Root))
		writeTreeLevel(writer, result.Entries, "")
		return
	}
	if withHeader {
		fmt.Fprintf(writer, listingHeaderFormat, result.Root)
	}
	for _, entry := range result.Entries {
		if entry.IsDirectory {
			fmt.Fprintf(writer, listDirectoryFormat, directoryColor.Sprint(entry.FullName), statsSuffix(entry))
			continue
		}
		fmt.Fprintf(writer, listFileFormat, entry.FullName, statsSuffix(entry))
	}
}

func writeTreeLevel(writer io.Writer, entries []traverse.Entry, prefix string) {
	for index, entry := range entries {
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if index == len(entries)-1 {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		label := entry.Name
		if entry.IsDirectory {
			label = directoryColor.Sprint(entry.Name)
		}
		fmt.Fprintf(writer, treeLineFormat, prefix, connector, label, statsSuffix(entry))
		if len(entry.Content) > 0 {
			writeTreeLevel(writer, entry.Content, childPrefix)
		}
	}
}

func statsSuffix(entry traverse.Entry) string {
	if entry.Stats == nil {
		return ""
	}
	return fmt.Sprintf(statsSuffixFormat, utils.FormatFileSize(entry.Stats.Size), utils.FormatTimestamp(entry.Stats.ModificationTime))
}
