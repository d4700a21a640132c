package output

import (
	"fmt"

	"github.com/temirov/dirscan/internal/traverse"
	"github.com/temirov/dirscan/internal/utils"
)

// Summary aggregates the entries of one or more results.
type Summary struct {
	Files       int
	Directories int
	Bytes       int64
	// HasSizes is set when at least one file carried metadata.
	HasSizes bool
}

// Summarize counts files, directories and file bytes across results, including nested content.
func Summarize(results []Result) Summary {
	var summary Summary
	for _, result := range results {
		summary.add(result.Entries)
	}
	return summary
}

// Add returns the sum of summary and other.
func (summary Summary) Add(other Summary) Summary {
	return Summary{
		Files:       summary.Files + other.Files,
		Directories: summary.Directories + other.Directories,
		Bytes:       summary.Bytes + other.Bytes,
		HasSizes:    summary.HasSizes || other.HasSizes,
	}
}

func (summary *Summary) add(entries []traverse.Entry) {
	for _, entry := range traverse.Flatten(entries) {
		if entry.IsDirectory {
			summary.Directories++
			continue
		}
		summary.Files++
		if entry.Stats != nil {
			summary.Bytes += entry.Stats.Size
			summary.HasSizes = true
		}
	}
}

// FormatSummaryLine formats a Summary into the raw summary line.
func FormatSummaryLine(summary Summary) string {
	line := fmt.Sprintf("Summary: %s, %s",
		pluralize(summary.Files, "file", "files"),
		pluralize(summary.Directories, "directory", "directories"),
	)
	if summary.HasSizes {
		line += ", " + utils.FormatFileSize(summary.Bytes)
	}
	return line
}

func pluralize(count int, singular string, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
