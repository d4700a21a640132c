package output

import (
	"fmt"
	"io"

	"github.com/temirov/dirscan/internal/types"
)

// StreamRenderer consumes results one root at a time.
type StreamRenderer interface {
	Handle(result Result) error
	Flush() error
}

// NewStreamRenderer returns the renderer for format writing to writer.
// Raw output is written as results arrive; structured formats are written on Flush.
func NewStreamRenderer(format string, writer io.Writer, totalRoots int, includeSummary bool) (StreamRenderer, error) {
	switch format {
	case types.FormatRaw:
		return &rawStreamRenderer{writer: writer, totalRoots: totalRoots, includeSummary: includeSummary}, nil
	case types.FormatJSON:
		return &documentStreamRenderer{writer: writer, render: RenderJSON}, nil
	case types.FormatXML:
		return &documentStreamRenderer{writer: writer, render: RenderXML}, nil
	case types.FormatYAML:
		return &documentStreamRenderer{writer: writer, render: RenderYAML}, nil
	default:
		return nil, fmt.Errorf(errorUnsupportedFormat, format)
	}
}

type rawStreamRenderer struct {
	writer         io.Writer
	totalRoots     int
	includeSummary bool
	summary        Summary
}

func (renderer *rawStreamRenderer) Handle(result Result) error {
	writeRawResult(renderer.writer, result, renderer.totalRoots > 1)
	renderer.summary = renderer.summary.Add(Summarize([]Result{result}))
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	if renderer.includeSummary {
		_, writeError := fmt.Fprintln(renderer.writer, FormatSummaryLine(renderer.summary))
		return writeError
	}
	return nil
}

type documentStreamRenderer struct {
	writer  io.Writer
	render  func([]Result) (string, error)
	results []Result
}

func (renderer *documentStreamRenderer) Handle(result Result) error {
	renderer.results = append(renderer.results, result)
	return nil
}

func (renderer *documentStreamRenderer) Flush() error {
	rendered, renderError := renderer.render(renderer.results)
	if renderError != nil {
		return renderError
	}
	_, writeError := fmt.Fprintln(renderer.writer, rendered)
	return writeError
}
