package api

import "encoding/json"

// ReportRenderer turns a completed run into a rendered byte stream.
// Markdown/HTML rendering stay at this interface boundary with no
// concrete implementation shipped; only the machine-readable JSON
// renderer ships in core.
type ReportRenderer interface {
	Render(run RunResult) ([]byte, error)
}

// JSONRenderer is the only ReportRenderer shipped in core.
type JSONRenderer struct{}

// Render serializes run as indented JSON.
func (JSONRenderer) Render(run RunResult) ([]byte, error) {
	return json.MarshalIndent(run, "", "  ")
}

var _ ReportRenderer = JSONRenderer{}
