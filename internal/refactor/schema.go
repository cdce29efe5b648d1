package refactor

import (
	"encoding/json"
	"fmt"
)

// modernOutput is the modern JSON schema variant: totals + per-file
// applied-rector-id lists, plus an optional unified diff per file.
type modernOutput struct {
	Totals struct {
		ChangedFiles int `json:"changed_files"`
	} `json:"totals"`
	FileDiffs []struct {
		File           string   `json:"file"`
		AppliedRectors []string `json:"applied_rectors"`
		Diff           string   `json:"diff"`
	} `json:"file_diffs"`
	Errors []json.RawMessage `json:"errors"`
}

// legacyChangedFile is one entry of the legacy schema's changed_files
// array: either a bare file path string, or an object carrying full
// per-rule detail.
type legacyChangedFile struct {
	isString bool
	file     string

	File           string               `json:"file"`
	AppliedRectors []legacyAppliedRector `json:"applied_rectors"`
}

type legacyAppliedRector struct {
	Class   string `json:"class"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Old     string `json:"old"`
	New     string `json:"new"`
}

func (l *legacyChangedFile) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		l.isString = true
		l.file = asString
		return nil
	}

	type alias legacyChangedFile
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = legacyChangedFile(a)
	return nil
}

type legacyOutput struct {
	ChangedFiles []legacyChangedFile `json:"changed_files"`
	Errors       []json.RawMessage  `json:"errors"`
}

// ParsedOutput is the tagged sum the two JSON schema variants decode
// into, decided once at the parse boundary rather than re-sniffed by
// every downstream consumer.
type ParsedOutput struct {
	IsModern bool
	Modern   *modernOutput
	Legacy   *legacyOutput
}

// ParseOutput decides between the modern and legacy schema variants and
// returns the tagged result. A JSON object carrying none of totals,
// file_diffs or changed_files is treated as legacy output with no changed
// files rather than as an error. Input that is not a JSON object, or whose
// known fields have the wrong type, returns an error.
func ParseOutput(raw []byte) (ParsedOutput, error) {
	var probe struct {
		Totals       *json.RawMessage `json:"totals"`
		FileDiffs    *json.RawMessage `json:"file_diffs"`
		ChangedFiles *json.RawMessage `json:"changed_files"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ParsedOutput{}, fmt.Errorf("parse refactor tool output: %w", err)
	}

	if probe.Totals != nil || probe.FileDiffs != nil {
		var modern modernOutput
		if err := json.Unmarshal(raw, &modern); err != nil {
			return ParsedOutput{}, fmt.Errorf("parse modern schema output: %w", err)
		}
		return ParsedOutput{IsModern: true, Modern: &modern}, nil
	}

	var legacy legacyOutput
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return ParsedOutput{}, fmt.Errorf("parse legacy schema output: %w", err)
	}
	return ParsedOutput{IsModern: false, Legacy: &legacy}, nil
}

// ToolErrors normalizes the tool's own error array into strings,
// tolerating a string, {message}, {error}, or an arbitrary object
// (JSON-re-encoded as a fallback).
func ToolErrors(raw []json.RawMessage) []string {
	var out []string
	for _, item := range raw {
		out = append(out, normalizeToolError(item))
	}
	return out
}

func normalizeToolError(item json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(item, &asString); err == nil {
		return asString
	}

	var withMessage struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(item, &withMessage); err == nil && withMessage.Message != "" {
		return withMessage.Message
	}

	var withError struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(item, &withError); err == nil && withError.Error != "" {
		return withError.Error
	}

	return string(item)
}
