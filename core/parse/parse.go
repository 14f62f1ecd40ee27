package parse

import (
	"strings"

	"github.com/huangsam/ragboard/schema"
)

// Required header names, matched case-insensitively after trimming.
const (
	ColYear      = "year"
	ColPI        = "pi"
	ColTarget    = "strategic target"
	ColObjective = "objective"
	ColRAG       = "rag"
)

// RequiredColumns lists the header names every table must carry.
var RequiredColumns = []string{ColYear, ColPI, ColTarget, ColObjective, ColRAG}

type options struct {
	coerceUnknown bool
}

// Option customizes ParseTable.
type Option func(*options)

// WithCoerceUnknown maps unrecognized RAG labels to TBD instead of keeping them verbatim.
func WithCoerceUnknown(coerce bool) Option {
	return func(o *options) {
		o.coerceUnknown = coerce
	}
}

// DetectDelimiter returns a tab when text contains one, else a comma.
func DetectDelimiter(text string) string {
	if strings.Contains(text, "\t") {
		return "\t"
	}
	return ","
}

// ParseTable parses delimited status text into records.
// The first line is the header; columns are located by name, so their order is free.
// Ragged rows yield empty strings for missing trailing fields and blank lines are skipped.
func ParseTable(text string, opts ...Option) ([]schema.StatusRecord, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	normalize := Normalize
	if o.coerceUnknown {
		normalize = NormalizeStrict
	}

	delim := DetectDelimiter(text)
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, &ParseError{Kind: InsufficientRows, Lines: len(lines)}
	}

	index, err := locateColumns(strings.Split(lines[0], delim))
	if err != nil {
		return nil, err
	}

	records := make([]schema.StatusRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, delim)
		records = append(records, schema.StatusRecord{
			Year:      strings.TrimSpace(field(fields, index[ColYear])),
			PICycle:   strings.ToUpper(strings.TrimSpace(field(fields, index[ColPI]))),
			Target:    strings.TrimSpace(field(fields, index[ColTarget])),
			Objective: strings.TrimSpace(field(fields, index[ColObjective])),
			RAG:       normalize(field(fields, index[ColRAG])),
		})
	}
	return records, nil
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines trims the whole text and splits it on LF, CRLF or a bare CR.
func splitLines(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return strings.Split(newlines.Replace(trimmed), "\n")
}

// locateColumns maps each required column to its first position in the header.
func locateColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(RequiredColumns))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{Kind: MissingColumns, Missing: missing}
	}
	return index, nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
