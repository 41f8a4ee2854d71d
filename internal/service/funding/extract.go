package funding

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ExtractedOpportunity is one candidate record parsed out of the text
// generator's response. Requirements fields are left loosely typed: the
// generator sometimes returns strings and sometimes lists, and both are
// stashed into the eligibility metadata as-is.
type ExtractedOpportunity struct {
	ProgrammeName     string `json:"programme_name"`
	FunderName        string `json:"funder_name"`
	Deadline          string `json:"deadline"`
	SourceURL         string `json:"source_url"`
	Description       string `json:"description"`
	Requirements      any    `json:"requirements"`
	RequiredDocuments any    `json:"required_documents"`
}

// extractionInstruction is the fixed instruction sent to the text
// generator ahead of the corpus
const extractionInstruction = `You are a research assistant for a documentary production company.
Find real funding opportunities in the text below.
Return STRICTLY a JSON array of objects with no commentary and exactly these fields:
"programme_name", "funder_name", "deadline" (YYYY-MM-DD or null), "source_url", "description", "requirements", "required_documents".
Return [] if the text contains no funding opportunities.

Text:
`

// buildExtractionPrompt combines the fixed instruction with the corpus
func buildExtractionPrompt(corpus string) string {
	return extractionInstruction + corpus
}

// ParseOpportunityJSON extracts candidate records from the generator's
// raw response. This is the parse-then-validate boundary for the
// unstructured external shape: the response is reduced to its outermost
// JSON array (tolerating markdown fences and commentary around it) and
// unmarshaled. A response with no parseable array is an error; callers
// at the ingestion boundary downgrade it to zero results.
func ParseOpportunityJSON(raw string) ([]ExtractedOpportunity, error) {
	trimmed := stripCodeFences(raw)

	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var records []ExtractedOpportunity
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &records); err != nil {
		return nil, fmt.Errorf("malformed JSON array: %w", err)
	}

	return records, nil
}

// stripCodeFences removes markdown code fences the generator tends to
// wrap JSON in
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ordinalSuffix matches day-number ordinal suffixes ("31st", "2nd")
var ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

// deadlineLayouts are tried in order when parsing a candidate deadline
var deadlineLayouts = []string{
	"2006-01-02",
	"2 January 2006",
	"January 2, 2006",
	"January 2006",
	"02/01/2006",
}

// parseDeadline attempts to parse a free-form deadline string.
// Returns nil when no layout matches; the pipeline then applies its
// default deadline.
func parseDeadline(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}

	s = ordinalSuffix.ReplaceAllString(s, "$1")

	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

// truncate clips s to at most n characters. Clipping counts runes, not
// bytes: a byte slice can split a multi-byte character and the resulting
// invalid UTF-8 would be rejected on insert.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
