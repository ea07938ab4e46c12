package analyze

import "strings"

// Fixed keyword vocabularies scanned against extracted text.
var (
	financialTerms = []string{
		"invoice", "receipt", "payment", "bill", "tax",
		"expense", "salary", "payroll", "budget",
	}
	workTerms = []string{
		"report", "presentation", "meeting", "project",
		"proposal", "contract", "agreement",
	}
	personalTerms = []string{
		"vacation", "family", "personal", "birthday",
		"wedding", "trip",
	}
)

// Categories that keyword matches map to.
var suggestionTerms = []struct {
	category string
	terms    []string
}{
	{"Finance", []string{"invoice", "receipt", "payment", "bill", "tax"}},
	{"Work", []string{"report", "presentation", "meeting", "project"}},
	{"Personal", []string{"vacation", "family", "personal"}},
}

// minScannedTextLen is the extracted-text length above which a file with no
// keyword match is still treated as a scanned document.
const minScannedTextLen = 100

// extractKeywords scans text for the fixed vocabularies and returns the
// matched terms, deduplicated.
func extractKeywords(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var keywords []string

	for _, vocab := range [][]string{financialTerms, workTerms, personalTerms} {
		for _, term := range vocab {
			if !seen[term] && strings.Contains(lower, term) {
				seen[term] = true
				keywords = append(keywords, term)
			}
		}
	}

	return keywords
}

// suggestCategory applies the fixed priority cascade:
// financial keywords, work keywords, personal keywords, camera metadata,
// then non-trivial extracted text. Returns "" when nothing applies.
func suggestCategory(r *Result) string {
	matched := make(map[string]bool, len(r.Keywords))
	for _, kw := range r.Keywords {
		matched[kw] = true
	}

	for _, s := range suggestionTerms {
		for _, term := range s.terms {
			if matched[term] {
				return s.category
			}
		}
	}

	if r.Metadata.CameraMake != "" {
		return "Photos"
	}

	if len(r.Text) > minScannedTextLen {
		return "Scanned Documents"
	}

	return ""
}
