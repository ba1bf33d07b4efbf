package models

// Sentinel values used when a field could not be extracted from the profile page.
const (
	NotFound     = "Not found"
	NotAvailable = "Not available"
	Yes          = "Yes"
	No           = "No"
)

// ExtractionRequest is the inbound lookup payload.
type ExtractionRequest struct {
	Company string `json:"company"`
}

// ResolvedTarget is the profile URL chosen for a lookup.
type ResolvedTarget struct {
	URL string
	// Suggested is true when the URL came from the link completion
	// collaborator rather than the fallback search template.
	Suggested bool
}

// ExtractedRecord holds every field pulled from a profile page. Fields are
// never empty: each one starts at its sentinel and is overwritten on success.
type ExtractedRecord struct {
	BusinessName        string `json:"business_name"`
	Accredited          string `json:"accredited"`
	AccreditationRating string `json:"accreditation_rating"`
	Address             string `json:"address"`
	ReviewScore         string `json:"review_score"`
	URL                 string `json:"url"`
}

// NewRecord returns a record for url with every field set to its sentinel.
func NewRecord(url string) ExtractedRecord {
	return ExtractedRecord{
		BusinessName:        NotFound,
		Accredited:          No,
		AccreditationRating: NotAvailable,
		Address:             NotFound,
		ReviewScore:         NotFound,
		URL:                 url,
	}
}

// Source is a single citation attached to a summary.
type Source struct {
	URL string `json:"url"`
}

// SummaryResult is the rendered response for a lookup.
type SummaryResult struct {
	Summary string   `json:"summary"`
	Sources []Source `json:"sources"`
}
