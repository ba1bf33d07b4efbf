// Package summary renders an extracted profile record into the textual
// summary returned to callers.
package summary

import (
	"strings"

	"github.com/canberk17/moving/internal/models"
)

const emptyValue = "N/A"

// Build renders the five summary lines in a fixed order and cites the profile
// URL as the single source.
func Build(rec models.ExtractedRecord) models.SummaryResult {
	lines := []string{
		line("Business name", rec.BusinessName),
		line("Is the business accredited?", rec.Accredited),
		line("BBB Accreditation rating (F to A+)", rec.AccreditationRating),
		line("Address", rec.Address),
		line("Review score (out of 5)", rec.ReviewScore),
	}

	return models.SummaryResult{
		Summary: strings.Join(lines, "\n"),
		Sources: []models.Source{{URL: rec.URL}},
	}
}

func line(label, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = emptyValue
	}
	return "- " + label + ": " + value
}
