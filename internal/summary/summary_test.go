package summary_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/canberk17/moving/internal/models"
	"github.com/canberk17/moving/internal/summary"
)

func TestBuildFullRecord(t *testing.T) {
	rec := models.ExtractedRecord{
		BusinessName:        "Acme Roofing Co",
		Accredited:          models.Yes,
		AccreditationRating: "A+",
		Address:             "1 Main St, Toronto, ON",
		ReviewScore:         "4.5",
		URL:                 "https://www.bbb.org/ca/on/toronto/profile/roofing/acme-1",
	}

	got := summary.Build(rec)

	want := "- Business name: Acme Roofing Co\n" +
		"- Is the business accredited?: Yes\n" +
		"- BBB Accreditation rating (F to A+): A+\n" +
		"- Address: 1 Main St, Toronto, ON\n" +
		"- Review score (out of 5): 4.5"
	require.Equal(t, want, got.Summary)
	require.Equal(t, []models.Source{{URL: rec.URL}}, got.Sources)
}

func TestBuildSentinelRecord(t *testing.T) {
	url := "https://www.bbb.org/search?find_country=CAN&find_text=Nobody&page=1&sort=Relevance"

	got := summary.Build(models.NewRecord(url))

	lines := strings.Split(got.Summary, "\n")
	require.Equal(t, []string{
		"- Business name: Not found",
		"- Is the business accredited?: No",
		"- BBB Accreditation rating (F to A+): Not available",
		"- Address: Not found",
		"- Review score (out of 5): Not found",
	}, lines)
	require.Len(t, got.Sources, 1)
	require.Equal(t, url, got.Sources[0].URL)
}

func TestBuildEmptyValuesRenderAsNA(t *testing.T) {
	got := summary.Build(models.ExtractedRecord{BusinessName: "  ", Accredited: models.No})

	require.Contains(t, got.Summary, "- Business name: N/A\n")
	require.Contains(t, got.Summary, "- Review score (out of 5): N/A")
	require.True(t, strings.HasPrefix(got.Summary, "- Business name"))
	require.Equal(t, 4, strings.Count(got.Summary, "\n"))
}
