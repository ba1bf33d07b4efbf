package processing

import (
	"regexp"
	"strings"
)

var urlRegex = regexp.MustCompile(`https?://[^\s<>"'\x60]+`)

var whitespace = regexp.MustCompile(`[\s\p{Zs}]+`)

// trailing characters that are almost never part of a URL copied out of prose
// or markdown.
const urlTrailer = ".,;:!?)]}*"

// ExtractURLs extracts all HTTP(S) URLs from the input text, in order and
// without duplicates.
func ExtractURLs(input string) []string {
	if input == "" {
		return nil
	}
	matches := urlRegex.FindAllString(input, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var urls []string
	for _, url := range matches {
		url = strings.TrimRight(url, urlTrailer)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; !ok {
			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}
	return urls
}

// FirstURL returns the first URL found in text, or "" when there is none.
func FirstURL(text string) string {
	urls := ExtractURLs(text)
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// SquashSpace collapses runs of whitespace, including no-break spaces, into a
// single space and trims the result. Input is already decoded text; entities
// are left as they are.
func SquashSpace(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(input, " "))
}

// JoinAddress combines two address lines with ", " and strips separator
// punctuation left over when one of the lines is empty.
func JoinAddress(line1, line2 string) string {
	joined := SquashSpace(line1) + ", " + SquashSpace(line2)
	return strings.Trim(joined, ", ")
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// NormalizeKey folds a company name into a stable comparison key.
func NormalizeKey(name string) string {
	return strings.ToLower(SquashSpace(name))
}
