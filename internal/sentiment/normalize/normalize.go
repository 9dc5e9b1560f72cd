// Package normalize prepares raw fetched text for scoring: markup is
// stripped, whitespace collapsed, and everything lowercased so the
// lexicon can match case-insensitively.
package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markdownLink  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markdownImage = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	bareURL       = regexp.MustCompile(`https?://\S+`)
	emphasisRunes = strings.NewReplacer("**", " ", "__", " ", "~~", " ", "`", " ", "#", " ", ">", " ", "*", " ")
)

// Normalize cleans one raw text item. Pure and total: it never fails,
// and empty input yields empty output.
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := raw

	// Markdown images carry no sentiment, links keep their label.
	s = markdownImage.ReplaceAllString(s, " ")
	s = markdownLink.ReplaceAllString(s, "$1")
	s = bareURL.ReplaceAllString(s, " ")

	s = stripHTML(s)
	s = emphasisRunes.Replace(s)

	// Collapse all runs of whitespace to single spaces.
	s = strings.Join(strings.Fields(s), " ")

	return strings.ToLower(s)
}

// stripHTML drops tags and resolves entities using goquery. On parse
// failure the input passes through untouched rather than erroring.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return doc.Text()
}
