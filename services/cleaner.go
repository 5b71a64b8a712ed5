package services

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespaceRe = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText turns a job description that may contain markup into plain text.
// Block elements become paragraphs; text without markup is only whitespace-normalized.
func HTMLToText(html string) string {
	if !strings.ContainsAny(html, "<>") {
		return cleanText(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanText(html)
	}
	doc.Find("script, style, iframe, noscript").Remove()

	var blocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, pre").Each(func(i int, s *goquery.Selection) {
		// Nested blocks are reached through their own selection
		if s.Find("p, li").Length() > 0 {
			return
		}
		text := cleanText(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "- " + text
		}
		blocks = append(blocks, text)
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n\n")
	}

	return cleanText(doc.Text())
}

func cleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text = blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
