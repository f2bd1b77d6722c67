package hocr

import "strings"

// ExtractText linearizes a Document into plain text: words joined by
// spaces, lines by newlines, pages by blank lines.
func ExtractText(doc *Document) string {
	if doc == nil {
		return ""
	}
	pages := make([]string, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		lines := make([]string, 0, len(page.Lines))
		for _, line := range page.Lines {
			words := make([]string, 0, len(line.Words))
			for _, w := range line.Words {
				if t := strings.TrimSpace(w.Text); t != "" {
					words = append(words, t)
				}
			}
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, "\n\n")
}

// WordCount returns the number of words across all pages.
func WordCount(doc *Document) int {
	if doc == nil {
		return 0
	}
	n := 0
	for _, page := range doc.Pages {
		for _, line := range page.Lines {
			n += len(line.Words)
		}
	}
	return n
}
