package hocr

import (
	"fmt"
	"sort"

	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

// FromResult builds a single-page Document from a recognition result.
// Words are grouped into lines by vertical overlap and ordered
// left-to-right within each line. Engine confidences on the [0, 1] scale
// become hOCR x_wconf values on [0, 100].
//
// A result that carries text but no word geometry yields one line with a
// single page-spanning word, so downstream consumers always see the text.
// An empty result yields a page with no lines.
func FromResult(res *ocr.Result, width, height int, imageName string) *Document {
	doc := &Document{
		Title:  imageName,
		System: res.Engine,
	}
	page := Page{
		ID:         "page_1",
		PageNumber: 1,
		ImageName:  imageName,
		BBox:       NewBBox(0, 0, width, height),
	}

	switch {
	case len(res.Words) > 0:
		page.Lines = groupLines(res.Words)
	case !res.Empty:
		page.Lines = []Line{{
			ID:   "line_1_1",
			BBox: page.BBox,
			Words: []Word{{
				ID:         "word_1_1_1",
				Text:       res.Text,
				BBox:       page.BBox,
				Confidence: 0,
			}},
		}}
	}

	doc.Pages = []Page{page}
	return doc
}

// groupLines clusters words into lines: a word joins the current line while
// its vertical center lies above the line's running bottom edge.
func groupLines(words []ocr.Word) []Line {
	sorted := make([]ocr.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Box.Y != sorted[j].Box.Y {
			return sorted[i].Box.Y < sorted[j].Box.Y
		}
		return sorted[i].Box.X < sorted[j].Box.X
	})

	var groups [][]ocr.Word
	bottom := 0
	for _, w := range sorted {
		center := w.Box.Y + w.Box.Height/2
		if len(groups) == 0 || center >= bottom {
			groups = append(groups, nil)
			bottom = w.Box.Y + w.Box.Height
		} else if b := w.Box.Y + w.Box.Height; b > bottom {
			bottom = b
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], w)
	}

	lines := make([]Line, 0, len(groups))
	for li, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Box.X < group[j].Box.X
		})
		line := Line{ID: fmt.Sprintf("line_1_%d", li+1)}
		for wi, w := range group {
			hw := Word{
				ID:         fmt.Sprintf("word_1_%d_%d", li+1, wi+1),
				Text:       w.Text,
				BBox:       NewBBox(w.Box.X, w.Box.Y, w.Box.X+w.Box.Width, w.Box.Y+w.Box.Height),
				Confidence: w.Confidence * 100,
			}
			line.Words = append(line.Words, hw)
			if wi == 0 {
				line.BBox = hw.BBox
			} else {
				line.BBox = line.BBox.Union(hw.BBox)
			}
		}
		lines = append(lines, line)
	}
	return lines
}
