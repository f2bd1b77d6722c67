package hocr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Parse converts raw hOCR data into the object model. Documents declaring a
// Latin-1 charset are transcoded; everything else is treated as UTF-8.
func Parse(data []byte) (*Document, error) {
	if declaresLatin1(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode latin-1 hOCR: %w", err)
		}
		data = decoded
	}

	root, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR HTML: %w", err)
	}

	doc := &Document{}
	readHead(doc, root)

	walk(root, func(n *html.Node) bool {
		if !hasClass(n, "ocr_page") {
			return true
		}
		doc.Pages = append(doc.Pages, parsePage(n))
		return false
	})

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return doc, nil
}

// ParseTitle breaks an hOCR title attribute into its properties, e.g.
// "bbox 100 200 300 400; x_wconf 95" into {"bbox": [...], "x_wconf": [...]}.
func ParseTitle(title string) map[string][]string {
	props := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) > 0 {
			props[fields[0]] = fields[1:]
		}
	}
	return props
}

// ParseBBox extracts a bounding box from a title string, reporting whether
// one was present.
func ParseBBox(title string) (BBox, bool) {
	props := ParseTitle(title)
	coords, ok := props["bbox"]
	if !ok || len(coords) < 4 {
		return BBox{}, false
	}
	x1, err1 := strconv.Atoi(coords[0])
	y1, err2 := strconv.Atoi(coords[1])
	x2, err3 := strconv.Atoi(coords[2])
	y2, err4 := strconv.Atoi(coords[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return BBox{}, false
	}
	return NewBBox(x1, y1, x2, y2), true
}

func declaresLatin1(data []byte) bool {
	head := strings.ToLower(string(data[:min(len(data), 1024)]))
	return strings.Contains(head, "charset=iso-8859-1")
}

// walk visits element nodes depth-first; visit returns false to stop
// descending below a node.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if n.Type == html.ElementNode && !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func parsePage(n *html.Node) Page {
	page := Page{
		ID:   attr(n, "id"),
		Lang: attr(n, "lang"),
	}
	title := attr(n, "title")
	if bbox, ok := ParseBBox(title); ok {
		page.BBox = bbox
	}
	props := ParseTitle(title)
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(image[0], `"`)
	}
	if no, ok := props["ppageno"]; ok && len(no) > 0 {
		page.PageNumber, _ = strconv.Atoi(no[0])
	}

	var stray []Word
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(node *html.Node) bool {
			switch {
			case hasClass(node, "ocr_line"), hasClass(node, "ocr_header"), hasClass(node, "ocr_caption"):
				page.Lines = append(page.Lines, parseLine(node))
				return false
			case hasClass(node, "ocrx_word"):
				// Word with no parent line; collected below.
				stray = append(stray, parseWord(node))
				return false
			}
			return true
		})
	}
	if len(stray) > 0 {
		line := Line{ID: page.ID + "_stray", Words: stray}
		line.BBox = unionOfWords(stray)
		page.Lines = append(page.Lines, line)
	}
	return page
}

func parseLine(n *html.Node) Line {
	line := Line{ID: attr(n, "id")}
	if bbox, ok := ParseBBox(attr(n, "title")); ok {
		line.BBox = bbox
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(node *html.Node) bool {
			if hasClass(node, "ocrx_word") {
				line.Words = append(line.Words, parseWord(node))
				return false
			}
			return true
		})
	}
	return line
}

func parseWord(n *html.Node) Word {
	word := Word{
		ID:   attr(n, "id"),
		Text: textContent(n),
	}
	title := attr(n, "title")
	if bbox, ok := ParseBBox(title); ok {
		word.BBox = bbox
	}
	if conf, ok := ParseTitle(title)["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	return word
}

func readHead(doc *Document, root *html.Node) {
	walk(root, func(n *html.Node) bool {
		switch n.Data {
		case "html":
			if lang := attr(n, "lang"); lang != "" {
				doc.Language = lang
			}
		case "title":
			if n.FirstChild != nil {
				doc.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			if attr(n, "name") == "ocr-system" {
				doc.System = attr(n, "content")
			}
		case "body":
			return false
		}
		return true
	})
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return strings.TrimSpace(sb.String())
}

func unionOfWords(words []Word) BBox {
	box := words[0].BBox
	for _, w := range words[1:] {
		box = box.Union(w.BBox)
	}
	return box
}
