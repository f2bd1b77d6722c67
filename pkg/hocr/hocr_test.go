package hocr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

func sampleResult() *ocr.Result {
	return &ocr.Result{
		Engine: "tesseract",
		Text:   "HELLO world\nsecond",
		Words: []ocr.Word{
			{Text: "HELLO", Box: ocr.Box{X: 10, Y: 10, Width: 40, Height: 20}, Confidence: 0.97},
			{Text: "world", Box: ocr.Box{X: 60, Y: 12, Width: 35, Height: 18}, Confidence: 0.80},
			{Text: "second", Box: ocr.Box{X: 10, Y: 50, Width: 50, Height: 20}, Confidence: 0.65},
		},
	}
}

func TestFromResultGroupsLines(t *testing.T) {
	doc := FromResult(sampleResult(), 200, 100, "scan.png")

	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]
	assert.Equal(t, NewBBox(0, 0, 200, 100), page.BBox)
	assert.Equal(t, "scan.png", page.ImageName)
	assert.Equal(t, "tesseract", doc.System)

	require.Len(t, page.Lines, 2)
	first := page.Lines[0]
	require.Len(t, first.Words, 2)
	assert.Equal(t, "HELLO", first.Words[0].Text)
	assert.Equal(t, "world", first.Words[1].Text)
	assert.Equal(t, NewBBox(10, 10, 95, 30), first.BBox)
	assert.InDelta(t, 97, first.Words[0].Confidence, 1e-6)

	second := page.Lines[1]
	require.Len(t, second.Words, 1)
	assert.Equal(t, "second", second.Words[0].Text)
}

func TestFromResultTextOnly(t *testing.T) {
	res := &ocr.Result{Engine: "documentai", Text: "just text"}
	doc := FromResult(res, 300, 150, "page.png")

	require.Len(t, doc.Pages, 1)
	require.Len(t, doc.Pages[0].Lines, 1)
	require.Len(t, doc.Pages[0].Lines[0].Words, 1)
	assert.Equal(t, "just text", doc.Pages[0].Lines[0].Words[0].Text)
	assert.Equal(t, NewBBox(0, 0, 300, 150), doc.Pages[0].Lines[0].Words[0].BBox)
}

func TestFromResultEmpty(t *testing.T) {
	res := &ocr.Result{Engine: "tesseract", Empty: true}
	doc := FromResult(res, 100, 100, "blank.png")
	require.Len(t, doc.Pages, 1)
	assert.Empty(t, doc.Pages[0].Lines)
}

func TestGenerateContainsWords(t *testing.T) {
	doc := FromResult(sampleResult(), 200, 100, "scan.png")
	out, err := Generate(doc)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `class="ocr_page"`)
	assert.Contains(t, out, `image &quot;scan.png&quot;`)
	assert.Contains(t, out, `bbox 10 10 50 30; x_wconf 97`)
	assert.Contains(t, out, ">HELLO</span>")
	assert.Contains(t, out, `content="tesseract"`)
}

func TestGenerateEscapesText(t *testing.T) {
	doc := FromResult(&ocr.Result{Engine: "t", Text: "a<b"}, 10, 10, "x.png")
	out, err := Generate(doc)
	require.NoError(t, err)
	assert.Contains(t, out, "a&lt;b")
	assert.NotContains(t, out, ">a<b<")
}

func TestParseRoundTrip(t *testing.T) {
	original := FromResult(sampleResult(), 200, 100, "scan.png")
	rendered, err := Generate(original)
	require.NoError(t, err)

	parsed, err := Parse([]byte(rendered))
	require.NoError(t, err)

	require.Len(t, parsed.Pages, 1)
	assert.Equal(t, "tesseract", parsed.System)
	assert.Equal(t, original.Pages[0].BBox, parsed.Pages[0].BBox)
	require.Len(t, parsed.Pages[0].Lines, 2)

	word := parsed.Pages[0].Lines[0].Words[0]
	assert.Equal(t, "HELLO", word.Text)
	assert.Equal(t, NewBBox(10, 10, 50, 30), word.BBox)
	assert.InDelta(t, 97, word.Confidence, 0.5)
}

func TestParseRejectsNonHOCR(t *testing.T) {
	_, err := Parse([]byte("<html><body><p>plain</p></body></html>"))
	assert.Error(t, err)
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle(`image "a.png"; bbox 1 2 3 4; x_wconf 95`)
	assert.Equal(t, []string{"1", "2", "3", "4"}, props["bbox"])
	assert.Equal(t, []string{"95"}, props["x_wconf"])
	assert.Equal(t, []string{`"a.png"`}, props["image"])
}

func TestParseBBox(t *testing.T) {
	box, ok := ParseBBox("bbox 5 6 70 80")
	require.True(t, ok)
	assert.Equal(t, NewBBox(5, 6, 70, 80), box)

	_, ok = ParseBBox("x_wconf 12")
	assert.False(t, ok)

	_, ok = ParseBBox("bbox 5 six 70 80")
	assert.False(t, ok)
}

func TestExtractText(t *testing.T) {
	doc := FromResult(sampleResult(), 200, 100, "scan.png")
	assert.Equal(t, "HELLO world\nsecond", ExtractText(doc))
	assert.Equal(t, 3, WordCount(doc))
	assert.Equal(t, "", ExtractText(nil))
}

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(10, 10, 20, 20)
	b := NewBBox(5, 15, 25, 18)
	assert.Equal(t, NewBBox(5, 10, 25, 20), a.Union(b))
	assert.Equal(t, 10, a.Width())
	assert.Equal(t, 10, a.Height())
}
