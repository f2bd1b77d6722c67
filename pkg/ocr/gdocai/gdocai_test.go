package gdocai

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

func token(start, end int64, conf float32, verts [][2]float32) *documentaipb.Document_Page_Token {
	nv := make([]*documentaipb.NormalizedVertex, 0, len(verts))
	for _, v := range verts {
		nv = append(nv, &documentaipb.NormalizedVertex{X: v[0], Y: v[1]})
	}
	return &documentaipb.Document_Page_Token{
		Layout: &documentaipb.Document_Page_Layout{
			TextAnchor: &documentaipb.Document_TextAnchor{
				TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
					{StartIndex: start, EndIndex: end},
				},
			},
			Confidence: conf,
			BoundingPoly: &documentaipb.BoundingPoly{
				NormalizedVertices: nv,
			},
		},
	}
}

func TestResultFromDocument(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "HELLO world\n",
		Pages: []*documentaipb.Document_Page{
			{
				Dimension: &documentaipb.Document_Page_Dimension{Width: 100, Height: 40},
				Tokens: []*documentaipb.Document_Page_Token{
					token(0, 6, 0.97, [][2]float32{{0.1, 0.25}, {0.5, 0.25}, {0.5, 0.75}, {0.1, 0.75}}),
					token(6, 12, 0.80, [][2]float32{{0.55, 0.25}, {0.9, 0.25}, {0.9, 0.75}, {0.55, 0.75}}),
				},
			},
		},
	}

	res := resultFromDocument("documentai", doc)
	assert.Equal(t, "HELLO world", res.Text)
	assert.False(t, res.Empty)
	require.Len(t, res.Words, 2)

	assert.Equal(t, "HELLO", res.Words[0].Text)
	assert.Equal(t, ocr.Box{X: 10, Y: 10, Width: 40, Height: 20}, res.Words[0].Box)
	assert.InDelta(t, 0.97, res.Words[0].Confidence, 1e-6)

	assert.Equal(t, "world", res.Words[1].Text)
}

func TestResultFromDocumentEmpty(t *testing.T) {
	res := resultFromDocument("documentai", &documentaipb.Document{Text: "  \n"})
	assert.True(t, res.Empty)
	assert.Empty(t, res.Words)
}

func TestTextFromLayoutClampsSegments(t *testing.T) {
	layout := &documentaipb.Document_Page_Layout{
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
				{StartIndex: 3, EndIndex: 99},
			},
		},
	}
	assert.Equal(t, "lo", textFromLayout(layout, "hello"))
}

func TestConfigValidate(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	e, err := New(Config{ProjectID: "p", Location: "eu", ProcessorID: "x"})
	require.NoError(t, err)
	assert.Equal(t, "documentai", e.Name())
}
