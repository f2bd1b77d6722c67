// Package gdocai adapts Google Document AI to the ocr.Engine interface.
//
// The processor performs its own layout analysis and language detection, so
// the page segmentation and engine-mode hints in ocr.Options are ignored;
// languages, boxes and confidences come back from the service. Credentials
// are explicit configuration, not ambient environment state: pass the
// service-account file in Config (an empty value falls back to the
// client library's application-default credentials).
package gdocai

import (
	"context"
	"fmt"
	"math"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

// Config identifies the Document AI processor to invoke.
type Config struct {
	ProjectID   string
	Location    string // e.g. "eu" or "us"
	ProcessorID string
	// CredentialsFile is the service-account JSON path. Empty uses
	// application-default credentials.
	CredentialsFile string
}

// Validate checks that the processor is fully identified.
func (c Config) Validate() error {
	if c.ProjectID == "" || c.Location == "" || c.ProcessorID == "" {
		return fmt.Errorf("document ai config requires project, location and processor IDs")
	}
	return nil
}

// Engine is a Document AI backed ocr.Engine.
type Engine struct {
	cfg Config
}

// New constructs a Document AI engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Name() string { return "documentai" }

// Recognize sends the bitmap as PNG to the configured processor and maps
// the response onto the portable Result model.
func (e *Engine) Recognize(ctx context.Context, bm *bitmap.Bitmap, opts ocr.Options) (*ocr.Result, error) {
	data, err := bm.EncodePNG()
	if err != nil {
		return nil, &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", e.cfg.Location)
	clientOpts := []option.ClientOption{option.WithEndpoint(endpoint)}
	if e.cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(e.cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOpts...)
	if err != nil {
		return nil, &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("create client: %w", err)}
	}
	defer client.Close()

	req := &documentaipb.ProcessRequest{
		Name: fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			e.cfg.ProjectID, e.cfg.Location, e.cfg.ProcessorID),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: "image/png",
			},
		},
		SkipHumanReview: true,
	}

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("process document: %w", err)}
	}
	if resp.GetDocument() == nil {
		return nil, &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("empty response from processor")}
	}

	return resultFromDocument(e.Name(), resp.GetDocument()), nil
}

// resultFromDocument flattens a Document AI response into the portable
// result model. Token boxes arrive as vertices normalized to [0, 1] and are
// scaled back to pixel coordinates using the page dimension.
func resultFromDocument(engine string, doc *documentaipb.Document) *ocr.Result {
	var words []ocr.Word
	for _, page := range doc.GetPages() {
		dim := page.GetDimension()
		for _, token := range page.GetTokens() {
			text := strings.TrimSpace(textFromLayout(token.GetLayout(), doc.GetText()))
			if text == "" {
				continue
			}
			word := ocr.Word{
				Text:       text,
				Confidence: float64(token.GetLayout().GetConfidence()),
			}
			if box, ok := tokenBox(token.GetLayout(), dim); ok {
				word.Box = box
			}
			words = append(words, word)
		}
	}
	return ocr.NewResult(engine, doc.GetText(), words)
}

// textFromLayout resolves a layout's text anchor segments against the
// document text. Indices are rune offsets.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout.GetTextAnchor() == nil {
		return ""
	}
	runes := []rune(fullText)
	var sb strings.Builder
	for _, seg := range layout.GetTextAnchor().GetTextSegments() {
		start, end := int(seg.GetStartIndex()), int(seg.GetEndIndex())
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start > end {
			start = end
		}
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}

func tokenBox(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (ocr.Box, bool) {
	poly := layout.GetBoundingPoly()
	if poly == nil {
		return ocr.Box{}, false
	}

	if verts := poly.GetNormalizedVertices(); len(verts) >= 4 && dim != nil {
		x1 := float64(verts[0].GetX()) * float64(dim.GetWidth())
		y1 := float64(verts[0].GetY()) * float64(dim.GetHeight())
		x2 := float64(verts[2].GetX()) * float64(dim.GetWidth())
		y2 := float64(verts[2].GetY()) * float64(dim.GetHeight())
		return boxFromCorners(x1, y1, x2, y2), true
	}
	if verts := poly.GetVertices(); len(verts) >= 4 {
		return boxFromCorners(
			float64(verts[0].GetX()), float64(verts[0].GetY()),
			float64(verts[2].GetX()), float64(verts[2].GetY()),
		), true
	}
	return ocr.Box{}, false
}

func boxFromCorners(x1, y1, x2, y2 float64) ocr.Box {
	return ocr.Box{
		X:      int(math.Round(x1)),
		Y:      int(math.Round(y1)),
		Width:  int(math.Round(x2 - x1)),
		Height: int(math.Round(y2 - y1)),
	}
}
