package tesseract

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

// requireTesseract skips the test when no usable installation is around, so
// the suite stays green on machines without the engine.
func requireTesseract(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract binary not installed")
	}
}

func blankPage(t *testing.T, w, h int) *bitmap.Bitmap {
	t.Helper()
	bm, err := bitmap.New(w, h, bitmap.ChannelsGray)
	require.NoError(t, err)
	for i := range bm.Samples {
		bm.Samples[i] = 255
	}
	return bm
}

func TestRecognizeBlankPage(t *testing.T) {
	requireTesseract(t)

	engine := New(DefaultConfig())
	opts := ocr.DefaultOptions()

	res, err := ocr.Recognize(context.Background(), engine, blankPage(t, 200, 80), opts)
	var unavailable *ocr.EngineUnavailableError
	if errors.As(err, &unavailable) {
		t.Skipf("tesseract installation unusable: %v", err)
	}
	require.NoError(t, err)

	assert.True(t, res.Empty)
	assert.Empty(t, res.Words)
	assert.Equal(t, "tesseract", res.Engine)
}

func TestRecognizeHonorsEngineVariables(t *testing.T) {
	requireTesseract(t)

	engine := New(DefaultConfig())
	opts := ocr.DefaultOptions()
	opts.PageSegMode = ocr.PSMSingleBlock
	opts.EngineMode = ocr.EngineModeNeural
	opts.Variables = map[string]string{"user_defined_dpi": "300"}

	res, err := engine.Recognize(context.Background(), blankPage(t, 120, 60), opts)
	var unavailable *ocr.EngineUnavailableError
	if errors.As(err, &unavailable) {
		t.Skipf("tesseract installation unusable: %v", err)
	}
	require.NoError(t, err)
	assert.True(t, res.Empty)
}
