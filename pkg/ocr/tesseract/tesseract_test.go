package tesseract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

func TestEngineVariablesMapsEngineMode(t *testing.T) {
	vars := engineVariables(ocr.Options{EngineMode: ocr.EngineModeNeural})
	assert.Equal(t, "1", vars["tessedit_ocr_engine_mode"])

	vars = engineVariables(ocr.Options{EngineMode: ocr.EngineModeLegacy})
	assert.Equal(t, "0", vars["tessedit_ocr_engine_mode"])

	vars = engineVariables(ocr.Options{EngineMode: ocr.EngineModeDefault})
	_, set := vars["tessedit_ocr_engine_mode"]
	assert.False(t, set)
}

func TestEngineVariablesExplicitEntriesWin(t *testing.T) {
	vars := engineVariables(ocr.Options{
		EngineMode: ocr.EngineModeNeural,
		Variables:  map[string]string{"tessedit_ocr_engine_mode": "2", "user_defined_dpi": "300"},
	})
	assert.Equal(t, "2", vars["tessedit_ocr_engine_mode"])
	assert.Equal(t, "300", vars["user_defined_dpi"])
}

func TestParseOSD(t *testing.T) {
	osd, err := parseOSD(`Page number: 0
Orientation in degrees: 90
Rotate: 270
Orientation confidence: 12.74
Script: Latin
Script confidence: 4.21
`)
	require.NoError(t, err)
	assert.Equal(t, 90, osd.Degrees)
	assert.InDelta(t, 12.74, osd.Confidence, 1e-9)
	assert.Equal(t, "Latin", osd.Script)
}

func TestParseOSDMalformed(t *testing.T) {
	_, err := parseOSD("Warning: no text found\n")
	assert.Error(t, err)

	_, err = parseOSD("Orientation in degrees: ninety\n")
	assert.Error(t, err)
}

func TestNameAndDefaults(t *testing.T) {
	e := New(DefaultConfig())
	assert.Equal(t, "tesseract", e.Name())
	assert.NotNil(t, e.clientFactory)
}
