package tesseract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

// Orientation is the result of Tesseract's orientation and script
// detection (OSD).
type Orientation struct {
	// Degrees is the detected page rotation (0, 90, 180 or 270).
	Degrees int
	// Confidence is Tesseract's orientation confidence (unbounded scale,
	// higher is better).
	Confidence float64
	// Script names the detected writing system, e.g. "Latin".
	Script string
}

// DetectOrientation runs the tesseract binary in OSD-only mode against the
// bitmap. gosseract does not expose OSD, so this shells out; the binary is
// taken from Config.ExePath or looked up on PATH.
func (e *Engine) DetectOrientation(ctx context.Context, bm *bitmap.Bitmap) (Orientation, error) {
	exe := e.cfg.ExePath
	if exe == "" {
		found, err := exec.LookPath("tesseract")
		if err != nil {
			return Orientation{}, &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("tesseract binary not found: %w", err)}
		}
		exe = found
	}

	data, err := bm.EncodePNG()
	if err != nil {
		return Orientation{}, &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}
	tmp, err := os.CreateTemp("", "osd-*.png")
	if err != nil {
		return Orientation{}, &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Orientation{}, &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}
	tmp.Close()

	args := []string{tmp.Name(), "stdout", "--psm", "0"}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", filepath.Clean(e.cfg.TessdataDir))
	}
	out, err := exec.CommandContext(ctx, exe, args...).CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return Orientation{}, ctx.Err()
		}
		return Orientation{}, &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("osd: %w: %s", err, strings.TrimSpace(string(out)))}
	}

	osd, err := parseOSD(string(out))
	if err != nil {
		return Orientation{}, &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}
	return osd, nil
}

// parseOSD reads the key/value lines of tesseract --psm 0 output, e.g.
//
//	Orientation in degrees: 90
//	Orientation confidence: 12.74
//	Script: Latin
func parseOSD(output string) (Orientation, error) {
	var osd Orientation
	found := false
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Orientation in degrees":
			deg, err := strconv.Atoi(value)
			if err != nil {
				return Orientation{}, fmt.Errorf("malformed osd orientation %q", value)
			}
			osd.Degrees = deg
			found = true
		case "Orientation confidence":
			osd.Confidence, _ = strconv.ParseFloat(value, 64)
		case "Script":
			osd.Script = value
		}
	}
	if !found {
		return Orientation{}, fmt.Errorf("no orientation in osd output")
	}
	return osd, nil
}
