// ocrpipe is a command-line tool for running images through the OCR pipeline:
// load, preprocess, recognize, and optionally render the result as hOCR or a
// searchable PDF.
//
// Usage:
//
//	ocrpipe run [options] <image-path>
//
// The input image may be PNG, JPEG, BMP or TIFF. Recognized text is printed
// to standard output; progress and warnings go to standard error. The exit
// code is 0 on success and non-zero on any fatal error.
//
// Recognition options:
//
//	-engine string    OCR engine: "tesseract" (default) or "documentai"
//	-lang string      Comma-separated ISO-639 language codes (default "eng")
//	-psm int          Page segmentation mode 0-13 (default 3, automatic)
//	-oem int          OCR engine mode: 0 legacy, 1 neural, 2 both, 3 default
//	-timeout duration Per-recognition timeout (default 30s)
//	-tessdata string  Tesseract trained-data directory
//	-osd              Detect page orientation before recognition (Tesseract only)
//	-min-conf float   Drop word boxes at or below this confidence (0-1)
//
// Preprocessing options:
//
//	-pipeline string           Path to a YAML pipeline definition; the default
//	                           pipeline is grayscale followed by Otsu thresholding
//	-no-preprocess             Skip preprocessing and recognize the raw image
//	-save-preprocessed string  Path to save the preprocessed image as PNG
//
// Output options:
//
//	-text string    Path to save plain text (default: print to stdout)
//	-hocr string    Path to save hOCR output
//	-pdf string     Path to save a searchable PDF
//
// Configuration:
//
// A .env file in the working directory (or the file named by -env) is loaded
// at startup. The Document AI engine reads its processor identity from the
// environment:
//
//	GDOCAI_PROJECT_ID=your-gcp-project-id
//	GDOCAI_LOCATION=eu
//	GDOCAI_PROCESSOR_ID=your-processor-id
//	GOOGLE_APPLICATION_CREDENTIALS=/path/to/credentials.json
//
// Example:
//
//	ocrpipe run -lang eng,por -pipeline pipeline.yml -hocr scan.hocr -pdf scan.pdf scan.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ocrpipe/ocrpipe/pkg/hocr"
	"github.com/ocrpipe/ocrpipe/pkg/imageload"
	"github.com/ocrpipe/ocrpipe/pkg/ocr"
	"github.com/ocrpipe/ocrpipe/pkg/ocr/gdocai"
	"github.com/ocrpipe/ocrpipe/pkg/ocr/tesseract"
	"github.com/ocrpipe/ocrpipe/pkg/pdfocr"
	"github.com/ocrpipe/ocrpipe/pkg/preprocess"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != "run" {
		fmt.Fprintln(os.Stderr, "Usage: ocrpipe run [options] <image-path>")
		fmt.Fprintln(os.Stderr, "Run 'ocrpipe run -h' for the option list")
		os.Exit(1)
	}

	cmd := flag.NewFlagSet("run", flag.ExitOnError)

	engineName := cmd.String("engine", "tesseract", "OCR engine: tesseract or documentai")
	langs := cmd.String("lang", "eng", "Comma-separated ISO-639 language codes")
	psm := cmd.Int("psm", int(ocr.PSMAuto), "Page segmentation mode (0-13)")
	oem := cmd.Int("oem", 3, "OCR engine mode: 0 legacy, 1 neural, 2 both, 3 default")
	timeout := cmd.Duration("timeout", ocr.DefaultOptions().Timeout, "Per-recognition timeout")
	tessdata := cmd.String("tessdata", "", "Tesseract trained-data directory")
	osd := cmd.Bool("osd", false, "Detect page orientation before recognition (Tesseract only)")
	minConf := cmd.Float64("min-conf", 0, "Drop word boxes at or below this confidence (0-1)")

	pipelinePath := cmd.String("pipeline", "", "Path to a YAML pipeline definition")
	noPreprocess := cmd.Bool("no-preprocess", false, "Skip preprocessing")
	savePreprocessed := cmd.String("save-preprocessed", "", "Path to save the preprocessed image as PNG")

	textPath := cmd.String("text", "", "Path to save plain text output (default: stdout)")
	hocrPath := cmd.String("hocr", "", "Path to save hOCR output")
	pdfPath := cmd.String("pdf", "", "Path to save a searchable PDF")

	envPath := cmd.String("env", "", "Path to an env file (default: .env if present)")

	cmd.Parse(os.Args[2:])

	if cmd.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one image path is required")
		fmt.Fprintln(os.Stderr, "Usage: ocrpipe run [options] <image-path>")
		cmd.PrintDefaults()
		os.Exit(1)
	}
	imagePath := cmd.Arg(0)

	loadEnv(*envPath)

	// Load the input image into the pipeline's bitmap model.
	bm, err := imageload.Load(imagePath)
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}

	// Build the preprocessing pipeline.
	steps := preprocess.Default()
	if *noPreprocess {
		steps = nil
	} else if *pipelinePath != "" {
		steps, err = preprocess.LoadConfig(*pipelinePath)
		if err != nil {
			log.Fatalf("Failed to load pipeline config: %v", err)
		}
	}

	processed, err := preprocess.Run(bm, steps...)
	if err != nil {
		log.Fatalf("Preprocessing failed: %v", err)
	}

	if *savePreprocessed != "" {
		png, err := processed.EncodePNG()
		if err != nil {
			log.Fatalf("Failed to encode preprocessed image: %v", err)
		}
		if err := os.WriteFile(*savePreprocessed, png, 0644); err != nil {
			log.Fatalf("Failed to save preprocessed image: %v", err)
		}
		fmt.Fprintln(os.Stderr, "Preprocessed image saved to:", *savePreprocessed)
	}

	opts := ocr.Options{
		Languages:   splitLangs(*langs),
		PageSegMode: ocr.PageSegMode(*psm),
		EngineMode:  engineMode(*oem),
		Timeout:     *timeout,
	}

	ctx := context.Background()
	engine, err := buildEngine(*engineName, *tessdata)
	if err != nil {
		log.Fatalf("Failed to initialize OCR engine: %v", err)
	}

	if *osd {
		tess, ok := engine.(*tesseract.Engine)
		if !ok {
			log.Fatalf("-osd requires the tesseract engine")
		}
		orientation, err := tess.DetectOrientation(ctx, processed)
		if err != nil {
			log.Fatalf("Orientation detection failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Orientation: %d degrees (confidence %.2f, script %s)\n",
			orientation.Degrees, orientation.Confidence, orientation.Script)
	}

	res, err := ocr.Recognize(ctx, engine, processed, opts)
	if err != nil {
		log.Fatalf("Recognition failed: %v", err)
	}
	if res.Empty {
		fmt.Fprintln(os.Stderr, "Warning: no text was recognized in the image")
	}
	if *minConf > 0 {
		res = res.FilterWords(*minConf)
	}

	// Write plain text output.
	if *textPath != "" {
		if err := os.WriteFile(*textPath, []byte(res.Text), 0644); err != nil {
			log.Fatalf("Failed to write text output: %v", err)
		}
		fmt.Fprintln(os.Stderr, "Text saved to:", *textPath)
	} else {
		fmt.Println(res.Text)
	}

	if *hocrPath == "" && *pdfPath == "" {
		return
	}

	doc := hocr.FromResult(res, processed.Width, processed.Height, imagePath)

	if *hocrPath != "" {
		html, err := hocr.Generate(doc)
		if err != nil {
			log.Fatalf("Failed to render hOCR: %v", err)
		}
		if err := os.WriteFile(*hocrPath, []byte(html), 0644); err != nil {
			log.Fatalf("Failed to write hOCR output: %v", err)
		}
		fmt.Fprintln(os.Stderr, "hOCR saved to:", *hocrPath)
	}

	if *pdfPath != "" {
		pdfBytes, err := pdfocr.FromRecognition(processed, res, pdfocr.DefaultConfig())
		if err != nil {
			log.Fatalf("Failed to assemble searchable PDF: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdfBytes, 0644); err != nil {
			log.Fatalf("Failed to write PDF output: %v", err)
		}
		fmt.Fprintln(os.Stderr, "Searchable PDF saved to:", *pdfPath)
	}
}

// loadEnv loads configuration from an env file. A missing default .env is
// fine; a missing explicit -env file is an error.
func loadEnv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Fatalf("Failed to load env file %s: %v", path, err)
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load .env: %v", err)
		}
	}
}

func buildEngine(name, tessdata string) (ocr.Engine, error) {
	switch name {
	case "tesseract":
		cfg := tesseract.DefaultConfig()
		cfg.TessdataDir = tessdata
		return tesseract.New(cfg), nil
	case "documentai":
		return gdocai.New(gdocai.Config{
			ProjectID:       os.Getenv("GDOCAI_PROJECT_ID"),
			Location:        os.Getenv("GDOCAI_LOCATION"),
			ProcessorID:     os.Getenv("GDOCAI_PROCESSOR_ID"),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		})
	default:
		return nil, fmt.Errorf("unknown engine %q (want tesseract or documentai)", name)
	}
}

func splitLangs(s string) []string {
	var out []string
	for _, code := range strings.Split(s, ",") {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, code)
		}
	}
	return out
}

// engineMode converts Tesseract's numeric OEM convention into the portable
// engine-mode enum.
func engineMode(oem int) ocr.EngineMode {
	switch oem {
	case 0:
		return ocr.EngineModeLegacy
	case 1:
		return ocr.EngineModeNeural
	case 2:
		return ocr.EngineModeCombined
	default:
		return ocr.EngineModeDefault
	}
}
