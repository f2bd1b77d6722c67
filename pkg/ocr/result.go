package ocr

import "strings"

// Box is a rectangle in source-bitmap pixel coordinates, origin top-left.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Word is a recognized token with its position and a confidence in [0, 1].
type Word struct {
	Text       string
	Box        Box
	Confidence float64
}

// Result is the output of one recognition call. It is created fresh per
// call, never cached and never mutated by the engine afterwards.
//
// Empty marks the recoverable no-text-detected case: the result is valid,
// Text is empty and no error was raised.
type Result struct {
	// Engine names the adapter that produced the result.
	Engine string
	// Text is the linearized recognized text.
	Text string
	// Words carries per-token boxes and confidences when the engine
	// provides them; nil otherwise.
	Words []Word
	// Empty reports that the engine ran successfully but found no text.
	Empty bool
}

// NewResult builds a Result from raw engine text, trimming it and flagging
// the empty case.
func NewResult(engine, text string, words []Word) *Result {
	trimmed := strings.TrimSpace(text)
	return &Result{
		Engine: engine,
		Text:   trimmed,
		Words:  words,
		Empty:  trimmed == "",
	}
}

// FilterWords returns a copy of the result keeping only words whose
// confidence is strictly above min. Text and the Empty flag are untouched:
// the filter narrows the word boxes, it does not re-run recognition.
func (r *Result) FilterWords(min float64) *Result {
	out := *r
	out.Words = nil
	for _, w := range r.Words {
		if w.Confidence > min {
			out.Words = append(out.Words, w)
		}
	}
	return &out
}

// MeanConfidence averages the word confidences, or 0 when no word data is
// available.
func (r *Result) MeanConfidence() float64 {
	if len(r.Words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range r.Words {
		sum += w.Confidence
	}
	return sum / float64(len(r.Words))
}
