package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

type fakeEngine struct {
	name  string
	res   *Result
	err   error
	delay time.Duration
	calls int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Recognize(ctx context.Context, bm *bitmap.Bitmap, opts Options) (*Result, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.res, f.err
}

func testBitmap(t *testing.T) *bitmap.Bitmap {
	t.Helper()
	bm, err := bitmap.New(4, 4, bitmap.ChannelsGray)
	require.NoError(t, err)
	return bm
}

func TestRecognizeReturnsEngineResult(t *testing.T) {
	engine := &fakeEngine{name: "fake", res: NewResult("fake", " HELLO \n", nil)}

	res, err := Recognize(context.Background(), engine, testBitmap(t), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "HELLO", res.Text)
	assert.False(t, res.Empty)
	assert.Equal(t, 1, engine.calls)
}

func TestRecognizeTimeout(t *testing.T) {
	engine := &fakeEngine{name: "slow", delay: time.Second, res: NewResult("slow", "x", nil)}
	opts := DefaultOptions()
	opts.Timeout = 10 * time.Millisecond

	_, err := Recognize(context.Background(), engine, testBitmap(t), opts)
	var timeout *RecognitionTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "slow", timeout.Engine)
}

func TestRecognizePropagatesEngineUnavailable(t *testing.T) {
	wrapped := &EngineUnavailableError{Engine: "fake", Err: errors.New("binary missing")}
	engine := &fakeEngine{name: "fake", err: wrapped}

	_, err := Recognize(context.Background(), engine, testBitmap(t), DefaultOptions())
	var unavailable *EngineUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestRecognizeNilEngine(t *testing.T) {
	_, err := Recognize(context.Background(), nil, testBitmap(t), DefaultOptions())
	var unavailable *EngineUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestRecognizeRejectsInvalidOptions(t *testing.T) {
	engine := &fakeEngine{name: "fake", res: NewResult("fake", "x", nil)}

	opts := DefaultOptions()
	opts.Languages = []string{"not a language code"}
	_, err := Recognize(context.Background(), engine, testBitmap(t), opts)
	require.Error(t, err)
	assert.Equal(t, 0, engine.calls)

	opts = DefaultOptions()
	opts.PageSegMode = PageSegMode(99)
	_, err = Recognize(context.Background(), engine, testBitmap(t), opts)
	require.Error(t, err)
}

func TestNewResultFlagsEmpty(t *testing.T) {
	res := NewResult("fake", "  \n\t ", nil)
	assert.True(t, res.Empty)
	assert.Empty(t, res.Text)
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.NoError(t, Options{Languages: []string{"por", "deu"}}.Validate())
	assert.Error(t, Options{Timeout: -time.Second}.Validate())
	assert.Error(t, Options{EngineMode: EngineMode(7)}.Validate())
}

func TestFilterWords(t *testing.T) {
	res := NewResult("fake", "a b c", []Word{
		{Text: "a", Confidence: 0.9},
		{Text: "b", Confidence: 0.4},
		{Text: "c", Confidence: 0.41},
	})

	kept := res.FilterWords(0.4)
	require.Len(t, kept.Words, 2)
	assert.Equal(t, "a", kept.Words[0].Text)
	assert.Equal(t, "c", kept.Words[1].Text)
	assert.Equal(t, "a b c", kept.Text)
	assert.False(t, kept.Empty)

	// The receiver is not mutated.
	assert.Len(t, res.Words, 3)

	none := res.FilterWords(1)
	assert.Empty(t, none.Words)
}

func TestMeanConfidence(t *testing.T) {
	res := NewResult("fake", "a b", []Word{
		{Text: "a", Confidence: 0.8},
		{Text: "b", Confidence: 0.6},
	})
	assert.InDelta(t, 0.7, res.MeanConfidence(), 1e-9)

	assert.Zero(t, NewResult("fake", "", nil).MeanConfidence())
}
