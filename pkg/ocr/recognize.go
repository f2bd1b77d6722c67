package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

// Recognize validates the options and runs engine with opts.Timeout applied.
// The engine call executes in its own goroutine; when the deadline passes
// the call is abandoned and *RecognitionTimeoutError returned. There is no
// cooperative cancellation inside an engine that does not support it, and
// no retry: retrying (possibly with different preprocessing) is the
// caller's decision.
func Recognize(ctx context.Context, engine Engine, bm *bitmap.Bitmap, opts Options) (*Result, error) {
	if engine == nil {
		return nil, &EngineUnavailableError{Engine: "(none)", Err: fmt.Errorf("no engine configured")}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := bm.Validate(); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := engine.Recognize(ctx, bm, opts)
		done <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &RecognitionTimeoutError{Engine: engine.Name(), Timeout: opts.Timeout}
		}
		return nil, ctx.Err()
	case out := <-done:
		return out.res, out.err
	}
}
