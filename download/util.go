package download

import (
	"context"
	"io"
)

// ContextReader wraps a reader so that every Read respects a context. A read
// still in flight when the context finishes is orphaned in its goroutine.
type ContextReader struct {
	ctx context.Context
	r   io.Reader
}

func NewContextReader(ctx context.Context, r io.Reader) *ContextReader {
	return &ContextReader{
		ctx: ctx,
		r:   r,
	}
}

type readResult struct {
	n   int
	err error
}

// Read implements io.Reader#Read(), respecting the ContextReader's embedded
// context.
func (cr *ContextReader) Read(p []byte) (int, error) {
	resultChan := make(chan readResult, 1)

	go func() {
		n, err := cr.r.Read(p)
		resultChan <- readResult{n, err}
	}()

	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	case result := <-resultChan:
		return result.n, result.err
	}
}
