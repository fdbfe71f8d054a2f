package download

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextReaderPassthrough(t *testing.T) {
	cr := NewContextReader(context.Background(), strings.NewReader("hello"))

	b, err := io.ReadAll(cr)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

// blockingReader never completes a read until released.
type blockingReader struct {
	release chan struct{}
}

func (r *blockingReader) Read(p []byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

func TestContextReaderCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	br := &blockingReader{release: make(chan struct{})}
	defer close(br.release)

	cr := NewContextReader(ctx, br)

	_, err := cr.Read(make([]byte, 1))
	assert.ErrorIs(t, err, context.Canceled)
}
