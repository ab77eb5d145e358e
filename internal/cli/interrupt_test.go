package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}},
		{name: "with nil writer", writer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestInterruptHandler_Interrupt(t *testing.T) {
	var out bytes.Buffer
	handler := NewInterruptHandler(&out)

	ctx := handler.HandleInterrupts(context.Background(), "Checkpoint saved before import")
	assert.NoError(t, ctx.Err())

	handler.interrupt()
	handler.interrupt()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("Interrupted!")))
	assert.Contains(t, out.String(), "Checkpoint saved before import")
}

func TestInterruptHandler_NoHint(t *testing.T) {
	var out bytes.Buffer
	handler := NewInterruptHandler(&out)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler.HandleInterrupts(ctx, "")
	handler.interrupt()

	assert.Contains(t, out.String(), "Interrupted!")
	assert.NotContains(t, out.String(), InfoIcon)
}
