package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes to an underlying writer and flushes it after
// each write when it buffers output, so report paths and verdicts appear before
// any later diagnostics.
type FlushingWriter struct {
	mutex       sync.Mutex
	destination io.Writer
}

// NewFlushingWriter wraps destination. Writers that are already wrapped are returned unchanged.
func NewFlushingWriter(destination io.Writer) io.Writer {
	switch typedDestination := destination.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return typedDestination
	default:
		return &FlushingWriter{destination: destination}
	}
}

// Write forwards data and flushes the destination when it supports Flush.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, io.ErrClosedPipe
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	writtenByteCount, writeError := writer.destination.Write(data)
	if writeError != nil {
		return writtenByteCount, writeError
	}
	if bufferedDestination, buffered := writer.destination.(flusher); buffered {
		return writtenByteCount, bufferedDestination.Flush()
	}
	return writtenByteCount, nil
}
