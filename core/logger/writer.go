package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter decouples log emission from sink I/O: a single goroutine
// drains a command queue into buffered sinks, so handlers never block on
// disk or stderr. The first write error is sticky and fails all later
// writes.
type asyncWriter struct {
	ops   chan writeOp
	done  chan struct{}
	once  sync.Once
	sinks []*bufio.Writer

	errMu    sync.Mutex
	writeErr error
}

// writeOp carries either a payload or, when data is nil, a flush request
// acknowledged through ack.
type writeOp struct {
	data []byte
	ack  chan error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	sinks := make([]*bufio.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			sinks = append(sinks, bufio.NewWriterSize(w, bufSize))
		}
	}
	aw := &asyncWriter{
		ops:   make(chan writeOp, 256),
		done:  make(chan struct{}),
		sinks: sinks,
	}
	go aw.drain()
	return aw
}

func (w *asyncWriter) drain() {
	defer close(w.done)
	for op := range w.ops {
		if op.data == nil {
			op.ack <- w.flushSinks()
			continue
		}
		if err := w.writeSinks(op.data); err != nil {
			w.setErr(err)
		}
	}
	_ = w.flushSinks()
}

// Write enqueues a copy of p; it blocks only when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.getErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	data := make([]byte, len(p))
	copy(data, p)
	w.ops <- writeOp{data: data}
	return nil
}

// Flush waits until everything queued so far has reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.getErr(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.ops <- writeOp{ack: ack}
	return <-ack
}

// Close drains the queue, flushes the sinks, and reports the sticky error.
func (w *asyncWriter) Close() error {
	w.once.Do(func() {
		close(w.ops)
	})
	<-w.done
	return w.getErr()
}

func (w *asyncWriter) writeSinks(p []byte) error {
	for _, sink := range w.sinks {
		if _, err := sink.Write(p); err != nil {
			return err
		}
		if err := sink.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) getErr() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.writeErr
}

func (w *asyncWriter) setErr(err error) {
	if err == nil {
		return
	}
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.writeErr == nil {
		w.writeErr = err
	}
}
