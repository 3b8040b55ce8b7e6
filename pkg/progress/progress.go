// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package progress

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/intel-hpdd/go-cephfs/internal/logging/alert"
	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
)

type (
	// Func receives the total reported by the previous update and the
	// bytes moved since then.
	Func func(last, delta uint64) error

	progressUpdater struct {
		done        chan struct{}
		stopOnce    sync.Once
		wg          sync.WaitGroup
		bytesCopied uint64
	}

	// Reader wraps an io.ReaderAt and periodically invokes the
	// supplied callback to provide progress updates.
	Reader struct {
		progressUpdater

		src io.ReaderAt
	}

	// Writer wraps an io.WriterAt and periodically invokes the
	// supplied callback to provide progress updates.
	Writer struct {
		progressUpdater

		dst io.WriterAt
	}
)

// startUpdates creates a goroutine to periodically call f with updated
// progress information. No goroutine is started when updateEvery is zero
// or f is nil.
func (p *progressUpdater) startUpdates(updateEvery time.Duration, f Func) {
	p.done = make(chan struct{})

	if updateEvery <= 0 || f == nil {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(updateEvery)
		defer ticker.Stop()

		var lastTotal uint64
		for {
			select {
			case <-ticker.C:
				copied := atomic.LoadUint64(&p.bytesCopied)
				if err := f(lastTotal, copied-lastTotal); err != nil {
					alert.Warnf("Error received from updater callback: %s", err)
				}
				lastTotal = copied
			case <-p.done:
				debug.Print("Shutting down updater goroutine")
				return
			}
		}
	}()
}

// StopUpdates stops the updater goroutine and waits for it to exit. It is
// safe to call more than once.
func (p *progressUpdater) StopUpdates() {
	p.stopOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

// BytesCopied returns the number of bytes moved so far.
func (p *progressUpdater) BytesCopied() uint64 {
	return atomic.LoadUint64(&p.bytesCopied)
}

// NewReader returns a new Reader
func NewReader(src io.ReaderAt, updateEvery time.Duration, f Func) *Reader {
	r := &Reader{
		src: src,
	}

	r.startUpdates(updateEvery, f)

	return r
}

// ReadAt reads from the wrapped ReaderAt and tracks how many bytes were
// read.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	n, err := r.src.ReadAt(p, off)
	atomic.AddUint64(&r.bytesCopied, uint64(n))
	return n, err
}

// NewWriter returns a new Writer
func NewWriter(dst io.WriterAt, updateEvery time.Duration, f Func) *Writer {
	w := &Writer{
		dst: dst,
	}

	w.startUpdates(updateEvery, f)

	return w
}

// WriteAt writes to the wrapped WriterAt and tracks how many bytes were
// written.
func (w *Writer) WriteAt(p []byte, off int64) (int, error) {
	n, err := w.dst.WriteAt(p, off)
	atomic.AddUint64(&w.bytesCopied, uint64(n))
	return n, err
}
