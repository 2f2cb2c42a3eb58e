// SPDX-License-Identifier: MPL-2.0

package applet

import (
	"io"
	"sync"
)

// SharedWriter fans one underlying writer out to multiple
// independently held handles. Concurrent invocations must never alias
// the same stream handle, so siblings that report to one diagnostic
// stream (pipeline stages, say) each take their own handle; writes
// through all handles are serialized.
type SharedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSharedWriter wraps w for fan-out.
func NewSharedWriter(w io.Writer) *SharedWriter {
	return &SharedWriter{w: w}
}

// Handle returns a fresh writer handle backed by the shared stream.
func (s *SharedWriter) Handle() io.Writer {
	return &sharedHandle{s: s}
}

type sharedHandle struct {
	s *SharedWriter
}

func (h *sharedHandle) Write(p []byte) (int, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.s.w.Write(p)
}

// eofReader is the hermetic default stdin: always at end of input.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
