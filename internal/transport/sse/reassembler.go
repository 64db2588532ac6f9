// File: internal/transport/sse/reassembler.go
package sse

import "strings"

const (
	framePrefix    = "data: "
	frameSeparator = "\n\n"
)

// Reassembler rebuilds ordered fragments from a byte stream of SSE
// frames. Network reads may split the stream anywhere, including inside
// the "data: " prefix, the escape token, or the blank-line separator, so
// incomplete input is buffered until the closing separator arrives.
type Reassembler struct {
	buf strings.Builder
}

func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Feed appends a raw chunk and returns every fragment completed by it, in
// stream order with escapes reversed. Identical to feeding the chunk one
// byte at a time.
func (r *Reassembler) Feed(chunk []byte) []string {
	r.buf.Write(chunk)

	data := r.buf.String()
	var fragments []string
	for {
		sep := strings.Index(data, frameSeparator)
		if sep < 0 {
			break
		}
		frame := data[:sep]
		data = data[sep+len(frameSeparator):]
		if payload, ok := strings.CutPrefix(frame, framePrefix); ok {
			fragments = append(fragments, Unescape(payload))
		}
	}

	r.buf.Reset()
	r.buf.WriteString(data)
	return fragments
}

// Pending reports whether an incomplete frame is still buffered.
func (r *Reassembler) Pending() bool {
	return r.buf.Len() > 0
}
