package blockpool

import (
	"bytes"
	"fmt"
	"strings"
)

// Status is the outcome of a bounded string operation.
type Status int

const (
	// StatusOK means the whole source fit.
	StatusOK Status = iota
	// StatusTruncated means the result was cut at len(dst)-1 bytes. It is still terminated.
	StatusTruncated
	// StatusInvalidArgs means nothing was written: empty destination, or
	// for Concat an unterminated one.
	StatusInvalidArgs
	// StatusFormatError means the format could not be rendered; dst holds an empty string.
	StatusFormatError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTruncated:
		return "truncated"
	case StatusInvalidArgs:
		return "invalid arguments"
	case StatusFormatError:
		return "format error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Err returns the sentinel error for s, or nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusTruncated:
		return ErrTruncated
	case StatusInvalidArgs:
		return ErrInvalidArgs
	}
	return ErrFormat
}

// Copy writes src into dst followed by a zero terminator, copying at most
// len(dst)-1 bytes. src ends at its first zero byte, if any.
func Copy(dst []byte, src string) Status {
	if len(dst) == 0 {
		return StatusInvalidArgs
	}
	src = cstring(src)
	n := copy(dst[:len(dst)-1], src)
	dst[n] = 0
	if n < len(src) {
		return StatusTruncated
	}
	return StatusOK
}

// Concat appends src to the terminated string already in dst. An
// unterminated dst is rejected with StatusInvalidArgs and left untouched.
func Concat(dst []byte, src string) Status {
	end := bytes.IndexByte(dst, 0)
	if end < 0 {
		return StatusInvalidArgs
	}
	src = cstring(src)
	n := copy(dst[end:len(dst)-1], src)
	dst[end+n] = 0
	if n < len(src) {
		return StatusTruncated
	}
	return StatusOK
}

// Format renders format and args into dst, bounded by len(dst)-1 bytes plus
// the terminator. A rendering that carries one of fmt's error annotations
// (bad verb, missing or extra operand) is a format error: dst is wiped and
// left as an empty string. A plain "%!" in the text is not an error.
func Format(dst []byte, format string, args ...any) Status {
	if len(dst) == 0 {
		return StatusInvalidArgs
	}
	w := boundedWriter{buf: dst[:len(dst)-1]}
	if _, err := fmt.Fprintf(&w, format, args...); err != nil || w.malformed {
		Clear(dst)
		return StatusFormatError
	}
	dst[w.n] = 0
	if w.total > w.n {
		return StatusTruncated
	}
	return StatusOK
}

// Terminated returns the content of dst up to its terminator, or all of dst
// if it has none.
func Terminated(dst []byte) string {
	if i := bytes.IndexByte(dst, 0); i >= 0 {
		return string(dst[:i])
	}
	return string(dst)
}

func cstring(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

// boundedWriter keeps the first len(buf) bytes written to it and counts the rest.
// It also watches for fmt's error annotations, "%!(" and "%!<verb>(", which
// may be split across writes.
type boundedWriter struct {
	buf       []byte
	n         int  // bytes kept
	total     int  // bytes offered
	prev      byte // last byte offered
	scan      annotationScan
	malformed bool
}

type annotationScan int

const (
	scanNone annotationScan = iota
	scanBang                // seen "%!"
	scanVerb                // seen "%!" and a verb rune
)

func (w *boundedWriter) Write(p []byte) (int, error) {
	for _, c := range p {
		switch {
		case w.scan == scanBang && c == '(':
			w.malformed = true
		case w.scan == scanBang:
			w.scan = scanVerb
			w.prev = c
			continue
		case w.scan == scanVerb && c >= 0x80 && c < 0xC0:
			// continuation byte of a multi-byte verb
			continue
		case w.scan == scanVerb && c == '(':
			w.malformed = true
		}
		w.scan = scanNone
		if w.prev == '%' && c == '!' {
			w.scan = scanBang
		}
		w.prev = c
	}
	w.n += copy(w.buf[w.n:], p)
	w.total += len(p)
	return len(p), nil
}
