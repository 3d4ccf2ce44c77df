package edn

import (
	"io"
)

const streamChunkSize = 4096

// StreamReader reads a sequence of top-level edn forms from an io.Reader,
// pulling input on demand. Forms are parsed lazily: each Next call
// consumes just enough of the source to produce one value.
//
// A form that ends exactly at the buffered boundary is re-parsed after
// more input arrives, so a literal split across reads (such as the
// digits of one integer) is never truncated.
type StreamReader struct {
	r   io.Reader
	buf []byte

	// Source position of buf[0], carried across refills so errors and
	// value positions report absolute line/column.
	line int
	col  int

	exhausted bool // underlying reader returned io.EOF
	err       error
}

// NewStreamReader creates a stream reader over r.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r, line: 1, col: 1}
}

// Next returns the next form, or io.EOF after the final one. Parse
// errors are sticky: once Next fails, every later call returns the same
// error.
func (s *StreamReader) Next() (*Value, error) {
	if s.err != nil {
		return nil, s.err
	}
	for {
		p := &parser{input: string(s.buf), line: s.line, col: s.col}
		v, err := p.parseNext()
		if err != nil {
			if pe, ok := err.(*ParseError); ok && pe.eof && !s.exhausted {
				if ferr := s.fill(); ferr != nil {
					s.err = ferr
					return nil, ferr
				}
				continue
			}
			s.err = err
			return nil, err
		}
		if v == nil {
			// Only separators remain. They cannot be dropped yet: a
			// trailing comment or discarded form may continue in the
			// next chunk, so keep the buffer and re-parse after refill.
			if s.exhausted {
				s.buf = nil
				s.err = io.EOF
				return nil, io.EOF
			}
			if err := s.fill(); err != nil {
				s.err = err
				return nil, err
			}
			continue
		}
		if p.pos == len(s.buf) && !s.exhausted {
			// The form may extend past the buffer: "12" could be the
			// head of "123". Refill and parse again.
			if err := s.fill(); err != nil {
				s.err = err
				return nil, err
			}
			continue
		}
		s.buf = s.buf[p.pos:]
		s.line, s.col = p.line, p.col
		return v, nil
	}
}

// fill reads one chunk from the source. Reaching the end of the source
// is not an error here; it only marks the buffer as final.
func (s *StreamReader) fill() error {
	chunk := make([]byte, streamChunkSize)
	n, err := s.r.Read(chunk)
	if n > 0 {
		s.buf = append(s.buf, chunk[:n]...)
	}
	if err == io.EOF {
		s.exhausted = true
		return nil
	}
	return err
}
