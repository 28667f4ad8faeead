package runwrap

import (
	"bytes"
	"io"
	"sort"
)

type replacement struct {
	pattern     []byte
	placeholder []byte
}

// Scrubber replaces stored secret payloads with their redacted renderings
// inside a byte stream. Matches may span Write boundaries; a short tail is
// held back until it can no longer begin a secret.
type Scrubber struct {
	dst  io.Writer
	repl []replacement
	buf  []byte
	max  int
}

// NewScrubber builds a scrubber over dst. secrets maps raw payloads to
// their redacted placeholders; empty payloads are ignored.
func NewScrubber(dst io.Writer, secrets map[string]string) *Scrubber {
	s := &Scrubber{dst: dst}
	for raw, placeholder := range secrets {
		if raw == "" {
			continue
		}
		s.repl = append(s.repl, replacement{
			pattern:     []byte(raw),
			placeholder: []byte(placeholder),
		})
		if len(raw) > s.max {
			s.max = len(raw)
		}
	}
	// Longest pattern first, so a secret that contains another secret is
	// replaced as a whole.
	sort.Slice(s.repl, func(i, j int) bool {
		return len(s.repl[i].pattern) > len(s.repl[j].pattern)
	})
	return s
}

func (s *Scrubber) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	for {
		idx, r := s.earliestMatch()
		if idx < 0 {
			break
		}
		if err := s.flush(s.buf[:idx]); err != nil {
			return 0, err
		}
		if err := s.flush(r.placeholder); err != nil {
			return 0, err
		}
		s.buf = append(s.buf[:0], s.buf[idx+len(r.pattern):]...)
	}
	hold := s.holdback()
	if cut := len(s.buf) - hold; cut > 0 {
		if err := s.flush(s.buf[:cut]); err != nil {
			return 0, err
		}
		s.buf = append(s.buf[:0], s.buf[cut:]...)
	}
	return len(p), nil
}

// Close flushes the held-back tail.
func (s *Scrubber) Close() error {
	err := s.flush(s.buf)
	s.buf = nil
	return err
}

func (s *Scrubber) flush(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	_, err := s.dst.Write(b)
	return err
}

// earliestMatch prefers the leftmost match; among matches at the same
// offset, the longest pattern wins due to replacement order.
func (s *Scrubber) earliestMatch() (int, replacement) {
	best := -1
	var bestRepl replacement
	for _, r := range s.repl {
		idx := bytes.Index(s.buf, r.pattern)
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best {
			best = idx
			bestRepl = r
		}
	}
	return best, bestRepl
}

// holdback returns how many trailing bytes could still be the start of a
// secret continued by the next write.
func (s *Scrubber) holdback() int {
	limit := s.max - 1
	if limit > len(s.buf) {
		limit = len(s.buf)
	}
	for n := limit; n > 0; n-- {
		tail := s.buf[len(s.buf)-n:]
		for _, r := range s.repl {
			if bytes.HasPrefix(r.pattern, tail) {
				return n
			}
		}
	}
	return 0
}
