package stream

import (
	"regexp"
	"strings"
)

var numberingPrefix = regexp.MustCompile(`^\d+[.):]\s*`)

// LineOptions controls the line scanner used to turn free-form model output
// into a bounded list of clean lines (related questions, bullet answers).
type LineOptions struct {
	MaxLines       int  // stop accepting after this many lines; 0 = unlimited
	MinLineLength  int  // lines shorter than this are skipped, not counted
	StripNumbering bool // drop leading "1." / "2)" / "3:" prefixes
	StripMarkdown  bool // drop emphasis markers and list bullets
}

// LineScanner accumulates streamed text and yields cleaned lines as they
// complete. Lines that fail the minimum length are discarded without
// consuming capacity, so a stream of blanks cannot starve the real content.
type LineScanner struct {
	opts     LineOptions
	buf      strings.Builder
	accepted int
}

// NewLineScanner creates a scanner with the given options.
func NewLineScanner(opts LineOptions) *LineScanner {
	return &LineScanner{opts: opts}
}

// Feed consumes a text fragment and returns any lines it completed.
func (s *LineScanner) Feed(text string) []string {
	var lines []string
	for {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			s.buf.WriteString(text)
			return lines
		}
		s.buf.WriteString(text[:idx])
		if line, ok := s.take(); ok {
			lines = append(lines, line)
		}
		text = text[idx+1:]
	}
}

// Flush processes whatever remains in the buffer as a final line.
func (s *LineScanner) Flush() []string {
	if s.buf.Len() == 0 {
		return nil
	}
	if line, ok := s.take(); ok {
		return []string{line}
	}
	return nil
}

func (s *LineScanner) take() (string, bool) {
	line := s.buf.String()
	s.buf.Reset()

	if s.opts.MaxLines > 0 && s.accepted >= s.opts.MaxLines {
		return "", false
	}
	line = strings.TrimSpace(line)
	if s.opts.StripNumbering {
		line = numberingPrefix.ReplaceAllString(line, "")
	}
	if s.opts.StripMarkdown {
		line = stripMarkdownLine(line)
	}
	line = strings.TrimSpace(line)
	if len(line) < s.opts.MinLineLength || line == "" {
		return "", false
	}
	s.accepted++
	return line, true
}

func stripMarkdownLine(line string) string {
	line = strings.TrimLeft(line, "#")
	line = strings.TrimSpace(line)
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, prefix) {
			line = line[len(prefix):]
			break
		}
	}
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "`", "")
	return line
}
