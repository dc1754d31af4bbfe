package token

import "github.com/dshills/scorelink/internal/engine/buffer"

// ScanLine tokenizes one line of LilyPond-flavored input. It recognizes
// the slur pair ( ), the phrasing slur pair \( \) and the beam pair [ ],
// and groups everything else into opaque tokens: % starts a comment
// running to the end of the line, double-quoted strings hide any
// delimiters inside them, and remaining non-space runs (including
// \commands) come out as one token each. Columns are byte offsets within
// the line.
func ScanLine(text string) []Token {
	var toks []Token
	i, n := 0, len(text)
	for i < n {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '%':
			toks = append(toks, other(text, i, n))
			i = n

		case c == '"':
			j := i + 1
			for j < n {
				if text[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				if text[j] == '"' {
					j++
					break
				}
				j++
			}
			toks = append(toks, other(text, i, j))
			i = j

		case c == '\\' && i+1 < n && text[i+1] == '(':
			toks = append(toks, delim(text, i, i+2, KindOpener, PairPhrasingSlur))
			i += 2

		case c == '\\' && i+1 < n && text[i+1] == ')':
			toks = append(toks, delim(text, i, i+2, KindCloser, PairPhrasingSlur))
			i += 2

		case c == '(':
			toks = append(toks, delim(text, i, i+1, KindOpener, PairSlur))
			i++

		case c == ')':
			toks = append(toks, delim(text, i, i+1, KindCloser, PairSlur))
			i++

		case c == '[':
			toks = append(toks, delim(text, i, i+1, KindOpener, PairBeam))
			i++

		case c == ']':
			toks = append(toks, delim(text, i, i+1, KindCloser, PairBeam))
			i++

		default:
			j := i
			if text[j] == '\\' {
				j++
			}
			for j < n && !isBoundary(text[j]) {
				j++
			}
			if j == i {
				j++
			}
			toks = append(toks, other(text, i, j))
			i = j
		}
	}
	return toks
}

func other(text string, start, end int) Token {
	return Token{
		Kind:     KindOther,
		StartCol: uint32(start),
		EndCol:   uint32(end),
		Text:     text[start:end],
	}
}

func delim(text string, start, end int, kind Kind, pair Pair) Token {
	return Token{
		Kind:     kind,
		Pair:     pair,
		StartCol: uint32(start),
		EndCol:   uint32(end),
		Text:     text[start:end],
	}
}

func isBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '(', ')', '[', ']', '"', '%', '\\':
		return true
	}
	return false
}

// ScanSource adapts a buffer to the Source interface, tokenizing lines on
// demand with ScanLine. The buffer may be edited between calls; tokens are
// never cached.
type ScanSource struct {
	buf *buffer.Buffer
}

// NewScanSource returns a Source over the buffer's current content.
func NewScanSource(buf *buffer.Buffer) *ScanSource {
	return &ScanSource{buf: buf}
}

// LineCount returns the buffer's line count.
func (s *ScanSource) LineCount() uint32 {
	return s.buf.LineCount()
}

// LineTokens tokenizes one buffer line. Out-of-range lines yield nil.
func (s *ScanSource) LineTokens(line uint32) []Token {
	if line >= s.buf.LineCount() {
		return nil
	}
	return ScanLine(s.buf.LineText(line))
}
