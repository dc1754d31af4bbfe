// Package token models the delimiter-aware token stream that correlation
// queries scan. A Source yields one line of tokens at a time; an Iterator
// walks the stream in either direction across line boundaries.
package token

// Kind classifies a token for delimiter matching.
type Kind uint8

const (
	// KindOther is any token that is not a recognized delimiter.
	KindOther Kind = iota
	// KindOpener opens a delimited construct.
	KindOpener
	// KindCloser closes a delimited construct.
	KindCloser
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindOpener:
		return "opener"
	case KindCloser:
		return "closer"
	default:
		return "unknown"
	}
}

// Pair identifies a named opener/closer pair. Openers and closers match
// only within the same pair name.
type Pair uint8

const (
	// PairNone marks tokens that take no part in delimiter matching.
	PairNone Pair = iota
	// PairSlur is the ( ... ) construct.
	PairSlur
	// PairPhrasingSlur is the \( ... \) construct.
	PairPhrasingSlur
	// PairBeam is the [ ... ] construct.
	PairBeam
)

// String returns the pair name.
func (p Pair) String() string {
	switch p {
	case PairSlur:
		return "slur"
	case PairPhrasingSlur:
		return "phrasingslur"
	case PairBeam:
		return "beam"
	default:
		return "none"
	}
}

// Token is one lexical unit of a line.
type Token struct {
	// Kind classifies the token for delimiter matching.
	Kind Kind

	// Pair names the delimiter pair for opener/closer tokens.
	Pair Pair

	// StartCol is the starting column (0-indexed, bytes within the line).
	StartCol uint32

	// EndCol is the ending column (exclusive).
	EndCol uint32

	// Text is the token's text.
	Text string
}

// Source yields the token stream of a text, one line at a time.
type Source interface {
	// LineCount returns the number of lines in the underlying text.
	LineCount() uint32

	// LineTokens returns the tokens of a line ordered by StartCol.
	// Out-of-range lines yield nil.
	LineTokens(line uint32) []Token
}
