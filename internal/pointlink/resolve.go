package pointlink

import (
	"github.com/dshills/scorelink/internal/engine/token"
)

// DelimiterResolver matches a closing delimiter back to its opening
// token by scanning the token stream in reverse with nesting. It keeps
// no state between calls; the nesting counter lives entirely inside one
// resolution.
type DelimiterResolver struct {
	src token.Source
}

// NewDelimiterResolver creates a resolver over src.
func NewDelimiterResolver(src token.Source) *DelimiterResolver {
	return &DelimiterResolver{src: src}
}

// ResolveLine scans line's tokens in reverse looking for a closing
// delimiter the caret at column col could be resting on. Tokens starting
// at or before bound end the scan; pass -1 for no bound. Callers use the
// bound to stop at the nearest anchored position on the same line, so
// tokens the anchor already accounts for are never re-resolved.
//
// The first token starting at or before col decides the scan either way:
// a closer of a recognized pair runs the opener hunt, anything else is
// "no end-marker". The caret has to rest on the closer itself; closers
// further left do not count. ok is true only when a matching opener was
// found.
func (r *DelimiterResolver) ResolveLine(line, col uint32, bound int64) (token.Token, uint32, bool) {
	toks := r.src.LineTokens(line)
	for i := len(toks) - 1; i >= 0; i-- {
		tok := toks[i]
		if int64(tok.StartCol) <= bound {
			break
		}
		if tok.StartCol > col {
			continue
		}
		if tok.Kind == token.KindCloser && recognized(tok.Pair) {
			return r.MatchOpener(line, i)
		}
		break
	}
	return token.Token{}, 0, false
}

// MatchOpener walks backward from the closer at (line, idx), across line
// boundaries, counting nesting within the closer's pair until it
// balances. Other pairs do not disturb the count. ok is false when the
// stream is exhausted before the nesting closes.
func (r *DelimiterResolver) MatchOpener(line uint32, idx int) (token.Token, uint32, bool) {
	toks := r.src.LineTokens(line)
	if idx < 0 || idx >= len(toks) {
		return token.Token{}, 0, false
	}
	pair := toks[idx].Pair

	it := token.At(r.src, line, idx)
	nest := 1
	for {
		tok, ok := it.Prev()
		if !ok {
			return token.Token{}, 0, false
		}
		if tok.Pair != pair {
			continue
		}
		switch tok.Kind {
		case token.KindCloser:
			nest++
		case token.KindOpener:
			nest--
			if nest == 0 {
				return tok, it.Line(), true
			}
		}
	}
}

// recognized reports whether a pair takes part in delimiter resolution.
func recognized(p token.Pair) bool {
	switch p {
	case token.PairSlur, token.PairPhrasingSlur, token.PairBeam:
		return true
	}
	return false
}
