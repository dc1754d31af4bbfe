package token

// Iterator walks a Source's token stream in either direction, crossing line
// boundaries and skipping empty lines. Scan state such as a nesting counter
// belongs to the caller, not the iterator.
type Iterator struct {
	src  Source
	line uint32
	idx  int
	toks []Token
}

// At returns an iterator positioned on the token at index idx of line.
// Prev and Next move relative to that token.
func At(src Source, line uint32, idx int) *Iterator {
	return &Iterator{
		src:  src,
		line: line,
		idx:  idx,
		toks: src.LineTokens(line),
	}
}

// Token returns the current token, if the iterator is positioned on one.
func (it *Iterator) Token() (Token, bool) {
	if it.idx < 0 || it.idx >= len(it.toks) {
		return Token{}, false
	}
	return it.toks[it.idx], true
}

// Line returns the line of the current position.
func (it *Iterator) Line() uint32 {
	return it.line
}

// Index returns the token index within the current line.
func (it *Iterator) Index() int {
	return it.idx
}

// Prev moves to the previous token in the stream and returns it.
// It returns false once the stream start has been passed; the iterator then
// rests before the first token, so a following Next yields that token.
func (it *Iterator) Prev() (Token, bool) {
	for {
		if it.idx > 0 && it.idx <= len(it.toks) {
			it.idx--
			return it.toks[it.idx], true
		}
		if it.line == 0 {
			it.idx = -1
			return Token{}, false
		}
		it.line--
		it.toks = it.src.LineTokens(it.line)
		it.idx = len(it.toks)
	}
}

// Next moves to the next token in the stream and returns it.
// It returns false once the stream end has been passed; the iterator then
// rests after the last token, so a following Prev yields that token.
func (it *Iterator) Next() (Token, bool) {
	for {
		if it.idx < len(it.toks)-1 {
			it.idx++
			return it.toks[it.idx], true
		}
		if it.line+1 >= it.src.LineCount() {
			it.idx = len(it.toks)
			return Token{}, false
		}
		it.line++
		it.toks = it.src.LineTokens(it.line)
		it.idx = -1
	}
}
