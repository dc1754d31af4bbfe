package pointlink

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/scorelink/internal/engine/buffer"
	"github.com/dshills/scorelink/internal/engine/token"
	"github.com/dshills/scorelink/internal/score"
)

// slurScore has a slur on line 1, a phrasing slur spanning lines 2 and 3,
// and a beam on line 4. Byte offsets: lines start at 0, 10, 19 and 25.
const slurScore = "c4 ( d4 )\ne4 \\( f4\ng4 \\)\na4 [ b8 ]\n"

// lnk builds a link for /a.ly at a 1-based line and 0-based column, with
// a region that encodes the key so destinations stay distinguishable.
func lnk(line, col int) score.MemoryLink {
	return score.MemoryLink{
		Target: fmt.Sprintf("textedit:///a.ly:%d:%d:%d", line, col, col),
		Region: score.Rect{X0: float64(line), Y0: float64(col)},
	}
}

func buildBinding(t *testing.T, content string, links ...score.Link) (*Binding, *buffer.Buffer) {
	t.Helper()
	buf := buffer.NewBufferFromString(content)
	src := token.NewScanSource(buf)
	doc := score.NewMemoryDocument(score.NewMemoryPage(links...))
	table := BuildLinkTable(doc, NewMatcher("textedit"))
	return NewBinding("/a.ly", buf, src, table), buf
}

// slurBinding binds every note and opening delimiter of slurScore, the
// way an engraver emits point-and-click links.
func slurBinding(t *testing.T) (*Binding, *buffer.Buffer) {
	t.Helper()
	return buildBinding(t, slurScore,
		lnk(1, 0), lnk(1, 3), lnk(1, 5),
		lnk(2, 0), lnk(2, 3), lnk(2, 6),
		lnk(3, 0),
		lnk(4, 0), lnk(4, 3), lnk(4, 5),
	)
}

func TestBindingAnchors(t *testing.T) {
	b, _ := slurBinding(t)

	if b.Len() != 10 {
		t.Fatalf("expected 10 bound positions, got %d", b.Len())
	}
	wantOffsets := []buffer.ByteOffset{0, 3, 5, 10, 13, 16, 19, 25, 28, 30}
	for i, want := range wantOffsets {
		if got := b.Anchor(i).Offset(); got != want {
			t.Errorf("anchor %d: expected offset %d, got %d", i, want, got)
		}
	}

	// destinations[i] belongs to anchors[i]
	dests := b.Destinations(4)
	if len(dests) != 1 || dests[0].Area.X0 != 2 || dests[0].Area.Y0 != 3 {
		t.Errorf("unexpected destinations for index 4: %+v", dests)
	}
	if b.Path() != "/a.ly" {
		t.Errorf("expected path /a.ly, got %s", b.Path())
	}
}

func TestBindingCursor(t *testing.T) {
	b, _ := slurBinding(t)

	anchor, err := b.Cursor(2, 6)
	if err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if anchor.Offset() != 16 {
		t.Errorf("expected offset 16, got %d", anchor.Offset())
	}

	if _, err := b.Cursor(9, 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBindingSkipsOutOfRangePositions(t *testing.T) {
	b, _ := buildBinding(t, slurScore, lnk(1, 0), lnk(99, 0), lnk(1, 500))

	if b.Len() != 1 {
		t.Fatalf("expected 1 bound position, got %d", b.Len())
	}
	if _, err := b.Cursor(99, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected dropped position to be unbound, got %v", err)
	}
}

func TestBindingSkipsColumnPastLineEnd(t *testing.T) {
	// The key at (1,3) would spill past "c4" onto line 2's start, where
	// it would share an offset with the (2,0) key.
	b, _ := buildBinding(t, "c4\nd4\n", lnk(1, 3), lnk(2, 0))

	if b.Len() != 1 {
		t.Fatalf("expected 1 bound position, got %d", b.Len())
	}
	if got := b.Anchor(0).Offset(); got != 3 {
		t.Errorf("expected the (2,0) key at offset 3, got %d", got)
	}
	if _, err := b.Cursor(1, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected spilled key to be unbound, got %v", err)
	}
}

func TestBindingLinkToAnchorFlow(t *testing.T) {
	// One link at line 2 column 4 of a file whose second line starts at
	// byte 20: the binding anchors it at 24 and both lookup directions
	// agree on that position.
	area := score.Rect{X0: 1, Y0: 2, X1: 3, Y1: 4}
	b, _ := buildBinding(t, "r2 c4 d4 e4 f4 g4 a\nb4 (c8)\n",
		score.MemoryLink{Target: "textedit:///a.ly:2:4:4", Region: area})

	if b.Len() != 1 {
		t.Fatalf("expected 1 bound position, got %d", b.Len())
	}
	if got := b.Anchor(0).Offset(); got != 24 {
		t.Errorf("expected anchor at offset 24, got %d", got)
	}

	dests := b.Destinations(0)
	if len(dests) != 1 || dests[0].Page != 0 || dests[0].Area != area {
		t.Errorf("unexpected destinations: %+v", dests)
	}

	anchor, err := b.Cursor(2, 4)
	if err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if anchor.Offset() != 24 {
		t.Errorf("expected cursor offset 24, got %d", anchor.Offset())
	}

	lo, hi, outcome := b.Indices(24, 24)
	if outcome != OutcomeMatch || lo != 0 || hi != 1 {
		t.Errorf("expected match [0,1), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingPointExact(t *testing.T) {
	b, _ := slurBinding(t)

	lo, hi, outcome := b.Indices(5, 5)
	if outcome != OutcomeMatch || lo != 2 || hi != 3 {
		t.Errorf("expected match [2,3), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingPointBeforeAll(t *testing.T) {
	b, _ := buildBinding(t, slurScore, lnk(1, 3))

	_, _, outcome := b.Indices(1, 1)
	if outcome != OutcomeIndeterminate {
		t.Errorf("expected indeterminate before all positions, got %v", outcome)
	}
}

func TestBindingPointTrailingSameLine(t *testing.T) {
	b, _ := slurBinding(t)

	// Caret inside "c4", past its anchor, with no delimiter in between:
	// the nearest anchor on the same line still applies.
	lo, hi, outcome := b.Indices(2, 2)
	if outcome != OutcomeMatch || lo != 0 || hi != 1 {
		t.Errorf("expected match [0,1), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingPointWordAfterClosedSlurSameLine(t *testing.T) {
	// Caret on "b" after a completed slur: the caret is not on the
	// closer, so the nearest anchor on the same line applies, not the
	// slur's opener.
	b, _ := buildBinding(t, "( a ) b\n", lnk(1, 0), lnk(1, 2))

	lo, hi, outcome := b.Indices(6, 6)
	if outcome != OutcomeMatch || lo != 1 || hi != 2 {
		t.Errorf("expected match [1,2), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingPointWordAfterClosedSlurCrossLine(t *testing.T) {
	// Caret on "c" with the nearest anchor on another line: the closed
	// slur left of the caret must not resolve, so the highlight clears.
	b, _ := buildBinding(t, "( a\nb ) c\n", lnk(1, 0))

	_, _, outcome := b.Indices(8, 8)
	if outcome != OutcomeClear {
		t.Errorf("expected clear, got %v", outcome)
	}
}

func TestBindingPointOnSlurEnd(t *testing.T) {
	b, _ := slurBinding(t)

	// Caret on ")" at offset 8 resolves to the "(" anchored at offset 3.
	lo, hi, outcome := b.Indices(8, 8)
	if outcome != OutcomeMatch || lo != 1 || hi != 2 {
		t.Errorf("expected match [1,2), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingPointOnPhrasingSlurEndCrossLine(t *testing.T) {
	b, _ := slurBinding(t)

	// Caret on "\)" on line 3 (offset 22) walks back across the line
	// break to the "\(" anchored at offset 13.
	lo, hi, outcome := b.Indices(22, 22)
	if outcome != OutcomeMatch || lo != 4 || hi != 5 {
		t.Errorf("expected match [4,5), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingPointOnBeamEnd(t *testing.T) {
	b, _ := slurBinding(t)

	// Caret on "]" at offset 33 resolves to the "[" anchored at offset 28.
	lo, hi, outcome := b.Indices(33, 33)
	if outcome != OutcomeMatch || lo != 8 || hi != 9 {
		t.Errorf("expected match [8,9), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingPointOpenerNotAnchored(t *testing.T) {
	// Only lines 1 and 3 carry anchors; the "\(" opener's line has none,
	// so resolving the "\)" finds the opener but no usable position.
	b, _ := buildBinding(t, slurScore, lnk(1, 0), lnk(3, 0))

	_, _, outcome := b.Indices(22, 22)
	if outcome != OutcomeIndeterminate {
		t.Errorf("expected indeterminate, got %v", outcome)
	}
}

func TestBindingPointUnbalancedCloserSameLine(t *testing.T) {
	// The ")" never opened, but the caret shares a line with the nearest
	// anchor, so that anchor still applies.
	b, _ := buildBinding(t, "c4 )\n", lnk(1, 0))

	lo, hi, outcome := b.Indices(3, 3)
	if outcome != OutcomeMatch || lo != 0 || hi != 1 {
		t.Errorf("expected match [0,1), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingPointUnbalancedCloserCrossLine(t *testing.T) {
	b, _ := buildBinding(t, "c4 d4\ne4 )\n", lnk(1, 0))

	// Caret on the unopened ")" at line 2, offset 9; the nearest anchor
	// lives on another line, so the highlight clears.
	_, _, outcome := b.Indices(9, 9)
	if outcome != OutcomeClear {
		t.Errorf("expected clear, got %v", outcome)
	}
}

func TestBindingPointUnlinkedLine(t *testing.T) {
	b, _ := buildBinding(t, "c4 d4\ne4 f4\n", lnk(1, 0))

	// Caret on a line without any anchors and no delimiter to resolve.
	_, _, outcome := b.Indices(6, 6)
	if outcome != OutcomeClear {
		t.Errorf("expected clear, got %v", outcome)
	}
}

func TestBindingSelection(t *testing.T) {
	b, _ := slurBinding(t)

	tests := []struct {
		name       string
		start, end buffer.ByteOffset
		lo, hi     int
		outcome    Outcome
	}{
		{name: "covering anchors", start: 5, end: 17, lo: 2, hi: 6, outcome: OutcomeMatch},
		{name: "start just past an anchor", start: 6, end: 17, lo: 3, hi: 6, outcome: OutcomeMatch},
		{name: "between anchors", start: 1, end: 3, outcome: OutcomeClear},
		{name: "after all anchors", start: 31, end: 34, outcome: OutcomeClear},
		{name: "single anchor", start: 3, end: 4, lo: 1, hi: 2, outcome: OutcomeMatch},
		{name: "whole buffer", start: 0, end: 35, lo: 0, hi: 10, outcome: OutcomeMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, outcome := b.Indices(tt.start, tt.end)
			if outcome != tt.outcome {
				t.Fatalf("expected outcome %v, got %v", tt.outcome, outcome)
			}
			if outcome == OutcomeMatch && (lo != tt.lo || hi != tt.hi) {
				t.Errorf("expected [%d,%d), got [%d,%d)", tt.lo, tt.hi, lo, hi)
			}
		})
	}
}

func TestBindingTracksEdits(t *testing.T) {
	b, buf := slurBinding(t)

	// Prepend a note on line 1; every anchor shifts right by 3.
	if _, err := buf.Insert(0, "r4 "); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	anchor, err := b.Cursor(1, 5)
	if err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if anchor.Offset() != 8 {
		t.Errorf("expected anchor to shift to offset 8, got %d", anchor.Offset())
	}

	// Exact hit at the shifted position.
	lo, hi, outcome := b.Indices(8, 8)
	if outcome != OutcomeMatch || lo != 2 || hi != 3 {
		t.Errorf("expected match [2,3), got [%d,%d) %v", lo, hi, outcome)
	}

	// Delimiter resolution follows the shifted text too: the ")" moved
	// from 8 to 11, its "(" anchor from 3 to 6.
	lo, hi, outcome = b.Indices(11, 11)
	if outcome != OutcomeMatch || lo != 1 || hi != 2 {
		t.Errorf("expected match [1,2), got [%d,%d) %v", lo, hi, outcome)
	}
}

func TestBindingSpannedAnchor(t *testing.T) {
	b, buf := buildBinding(t, "c4 ( d4 )\n", lnk(1, 3))

	// Deleting across the "(" clamps its anchor to the edit start and
	// marks it invalid, but the binding still answers with it.
	if err := buf.Delete(2, 5); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	anchor, err := b.Cursor(1, 3)
	if err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if anchor.Valid() {
		t.Error("expected spanned anchor to be invalid")
	}
	if anchor.Offset() != 2 {
		t.Errorf("expected clamped offset 2, got %d", anchor.Offset())
	}
}

func TestBindingRelease(t *testing.T) {
	b, buf := slurBinding(t)

	if buf.AnchorCount() != 10 {
		t.Fatalf("expected 10 anchors registered, got %d", buf.AnchorCount())
	}
	b.Release()
	if buf.AnchorCount() != 0 {
		t.Errorf("expected all anchors released, got %d", buf.AnchorCount())
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeIndeterminate.String() != "indeterminate" ||
		OutcomeClear.String() != "clear" ||
		OutcomeMatch.String() != "match" {
		t.Error("unexpected outcome names")
	}
}
