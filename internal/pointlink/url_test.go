package pointlink

import "testing"

func TestMatcherMatch(t *testing.T) {
	m := NewMatcher("textedit")

	tests := []struct {
		name string
		raw  string
		want LinkRef
	}{
		{
			name: "with trailing length group",
			raw:  "textedit:///home/user/piece.ly:12:4:4",
			want: LinkRef{Path: "/home/user/piece.ly", Line: 12, Column: 4},
		},
		{
			name: "without trailing group",
			raw:  "textedit:///home/user/piece.ly:1:0",
			want: LinkRef{Path: "/home/user/piece.ly", Line: 1, Column: 0},
		},
		{
			name: "percent-encoded path",
			raw:  "textedit:///with%20space/a%25b.ly:3:7:7",
			want: LinkRef{Path: "/with space/a%b.ly", Line: 3, Column: 7},
		},
		{
			name: "path containing colons",
			raw:  "textedit:///a:b.ly:3:4:5",
			want: LinkRef{Path: "/a:b.ly", Line: 3, Column: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(tt.raw)
			if !ok {
				t.Fatalf("expected %q to match", tt.raw)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestMatcherRejects(t *testing.T) {
	m := NewMatcher("textedit")

	rejects := []string{
		"",
		"textedit://",
		"textedit:///a.ly",
		"textedit:///a.ly:12",
		"textedit:///a.ly:x:4",
		"textedit:///a.ly:0:4", // lines are 1-based
		"textedit:///a.ly:99999999999999999999:4",
		"textedit:///bad%zz.ly:1:0",
		"http://example.org/a.ly:12:4",
		"textedit:///a.ly:12:4:4 trailing",
	}
	for _, raw := range rejects {
		if _, ok := m.Match(raw); ok {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestMatcherCustomScheme(t *testing.T) {
	m := NewMatcher("lilypond")

	if _, ok := m.Match("lilypond:///a.ly:1:0"); !ok {
		t.Error("expected custom scheme URL to match")
	}
	if _, ok := m.Match("textedit:///a.ly:1:0"); ok {
		t.Error("expected foreign scheme URL to be rejected")
	}
}

func TestMatcherSchemeQuoted(t *testing.T) {
	// Metacharacters in the scheme must match literally.
	m := NewMatcher("edit.x")

	if _, ok := m.Match("edit.x:///a.ly:1:0"); !ok {
		t.Error("expected literal scheme to match")
	}
	if _, ok := m.Match("editax:///a.ly:1:0"); ok {
		t.Error("expected dot to not act as a wildcard")
	}
}

func TestMatcherDefaultScheme(t *testing.T) {
	m := NewMatcher("")
	if m.Scheme() != DefaultScheme {
		t.Errorf("expected scheme %q, got %q", DefaultScheme, m.Scheme())
	}
	if _, ok := m.Match("textedit:///a.ly:1:0"); !ok {
		t.Error("expected default scheme to accept textedit URLs")
	}
}
