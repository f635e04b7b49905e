package source

import (
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{
			name:     "shift normal span left by 5",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    5,
			expected: Span{File: 1, Start: 5, End: 15},
		},
		{
			name:     "shift equals start - boundary case",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    10,
			expected: Span{File: 1, Start: 0, End: 10},
		},
		{
			name:     "shift larger than start - returns original",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    15,
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "shift zero-length span",
			span:     Span{File: 1, Start: 10, End: 10},
			shift:    3,
			expected: Span{File: 1, Start: 7, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.span.ShiftLeft(tt.shift)
			if result != tt.expected {
				t.Errorf("ShiftLeft() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Span
		want  Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 9}, Span{File: 1, Start: 2, End: 9}},
		{"nested", Span{File: 1, Start: 2, End: 10}, Span{File: 1, Start: 4, End: 5}, Span{File: 1, Start: 2, End: 10}},
		{"other file ignored", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpan_ContainsAndOverlaps(t *testing.T) {
	outer := Span{File: 0, Start: 10, End: 20}
	tests := []struct {
		name     string
		other    Span
		contains bool
		overlaps bool
	}{
		{"same", outer, true, true},
		{"inner", Span{File: 0, Start: 12, End: 15}, true, true},
		{"empty at start", Span{File: 0, Start: 10, End: 10}, true, false},
		{"crosses end", Span{File: 0, Start: 18, End: 25}, false, true},
		{"after", Span{File: 0, Start: 20, End: 22}, false, false},
		{"other file", Span{File: 1, Start: 12, End: 15}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.other); got != tt.contains {
				t.Errorf("Contains(%v) = %v, want %v", tt.other, got, tt.contains)
			}
			if got := outer.Overlaps(tt.other); got != tt.overlaps {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.other, got, tt.overlaps)
			}
		})
	}
}

func TestFile_Text(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("class C { }"))
	f := fs.Get(id)

	if got := f.Text(Span{File: id, Start: 0, End: 7}); got != "class C" {
		t.Errorf("Text() = %q, want %q", got, "class C")
	}
	if got := f.Text(Span{File: id, Start: 8, End: 100}); got != "{ }" {
		t.Errorf("Text() past end = %q, want %q", got, "{ }")
	}
	if got := f.Text(Span{File: id + 1, Start: 0, End: 3}); got != "" {
		t.Errorf("Text() for foreign span = %q, want empty", got)
	}
}
