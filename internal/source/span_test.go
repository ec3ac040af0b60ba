package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 2, End: 10}},
		{"nested", Span{File: 1, Start: 2, End: 10}, Span{File: 1, Start: 4, End: 6}, Span{File: 1, Start: 2, End: 10}},
		{"other file ignored", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSpanContainsAdjacent(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 10}
	if !outer.Contains(Span{File: 1, Start: 3, End: 10}) {
		t.Error("expected containment")
	}
	if outer.Contains(Span{File: 1, Start: 3, End: 11}) {
		t.Error("unexpected containment")
	}
	if !(Span{File: 1, Start: 4, End: 5}).Adjacent(Span{File: 1, Start: 5, End: 6}) {
		t.Error("expected adjacency")
	}
	if (Span{File: 1, Start: 4, End: 5}).Adjacent(Span{File: 1, Start: 6, End: 7}) {
		t.Error("unexpected adjacency")
	}
	if got := (Span{Start: 3, End: 7}).Len(); got != 4 {
		t.Errorf("Len() = %d", got)
	}
}
