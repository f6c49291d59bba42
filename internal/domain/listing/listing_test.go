package listing

import "testing"

func TestNewQuery(t *testing.T) {
	if _, err := NewQuery(0, 10, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewQuery(-1, 10, ""); err == nil {
		t.Error("expected error for negative page")
	}
	for _, size := range []int{0, 1, 7, 100} {
		if _, err := NewQuery(0, size, ""); err == nil {
			t.Errorf("expected error for page size %d", size)
		}
	}
}

func TestQuery_ResetsPage(t *testing.T) {
	q := Query{Page: 4, PageSize: 10, Search: "inv"}

	if got := q.WithSearch("invoice"); got.Page != 0 || got.Search != "invoice" {
		t.Errorf("WithSearch: %+v", got)
	}
	if got := q.WithPageSize(25); got.Page != 0 || got.PageSize != 25 {
		t.Errorf("WithPageSize: %+v", got)
	}
	if got := q.WithPage(2); got.Page != 2 || got.Search != "inv" {
		t.Errorf("WithPage: %+v", got)
	}
	if q.Page != 4 {
		t.Error("original query mutated")
	}
}

func TestQuery_WirePage(t *testing.T) {
	if got := (Query{Page: 0}).WirePage(); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := (Query{Page: 2}).WirePage(); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestSnapshot_EmptyMessage(t *testing.T) {
	s := Snapshot{Kind: KindEmpty}
	if s.EmptyMessage() != "No documents uploaded yet." {
		t.Errorf("unexpected: %q", s.EmptyMessage())
	}
	s.Query.Search = "x"
	if s.EmptyMessage() != "No documents found matching your search." {
		t.Errorf("unexpected: %q", s.EmptyMessage())
	}
}

func TestSnapshot_PageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{23, 10, 3},
		{20, 10, 2},
		{0, 10, 0},
		{1, 25, 1},
	}
	for _, tc := range tests {
		s := Snapshot{Query: Query{PageSize: tc.size}, Total: tc.total}
		if got := s.PageCount(); got != tc.want {
			t.Errorf("total=%d size=%d: got %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindLoaded.String() != "loaded" || KindEmpty.String() != "empty" {
		t.Error("unexpected kind names")
	}
}
