package s3comms

import "testing"

func strptr(s string) *string { return &s }

func TestHeaderListOrderingAndUniqueness(t *testing.T) {
	t.Parallel()

	l := NewList()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	must(l.Set("x-amz-date", strptr("20130524T000000Z")))
	must(l.Set("Host", strptr("examplebucket.s3.amazonaws.com")))
	must(l.Set("x-amz-content-sha256", strptr(EmptyPayloadHash)))

	wantOrder := []string{"host", "x-amz-content-sha256", "x-amz-date"}
	nodes := l.Nodes()
	if len(nodes) != len(wantOrder) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(wantOrder))
	}
	for i, n := range nodes {
		if n.lowerName != wantOrder[i] {
			t.Fatalf("node %d lowerName = %q, want %q", i, n.lowerName, wantOrder[i])
		}
		if n.joined != n.Name+": "+n.Value {
			t.Fatalf("node %d joined form %q does not match name/value", i, n.joined)
		}
	}

	// Replace preserves position.
	must(l.Set("Host", strptr("other.host")))
	if v, ok := l.Get("host"); !ok || v != "other.host" {
		t.Fatalf("Get(host) = %q, %v, want other.host, true", v, ok)
	}
	if l.Nodes()[0].lowerName != "host" {
		t.Fatalf("replace must not change sort position")
	}

	// Remove.
	must(l.Set("Host", nil))
	if _, ok := l.Get("host"); ok {
		t.Fatal("host should have been removed")
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
}

func TestHeaderListErrors(t *testing.T) {
	t.Parallel()

	l := NewList()
	if err := l.Set("", strptr("v")); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := l.Set("missing", nil); err == nil {
		t.Fatal("expected error removing from empty list")
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(l.Set("A", strptr("1")))
	if err := l.Set("B", nil); err == nil {
		t.Fatal("expected error removing absent name")
	}
}

func TestHeaderListCaseFoldedUniqueness(t *testing.T) {
	t.Parallel()
	l := NewList()
	if err := l.Set("Host", strptr("a")); err != nil {
		t.Fatal(err)
	}
	if err := l.Set("HOST", strptr("b")); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (case-insensitive replace)", l.Len())
	}
	if v, _ := l.Get("host"); v != "b" {
		t.Fatalf("Get(host) = %q, want %q", v, "b")
	}
}
