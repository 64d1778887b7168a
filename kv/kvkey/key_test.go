package kvkey

import "testing"

func TestParseKeyRoundTrip(t *testing.T) {
	k, err := ParseKey("/jstz_account/tz1abc")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if got, want := k.String(), "/jstz_account/tz1abc"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestParseKeyRejectsIllegalSegments(t *testing.T) {
	cases := []string{"", "/", "no-leading-slash", "/has space", "/trailing/", "/a//b"}
	for _, c := range cases {
		if _, err := ParseKey(c); err == nil {
			t.Errorf("ParseKey(%q): expected error, got nil", c)
		}
	}
}

func TestNewKeyRejectsEmptySegment(t *testing.T) {
	if _, err := NewKey("a", "", "b"); err == nil {
		t.Fatalf("expected error for empty segment")
	}
}

func TestKeyLessTotalOrder(t *testing.T) {
	a, _ := NewKey("a")
	b, _ := NewKey("b")
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("expected a < b")
	}
}

func TestKeyEquality(t *testing.T) {
	a, _ := NewKey("jstz_account", "tz1")
	b, _ := NewKey("jstz_account", "tz1")
	if a != b {
		t.Fatalf("expected structurally equal keys to compare ==")
	}
}

func TestChild(t *testing.T) {
	root := MustParseKey("/jstz_account")
	child, err := root.Child("tz1abc")
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	if got, want := child.String(), "/jstz_account/tz1abc"; got != want {
		t.Fatalf("Child() = %q, want %q", got, want)
	}
	if _, err := root.Child("bad segment"); err == nil {
		t.Fatalf("expected error for illegal child segment")
	}
}
