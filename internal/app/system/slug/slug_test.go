// internal/app/system/slug/slug_test.go
package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"John Smith", "john-smith"},
		{"  John   Smith  ", "john-smith"},
		{"Dr. María O'Neill", "dr-mara-oneill"},
		{"J. Smith", "j-smith"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER case", "upper-case"},
		{"dash--run---here", "dash-run-here"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{"John Smith", "Dr. María O'Neill", "a--b c", "J. Smith (Lab)"}
	for _, in := range inputs {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Errorf("Make not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestForMember(t *testing.T) {
	if got := ForMember("Jonathan Smith", "J. Smith"); got != "j-smith" {
		t.Errorf("nickname should win: got %q", got)
	}
	if got := ForMember("Jonathan Smith", ""); got != "jonathan-smith" {
		t.Errorf("fallback to name: got %q", got)
	}
	if got := ForMember("Jonathan Smith", "   "); got != "jonathan-smith" {
		t.Errorf("blank nickname should fall back: got %q", got)
	}
}
