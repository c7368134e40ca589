package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"+91 98765 43210", "+919876543210"},
		{" +919876543210 ", "+919876543210"},
		{"not a number", "not a number"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("+91 98765 43210"); got != "919876543210" {
		t.Errorf("Digits = %q", got)
	}
}
