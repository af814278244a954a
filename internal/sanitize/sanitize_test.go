package sanitize

import "testing"

func TestFieldStripsTagsAndAttributes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>Hi</b>", "Hi"},
		{"<p>Hello <b>World</b></p>", "Hello World"},
		{`<a href="https://evil.example" onclick="x()">link</a>`, "link"},
		{"<script>alert(1)</script>", ""},
		{"fish & chips", "fish & chips"},
		{`<img src="x">caption`, "caption"},
	}

	for _, tc := range cases {
		if got := Field(tc.in); got != tc.want {
			t.Errorf("Field(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
