package object

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user-u1/1_file.pdf", want: "user-u1/1_file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user-u1/1_file.pdf", want: "root/user-u1/1_file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user-u1/1_file.pdf", want: "root/user-u1/1_file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user-u1/1_file.pdf", want: "root/user-u1/1_file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user-u1/1_file.pdf", want: "root/sub/user-u1/1_file.pdf"},
		{name: "listing prefix", prefix: "root", key: "user-u1/", want: "root/user-u1/"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ApplyPrefix(tt.prefix, tt.key)
			if got != tt.want {
				t.Fatalf("ApplyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
			if back := StripPrefix(tt.prefix, got); back != trimLeadingSlash(tt.key) {
				t.Fatalf("StripPrefix(%q, %q) = %q, want %q", tt.prefix, got, back, tt.key)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	if got := NormalizePrefix("  /resumes/ "); got != "resumes" {
		t.Fatalf("NormalizePrefix = %q", got)
	}
}

func trimLeadingSlash(s string) string {
	for len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	return s
}
