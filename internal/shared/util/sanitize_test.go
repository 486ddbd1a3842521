package util

import "testing"

func TestSanitizeKeyComponent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "resume_v1.pdf", want: "resume_v1.pdf"},
		{in: "My Resume (final).PDF", want: "My_Resume__final_.PDF"},
		{in: "../../etc/passwd", want: ".._.._etc_passwd"},
		{in: "résumé.docx", want: "r_sum_.docx"},
		{in: "a-b.c_d", want: "a-b.c_d"},
	}
	for _, tt := range tests {
		if got := SanitizeKeyComponent(tt.in); got != tt.want {
			t.Fatalf("SanitizeKeyComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileExtension(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"resume.pdf":       "pdf",
		"Resume.PDF":       "pdf",
		"cv.final.DocX":    "docx",
		"notes":            "",
		"dir.v2/notes":     "",
		"archive.tar.gz":   "gz",
		"trailing.":        "",
		`C:\docs\cv.docx`: "docx",
	}
	for in, want := range tests {
		if got := FileExtension(in); got != want {
			t.Fatalf("FileExtension(%q) = %q, want %q", in, got, want)
		}
	}
}
