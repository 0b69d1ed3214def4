package source

import "testing"

func TestPrepare(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		markdown bool
		want     string
	}{
		{"trims", "  text  \n", false, "text"},
		{"crlf", "a\r\nb", false, "a\nb"},
		{"bom", "\ufeffHello", false, "Hello"},
		{"nfc", "cafe\u0301", false, "caf\u00e9"},
		{"no-break space", "10\u00a0km", false, "10 km"},
		{"soft hyphen", "hyphen\u00adated", false, "hyphenated"},
		{"frontmatter", "---\ntitle: x\n---\nBody", false, "Body"},
		{"markdown", "## Sub\n\n*Body*", true, "Sub\n\nBody"},
		{"markdown untouched when plain", "## Sub", false, "## Sub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prepare([]byte(tt.in), tt.markdown); got != tt.want {
				t.Errorf("Prepare(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRemoveFrontmatter(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"---\na: 1\n---\nbody", "body"},
		{"---\n---\nbody", "body"},
		{"---\na: 1\n---", ""},
		{"--- not frontmatter", "--- not frontmatter"},
		{"---\nunterminated", "---\nunterminated"},
		{"body\n---\n", "body\n---\n"},
	}

	for _, tt := range tests {
		if got := string(RemoveFrontmatter([]byte(tt.in))); got != tt.want {
			t.Errorf("RemoveFrontmatter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
