package common

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "simple title",
			title: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "mixed case and punctuation",
			title: "My Trip to Iceland: Day 3!",
			want:  "my-trip-to-iceland-day-3",
		},
		{
			name:  "consecutive separators collapse",
			title: "one  --  two",
			want:  "one-two",
		},
		{
			name:  "leading and trailing junk trimmed",
			title: "  ...Photo Essay...  ",
			want:  "photo-essay",
		},
		{
			name:  "non-ascii falls back to hyphens",
			title: "café & crème",
			want:  "caf-cr-me",
		},
		{
			name:  "empty title falls back",
			title: "",
			want:  "untitled",
		},
		{
			name:  "only punctuation falls back",
			title: "!!!",
			want:  "untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugifyCharset(t *testing.T) {
	// Whatever goes in, the result must be non-empty and URL-safe
	inputs := []string{"Hello World", "漢字タイトル", "   ", "a_b_c", "UPPER"}
	valid := func(s string) bool {
		if s == "" {
			return false
		}
		for _, r := range s {
			if !(r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
				return false
			}
		}
		return true
	}
	for _, in := range inputs {
		if got := Slugify(in); !valid(got) {
			t.Errorf("Slugify(%q) = %q, not a valid slug", in, got)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{
		"hello-world":   true,
		"hello-world-2": true,
	}
	exists := func(s string) bool { return taken[s] }

	if got := UniqueSlug("fresh", exists); got != "fresh" {
		t.Errorf("expected unused base returned as-is, got %q", got)
	}
	if got := UniqueSlug("hello-world", exists); got != "hello-world-3" {
		t.Errorf("expected first free suffix, got %q", got)
	}
}
