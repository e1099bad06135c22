package utils

import (
	"regexp"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugifyBasics(t *testing.T) {
	cases := map[string]string{
		"My Project":              "my-project",
		"  Hello   World  ":       "hello-world",
		"C++ & Go: A Comparison":  "c-and-go-a-comparison",
		"What's New in Go 1.23?":  "whats-new-in-go-1-23",
		"UPPER/lower":             "upper-lower",
		"---already--dashed---":   "already-dashed",
		"Trailing punctuation!!!": "trailing-punctuation",
		"E-Commerce Platform":     "e-commerce-platform",
		"AI Chat Assistant":       "ai-chat-assistant",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSlugifyMatchesPattern(t *testing.T) {
	titles := []string{
		"My Project",
		"Task Management App",
		"100 Days of Code",
		"résumé builder",
		"a   lot    of   spaces",
		"mixed_CASE_and_underscores",
	}
	for _, title := range titles {
		got := Slugify(title)
		if got == "" {
			continue
		}
		if !slugPattern.MatchString(got) {
			t.Errorf("Slugify(%q) = %q does not match %s", title, got, slugPattern)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	titles := []string{"My Project", "What's New in Go 1.23?", "C++ & Go"}
	for _, title := range titles {
		once := Slugify(title)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", title, once, twice)
		}
	}
}

func TestSlugifyEmpty(t *testing.T) {
	if got := Slugify("   "); got != "" {
		t.Errorf("Slugify(blank) = %q, want empty", got)
	}
	if got := Slugify("!!!"); got != "" {
		t.Errorf("Slugify(punctuation only) = %q, want empty", got)
	}
}

func TestReadTime(t *testing.T) {
	word := "word "
	cases := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}
	for _, tc := range cases {
		content := ""
		for i := 0; i < tc.words; i++ {
			content += word
		}
		if got := ReadTime(content); got != tc.want {
			t.Errorf("ReadTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}
