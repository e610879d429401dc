package languages

import "testing"

func TestFromExtension(t *testing.T) {
	tests := []struct {
		ext      string
		expected Language
		ok       bool
	}{
		{".py", "python", true},
		{".pyw", "python", true},
		{".PY", "python", true},
		{".ts", "typescript", true},
		{".go", "go", true},
		{".yaml", "yaml", true},
		{".md", "markdown", true},
		{".xyz", "", false},
		{"py", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		lang, ok := FromExtension(tt.ext)
		if ok != tt.ok {
			t.Errorf("FromExtension(%q): expected ok=%v, got %v", tt.ext, tt.ok, ok)
		}
		if lang != tt.expected {
			t.Errorf("FromExtension(%q): expected %q, got %q", tt.ext, tt.expected, lang)
		}
	}
}

func TestMatchesIgnore(t *testing.T) {
	patterns := DefaultIgnorePatterns()

	tests := []struct {
		name    string
		ignored bool
	}{
		{".git", true},
		{"__pycache__", true},
		{"module.pyc", true},      // *.pyc suffix
		{"app.egg-info", true},    // *.egg-info suffix
		{".env.local", true},      // .env* prefix
		{"src", false},
		{"main.py", false},
		{"gitignore.py", false},
	}

	for _, tt := range tests {
		if got := MatchesIgnore(tt.name, patterns); got != tt.ignored {
			t.Errorf("MatchesIgnore(%q): expected %v, got %v", tt.name, tt.ignored, got)
		}
	}
}

func TestMatchesIgnoreCustomPatterns(t *testing.T) {
	patterns := []string{"tmp*", "*.bak"}

	if !MatchesIgnore("tmp_cache", patterns) {
		t.Error("expected tmp_cache to match tmp*")
	}
	if !MatchesIgnore("old.bak", patterns) {
		t.Error("expected old.bak to match *.bak")
	}
	if MatchesIgnore("cache_tmp", patterns) {
		t.Error("cache_tmp should not match")
	}
}
