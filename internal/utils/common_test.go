package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"#":               "",
		"/schema_version": "schema_version",
		"/tasks/0/name":   "tasks[0].name",
		"#/tasks/12/id":   "tasks[12].id",
		"/a~1b/c~0d":      "a/b.c~d",
	}
	for in, want := range tests {
		if got := JSONPointerToPath(in); got != want {
			t.Errorf("JSONPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a terminal")
	}
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("regular file is not a terminal")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer sentence", 10, "a longe..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
