package system

import (
	"strings"
	"testing"
)

func TestOpenURLRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
	}{
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
		{"no scheme", "example.com"},
		{"garbage", "://"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := OpenURL(tc.url); err == nil {
				t.Errorf("OpenURL(%q) should fail", tc.url)
			}
		})
	}
}

func TestOpenURLErrorNamesScheme(t *testing.T) {
	t.Parallel()

	err := OpenURL("ftp://example.com")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "ftp") {
		t.Errorf("error %q should name the rejected scheme", err)
	}
}
