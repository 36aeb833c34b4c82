package game

import (
	"strings"
	"testing"
)

func TestNewCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewCode()
		if len(code) != codeLength {
			t.Fatalf("expected %d characters, got %q", codeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}

func TestCodeAlphabetOmitsAmbiguousCharacters(t *testing.T) {
	for _, c := range "O0I1L" {
		if strings.ContainsRune(codeAlphabet, c) {
			t.Fatalf("alphabet should not contain %q", c)
		}
	}
}
