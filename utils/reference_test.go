package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateReference(t *testing.T) {
	ref, err := GenerateReference("res")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := strings.Split(ref, "-")
	if len(parts) != 3 {
		t.Fatalf("expected PREFIX-DATE-CODE, got %q", ref)
	}
	if parts[0] != "RES" {
		t.Fatalf("prefix must be upper-cased, got %q", parts[0])
	}
	if parts[1] != time.Now().Format("20060102") {
		t.Fatalf("unexpected date segment %q", parts[1])
	}
	if len(parts[2]) != 6 {
		t.Fatalf("expected a 6-char code, got %q", parts[2])
	}
	for _, c := range parts[2] {
		if !strings.ContainsRune(referenceCharset, c) {
			t.Fatalf("character %q outside the unambiguous charset", c)
		}
	}
}

func TestGenerateReference_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ref, err := GenerateReference("RES")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference %q", ref)
		}
		seen[ref] = true
	}
}

func TestRandomCode_InvalidLength(t *testing.T) {
	if _, err := randomCode(0); err == nil {
		t.Fatal("expected an error for length 0")
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	cases := []struct {
		year int
		seq  int64
		want string
	}{
		{2026, 42, "FAC-2026-0042"},
		{2026, 1, "FAC-2026-0001"},
		{2027, 12345, "FAC-2027-12345"},
	}
	for _, tc := range cases {
		if got := FormatInvoiceNumber(tc.year, tc.seq); got != tc.want {
			t.Fatalf("FormatInvoiceNumber(%d, %d) = %q, want %q", tc.year, tc.seq, got, tc.want)
		}
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("AGENCE_TEST_KEY", "valeur")
	if got := EnvOrDefault("AGENCE_TEST_KEY", "def"); got != "valeur" {
		t.Fatalf("expected valeur, got %q", got)
	}
	t.Setenv("AGENCE_TEST_KEY", "   ")
	if got := EnvOrDefault("AGENCE_TEST_KEY", "def"); got != "def" {
		t.Fatalf("blank values fall back, got %q", got)
	}
	if got := EnvOrDefault("AGENCE_TEST_ABSENT", "def"); got != "def" {
		t.Fatalf("expected def, got %q", got)
	}
}
