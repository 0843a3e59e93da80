package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"
)

//
// ===========================================================
//  ENV UTILITIES
// ===========================================================
//

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

//
// ===========================================================
//  REFERENCE GENERATORS
// ===========================================================
//

const referenceCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// randomCode draws n characters from the unambiguous charset.
func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid code length")
	}
	var sb strings.Builder
	max := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[idx.Int64()])
	}
	return sb.String(), nil
}

// GenerateReference builds a reservation reference like "RES-20260901-7KP4QX".
// Used when the client leaves the reference blank (auto-generate server-side).
func GenerateReference(prefix string) (string, error) {
	code, err := randomCode(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", strings.ToUpper(prefix), time.Now().Format("20060102"), code), nil
}

// FormatInvoiceNumber renders a facture numero like "FAC-2026-0042".
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("FAC-%d-%04d", year, seq)
}
