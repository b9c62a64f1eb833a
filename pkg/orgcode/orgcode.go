// Package orgcode genera y normaliza códigos de organizador.
package orgcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/width"
)

// Alphabet excluye los caracteres ambiguos 0, O, 1, I y L.
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	MinLength       = 6
	MaxLength       = 8
	GeneratedLength = 8
)

// Generate devuelve un código aleatorio de GeneratedLength caracteres.
func Generate() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	var b strings.Builder
	b.Grow(GeneratedLength)
	for i := 0; i < GeneratedLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("orgcode: %w", err)
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Normalize recorta espacios, pasa ancho completo a ASCII y convierte a mayúsculas.
func Normalize(code string) string {
	return strings.ToUpper(width.Fold.String(strings.TrimSpace(code)))
}

// Valid informa si un código ya normalizado tiene longitud y alfabeto válidos.
func Valid(code string) bool {
	if len(code) < MinLength || len(code) > MaxLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}
