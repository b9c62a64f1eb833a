package orgcode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-invoice/pkg/orgcode"
)

func TestGenerate_LongitudYAlfabeto(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := orgcode.Generate()
		require.NoError(t, err)
		assert.Len(t, code, orgcode.GeneratedLength)
		assert.True(t, orgcode.Valid(code), code)
		assert.False(t, strings.ContainsAny(code, "0O1IL"), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ABCD2345", orgcode.Normalize("  abcd2345 "))
	assert.Equal(t, "ABCD2345", orgcode.Normalize("ａｂｃｄ２３４５"), "ancho completo")
}

func TestValid(t *testing.T) {
	assert.True(t, orgcode.Valid("ABC234"))
	assert.False(t, orgcode.Valid("ABC23"), "muy corto")
	assert.False(t, orgcode.Valid("ABC234567"), "muy largo")
	assert.False(t, orgcode.Valid("ABCO234"), "O ambigua")
	assert.False(t, orgcode.Valid("abc234"), "sin normalizar")
}
