package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney_SeparadorDeMiles(t *testing.T) {
	assert.Equal(t, "¥0", japaneseLabels.money(0))
	assert.Equal(t, "¥999", japaneseLabels.money(999))
	assert.Equal(t, "¥1,000", japaneseLabels.money(1000))
	assert.Equal(t, "¥1,234,567", japaneseLabels.money(1234567))
	assert.Equal(t, "-¥500", japaneseLabels.money(-500))
	assert.Equal(t, "JPY 9,979", englishLabels.money(9979))
}
