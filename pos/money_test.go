package pos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/bookshop-ledger/pos"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", pos.FormatAmount(0))
	assert.Equal(t, "600", pos.FormatAmount(600))
	assert.Equal(t, "1,100", pos.FormatAmount(1100))
	assert.Equal(t, "1,234,567", pos.FormatAmount(1234567))
	assert.Equal(t, "-100", pos.FormatAmount(-100))
	assert.Equal(t, "-1,150", pos.FormatAmount(-1150))
}
