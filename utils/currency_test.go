package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "Ksh 0.00", FormatCurrency(0))
	assert.Equal(t, "Ksh 500.00", FormatCurrency(500))
	assert.Equal(t, "Ksh 15,500.50", FormatCurrency(15500.5))
	assert.Equal(t, "Ksh 1,234,567.00", FormatCurrency(1234567))
	assert.Equal(t, "Ksh -1,500.00", FormatCurrency(-1500))
}
