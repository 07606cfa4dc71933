package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDecimal(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		12.5:       "12.50",
		1234.5:     "1,234.50",
		-9876543.2: "-9,876,543.20",
		100:        "100.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDecimal(in, 2), in)
	}
	assert.Equal(t, "1,000", FormatDecimal(1000, 0))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "₹1,500.00", FormatMoney(1500))
	assert.Equal(t, "-₹3.10", FormatMoney(-3.1))
	assert.Equal(t, "120.50 kg", FormatKG(120.5))
	assert.Equal(t, "72.4%", FormatPercent(72.44))
}

func TestFormatFriendly_ZeroIsEmpty(t *testing.T) {
	assert.Empty(t, FormatFriendlyDateTime(time.Time{}))
	assert.Empty(t, FormatFriendlyDate(time.Time{}))
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "abc", TruncateWithEllipsis("abc", 5))
	assert.Equal(t, "ab…", TruncateWithEllipsis("abcdef", 3))
	assert.Equal(t, "…", TruncateWithEllipsis("abcdef", 1))
}
