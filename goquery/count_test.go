package goquery_test

import (
	"math"
	"testing"

	"github.com/fwojciec/creatorscan/goquery"
	"github.com/stretchr/testify/assert"
)

func TestParseCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"ten-thousand character", "1.2万", 12000},
		{"lowercase w abbreviation", "3.5w", 35000},
		{"uppercase W abbreviation", "2W", 20000},
		{"plain integer", "128", 128},
		{"thousands separator", "1,024", 1024},
		{"surrounding whitespace and label", "  点赞 256 ", 256},
		{"empty", "", 0},
		{"non-numeric", "赞", 0},
		{"marker without digits", "万", 0},
		{"floors fractional result", "1.23456万", 12345},
		{"ignores trailing dots", "1.5.2w", 15000},
		{"leading decimal point", ".5万", 5000},
		{"clamps overflowing integer", "99999999999999999999", math.MaxInt},
		{"clamps overflowing abbreviation", "999999999999999999999万", math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, goquery.ParseCount(tt.text))
		})
	}
}
