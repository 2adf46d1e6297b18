package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("normalizes currency", func(t *testing.T) {
		m, err := New(1500, "myr")
		require.NoError(t, err)
		assert.Equal(t, "MYR", m.Currency)
	})

	t.Run("rejects bad currency", func(t *testing.T) {
		_, err := New(100, "RM")
		assert.ErrorIs(t, err, ErrInvalidCurrency)
	})
}

func TestArithmetic(t *testing.T) {
	a := Must(30000, "MYR")
	b := Must(5000, "MYR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), diff.Amount)

	_, err = a.Add(Must(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	assert.Equal(t, int64(90000), a.Multiply(3).Amount)
}

func TestProrate(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		num    int64
		den    int64
		want   int64
	}{
		{"two thirds of 300.00", 30000, 2, 3, 20000},
		{"zero paid nights", 30000, 0, 3, 0},
		{"full share", 30000, 3, 3, 30000},
		{"rounds half away from zero", 10001, 1, 2, 5001}, // 50.005 -> 50.01
		{"uneven split", 10000, 1, 3, 3333},
		{"zero denominator guards division", 30000, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Must(tt.amount, "MYR")
			assert.Equal(t, tt.want, m.Prorate(tt.num, tt.den).Amount)
		})
	}
}

func TestFromFloat(t *testing.T) {
	m, err := FromFloat(123.456, "MYR")
	require.NoError(t, err)
	assert.Equal(t, int64(12346), m.Amount)
	assert.InDelta(t, 123.46, m.Float(), 0.001)
}
