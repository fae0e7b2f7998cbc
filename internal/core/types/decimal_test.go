package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantityTimes(t *testing.T) {
	price := MustMoney("49.50")

	assert.True(t, Quantity(4).Times(price).Equal(MustMoney("198")))
	assert.True(t, Quantity(0).Times(price).IsZero())
	assert.True(t, Quantity(-2).Times(price).Equal(MustMoney("-99")))
}

func TestMaxZero(t *testing.T) {
	assert.True(t, MaxZero(MustMoney("-0.01")).IsZero())
	assert.True(t, MaxZero(MustMoney("12.5")).Equal(MustMoney("12.5")))

	assert.Equal(t, Quantity(0), MaxZeroQuantity(-7))
	assert.Equal(t, Quantity(7), MaxZeroQuantity(7))
}
