package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	base := ComputeParams{
		OrderID:     "o1",
		OrderItemID: "oi1",
		VendorID:    "v1",
		StoreID:     "s1",
		ProductID:   "p1",
	}

	t.Run("TotalAndCommission", func(t *testing.T) {
		p := base
		p.Price = 10.0
		p.Quantity = 2

		s := Compute(p, 0.10)
		assert.Equal(t, 20.0, s.Total)
		assert.Equal(t, 2.0, s.Commission)
		assert.Equal(t, 10.0, s.ProductPrice)
		assert.Equal(t, 2, s.ProductQty)
		assert.False(t, s.IsPaid)
	})

	t.Run("SingleUnit", func(t *testing.T) {
		p := base
		p.Price = 5.0
		p.Quantity = 1

		s := Compute(p, 0.10)
		assert.Equal(t, 5.0, s.Total)
		assert.Equal(t, 0.5, s.Commission)
	})

	t.Run("ZeroRate", func(t *testing.T) {
		p := base
		p.Price = 99.99
		p.Quantity = 3

		s := Compute(p, 0)
		assert.Equal(t, 0.0, s.Commission)
	})

	t.Run("CarriesIdentity", func(t *testing.T) {
		p := base
		p.Price = 1
		p.Quantity = 1

		s := Compute(p, 0.15)
		assert.Equal(t, "o1", s.OrderID)
		assert.Equal(t, "oi1", s.OrderItemID)
		assert.Equal(t, "v1", s.VendorID)
		assert.Equal(t, "s1", s.StoreID)
		assert.Equal(t, "p1", s.ProductID)
	})
}
