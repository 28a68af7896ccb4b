package workorder

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

func dec(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func TestBuildPartDefaults(t *testing.T) {
	p := BuildPart(9, PartSpec{})

	assert.Equal(t, uint(9), p.WorkOrderID)
	assert.True(t, p.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, p.UnitPrice.IsZero())
	assert.True(t, p.UnitCost.IsZero())
	assert.True(t, p.LineTotal.IsZero())
}

func TestBuildPartLineTotal(t *testing.T) {
	p := BuildPart(1, PartSpec{Quantity: dec("2"), UnitPrice: dec("100"), UnitCost: dec("40")})
	assert.Equal(t, "200", p.LineTotal.String())

	p = BuildPart(1, PartSpec{Quantity: dec("1.5"), UnitPrice: dec("33.33")})
	assert.Equal(t, "50", p.LineTotal.StringFixed(0))
	assert.Equal(t, "50.00", p.LineTotal.StringFixed(2))
}

func TestBuildPartRoundsToColumnScale(t *testing.T) {
	p := BuildPart(1, PartSpec{Quantity: dec("0.333"), UnitPrice: dec("100"), UnitCost: dec("3.005")})

	assert.Equal(t, "0.33", p.Quantity.String())
	assert.Equal(t, "3.01", p.UnitCost.String())
	assert.Equal(t, "33", p.LineTotal.String())

	// totais recalculados a partir das colunas gravadas não mudam
	stored := models.WorkOrderPart{
		Quantity:  p.Quantity.Round(Scale),
		UnitPrice: p.UnitPrice.Round(Scale),
		UnitCost:  p.UnitCost.Round(Scale),
		LineTotal: p.LineTotal.Round(Scale),
	}
	var fromSpec, fromRow models.WorkOrder
	TotalsOf([]models.WorkOrderPart{p}).ApplyTo(&fromSpec)
	TotalsOf([]models.WorkOrderPart{stored}).ApplyTo(&fromRow)

	assert.Equal(t, "33", fromSpec.ActualTotalPrice.String())
	assert.Equal(t, "0.99", fromSpec.TotalCost.String())
	assert.True(t, fromSpec.ActualTotalPrice.Equal(fromRow.ActualTotalPrice))
	assert.True(t, fromSpec.TotalCost.Equal(fromRow.TotalCost))
	assert.True(t, fromSpec.Profit.Equal(fromRow.Profit))
}

func TestTotalsApplyTo(t *testing.T) {
	parts := []models.WorkOrderPart{
		BuildPart(1, PartSpec{Quantity: dec("2"), UnitPrice: dec("100"), UnitCost: dec("40")}),
		BuildPart(1, PartSpec{UnitPrice: dec("50"), UnitCost: dec("10")}),
	}

	var wo models.WorkOrder
	TotalsOf(parts).ApplyTo(&wo)

	assert.Equal(t, "250", wo.ActualTotalPrice.String())
	assert.Equal(t, "90", wo.TotalCost.String())
	assert.Equal(t, "160", wo.Profit.String())
}

func TestTotalsEmpty(t *testing.T) {
	var wo models.WorkOrder
	TotalsOf(nil).ApplyTo(&wo)

	assert.True(t, wo.ActualTotalPrice.IsZero())
	assert.True(t, wo.TotalCost.IsZero())
	assert.True(t, wo.Profit.IsZero())
}

func TestBlank(t *testing.T) {
	empty := "   "
	val := " 0555 "
	assert.Nil(t, Blank(nil))
	assert.Nil(t, Blank(&empty))
	assert.Equal(t, "0555", *Blank(&val))
}
