package workorder

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// PartSpec é um item como chega na requisição; todo campo é opcional.
type PartSpec struct {
	PartCode    *string
	Description *string
	Quantity    decimal.NullDecimal
	UnitPrice   decimal.NullDecimal
	UnitCost    decimal.NullDecimal
}

// Scale é a escala das colunas decimal(12,2).
const Scale = 2

var one = decimal.NewFromInt(1)

// BuildPart aplica os defaults (qtd 1, preço/custo 0) e calcula line_total.
// Os valores são arredondados para a escala da coluna antes do cálculo,
// então o que fica gravado bate com os totais.
func BuildPart(workOrderID uint, spec PartSpec) models.WorkOrderPart {
	qty := one
	if spec.Quantity.Valid {
		qty = spec.Quantity.Decimal.Round(Scale)
	}
	price := decimal.Zero
	if spec.UnitPrice.Valid {
		price = spec.UnitPrice.Decimal.Round(Scale)
	}
	cost := decimal.Zero
	if spec.UnitCost.Valid {
		cost = spec.UnitCost.Decimal.Round(Scale)
	}

	return models.WorkOrderPart{
		WorkOrderID: workOrderID,
		PartCode:    spec.PartCode,
		Description: spec.Description,
		Quantity:    qty,
		UnitPrice:   price,
		UnitCost:    cost,
		LineTotal:   qty.Mul(price).Round(Scale),
	}
}

// Totals acumula receita (soma de line_total) e custo (soma de qtd*custo).
type Totals struct {
	Revenue decimal.Decimal
	Cost    decimal.Decimal
}

func (t *Totals) Add(lineTotal, quantity, unitCost decimal.Decimal) {
	t.Revenue = t.Revenue.Add(lineTotal)
	t.Cost = t.Cost.Add(quantity.Mul(unitCost))
}

func (t *Totals) AddPart(p models.WorkOrderPart) {
	t.Add(p.LineTotal, p.Quantity, p.UnitCost)
}

func (t Totals) Profit() decimal.Decimal {
	return t.Revenue.Sub(t.Cost)
}

func (t Totals) ApplyTo(wo *models.WorkOrder) {
	wo.ActualTotalPrice = t.Revenue.Round(Scale)
	wo.TotalCost = t.Cost.Round(Scale)
	wo.Profit = t.Profit().Round(Scale)
}

func TotalsOf(parts []models.WorkOrderPart) Totals {
	var t Totals
	for _, p := range parts {
		t.AddPart(p)
	}
	return t
}
