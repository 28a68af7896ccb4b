package printout

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

func TestHeaderFrom(t *testing.T) {
	h := HeaderFrom([]byte(`{"shop_name":"Usta Oto","phone":"0212 000 00 00","paper":"a4"}`))
	assert.Equal(t, "Usta Oto", h.ShopName)
	assert.Equal(t, "0212 000 00 00", h.Phone)

	assert.Equal(t, defaultShopName, HeaderFrom(nil).ShopName)
	assert.Equal(t, defaultShopName, HeaderFrom([]byte("{bozuk")).ShopName)
}

func TestWorkOrderRendersPDF(t *testing.T) {
	name := "Ali Veli"
	desc := "Fren balatası"
	wo := &models.WorkOrder{
		TicketNo:     12,
		CustomerName: &name,
		CreatedAt:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Parts: []models.WorkOrderPart{{
			Description: &desc,
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(100),
			LineTotal:   decimal.NewFromInt(200),
		}},
		ActualTotalPrice: decimal.NewFromInt(200),
	}

	out, err := WorkOrder(wo, HeaderFrom(nil), time.UTC)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
