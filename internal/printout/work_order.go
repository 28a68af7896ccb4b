package printout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// Header vem das configurações de impressora salvas pelo painel.
type Header struct {
	ShopName   string `json:"shop_name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	FooterNote string `json:"footer_note"`
}

const defaultShopName = "Oto Servis"

// HeaderFrom ignora campos desconhecidos e JSON inválido.
func HeaderFrom(raw []byte) Header {
	var h Header
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &h)
	}
	if h.ShopName == "" {
		h.ShopName = defaultShopName
	}
	return h
}

const ContentType = "application/pdf"

// WorkOrder gera a ficha de serviço em PDF.
func WorkOrder(wo *models.WorkOrder, h Header, loc *time.Location) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Sayfa {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	// --------------------------------------------------
	// Cabeçalho
	// --------------------------------------------------
	m.AddRow(14,
		text.NewCol(8, h.ShopName, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, fmt.Sprintf("Fiş No: %d", wo.TicketNo), props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
	m.AddRow(12,
		col.New(8).Add(
			text.New(h.Address, props.Text{Size: 9}),
			text.New(h.Phone, props.Text{Size: 9, Top: 4}),
		),
		text.NewCol(4, "Tarih: "+wo.CreatedAt.In(loc).Format("02.01.2006 15:04"), props.Text{
			Size:  9,
			Align: align.Right,
		}),
	)
	m.AddRow(4, line.NewCol(12))

	// --------------------------------------------------
	// Cliente / veículo
	// --------------------------------------------------
	m.AddRow(24,
		col.New(6).Add(
			text.New("Müşteri", props.Text{Style: fontstyle.Bold, Size: 10}),
			text.New(workorder.Deref(wo.CustomerName), props.Text{Size: 9, Top: 5}),
			text.New(workorder.Deref(wo.CustomerPhone), props.Text{Size: 9, Top: 10}),
			text.New(workorder.Deref(wo.CustomerAddress), props.Text{Size: 9, Top: 15}),
		),
		col.New(6).Add(
			text.New("Araç", props.Text{Style: fontstyle.Bold, Size: 10}),
			text.New(workorder.Deref(wo.VehicleMakeModel), props.Text{Size: 9, Top: 5}),
			text.New("Plaka: "+workorder.Deref(wo.Plate), props.Text{Size: 9, Top: 10}),
			text.New("KM: "+workorder.Deref(wo.Mileage), props.Text{Size: 9, Top: 15}),
		),
	)

	m.AddRow(16,
		col.New(12).Add(
			text.New("Şikayet", props.Text{Style: fontstyle.Bold, Size: 10}),
			text.New(workorder.Deref(wo.Complaint), props.Text{Size: 9, Top: 5}),
		),
	)
	if wo.Description != nil {
		m.AddRow(16,
			col.New(12).Add(
				text.New("Yapılan İşlemler", props.Text{Style: fontstyle.Bold, Size: 10}),
				text.New(*wo.Description, props.Text{Size: 9, Top: 5}),
			),
		)
	}

	// --------------------------------------------------
	// Itens
	// --------------------------------------------------
	bold := props.Text{Style: fontstyle.Bold, Size: 9}
	right := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	m.AddRow(8,
		text.NewCol(2, "Kod", bold),
		text.NewCol(5, "Açıklama", bold),
		text.NewCol(1, "Adet", right),
		text.NewCol(2, "Birim", right),
		text.NewCol(2, "Tutar", right),
	)

	for _, p := range wo.Parts {
		m.AddRow(7,
			text.NewCol(2, workorder.Deref(p.PartCode), props.Text{Size: 9}),
			text.NewCol(5, workorder.Deref(p.Description), props.Text{Size: 9}),
			text.NewCol(1, p.Quantity.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, p.UnitPrice.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, p.LineTotal.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Toplam", bold),
		text.NewCol(2, wo.ActualTotalPrice.StringFixed(2)+" TL", right),
	)
	if wo.PaymentDetail != nil {
		m.AddRow(8,
			text.NewCol(12, "Ödeme: "+*wo.PaymentDetail, props.Text{Size: 9}),
		)
	}

	// --------------------------------------------------
	// Assinaturas
	// --------------------------------------------------
	m.AddRow(20,
		col.New(6).Add(
			text.New("Teslim Alan", props.Text{Style: fontstyle.Bold, Size: 9, Top: 8}),
			text.New(workorder.Deref(wo.DeliveredTo), props.Text{Size: 9, Top: 13}),
		),
		col.New(6).Add(
			text.New("Teslim Eden", props.Text{Style: fontstyle.Bold, Size: 9, Top: 8, Align: align.Right}),
			text.New(workorder.Deref(wo.DeliveredBy), props.Text{Size: 9, Top: 13, Align: align.Right}),
		),
	)
	if h.FooterNote != "" {
		m.AddRow(10, text.NewCol(12, h.FooterNote, props.Text{Size: 8, Top: 4, Align: align.Center}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
