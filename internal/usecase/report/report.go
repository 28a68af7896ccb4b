package report

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/oto-servis/internal/domain/report"
	"github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
	"github.com/BruksfildServices01/oto-servis/internal/httperr"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/timezone"
)

const (
	SourceWorkOrder = "is_emri"
	SourceAccessory = "aksesuar"
)

// ======================================================
// OUTPUT
// ======================================================

type WorkOrderLine struct {
	ID               uint            `json:"id"`
	TicketNo         int             `json:"ticket_no"`
	CustomerName     string          `json:"customer_name"`
	VehicleMakeModel string          `json:"vehicle_make_model"`
	Plate            string          `json:"plate"`
	CompletedAt      time.Time       `json:"completed_at"`
	ActualTotalPrice decimal.Decimal `json:"actual_total_price"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	Profit           decimal.Decimal `json:"profit"`
}

type PeriodReport struct {
	Date  string `json:"tarih,omitempty"`
	Start string `json:"baslangic"`
	End   string `json:"bitis"`

	WorkOrderCount int             `json:"toplam_is_emri"`
	Revenue        decimal.Decimal `json:"toplam_gelir"`
	Cost           decimal.Decimal `json:"toplam_maliyet"`
	Profit         decimal.Decimal `json:"toplam_kar"`
	Expenses       decimal.Decimal `json:"toplam_gider"`
	NetProfit      decimal.Decimal `json:"net_kar"`

	AccessorySaleCount int             `json:"aksesuar_satis_adedi"`
	AccessoryRevenue   decimal.Decimal `json:"aksesuar_gelir"`
	AccessoryProfit    decimal.Decimal `json:"aksesuar_kar"`

	WorkOrders   []WorkOrderLine  `json:"is_emirleri"`
	ExpenseItems []models.Expense `json:"giderler"`
}

type Summary struct {
	StatusCounts   map[string]int64 `json:"durum_sayilari"`
	WorkOrderCount int64            `json:"toplam_is_emri"`
	CompletedCount int64            `json:"tamamlanan_is_emri"`
	CustomerCount  int64            `json:"toplam_musteri"`

	Revenue   decimal.Decimal `json:"toplam_gelir"`
	Cost      decimal.Decimal `json:"toplam_maliyet"`
	Profit    decimal.Decimal `json:"toplam_kar"`
	Expenses  decimal.Decimal `json:"toplam_gider"`
	NetProfit decimal.Decimal `json:"net_kar"`

	AccessorySaleCount int64           `json:"aksesuar_satis_adedi"`
	AccessoryRevenue   decimal.Decimal `json:"aksesuar_gelir"`
	AccessoryProfit    decimal.Decimal `json:"aksesuar_kar"`
}

type TicketProfitLine struct {
	Source       string          `json:"kaynak"`
	ID           uint            `json:"id"`
	TicketNo     *int            `json:"ticket_no"`
	CustomerName string          `json:"customer_name"`
	Description  string          `json:"aciklama"`
	Date         time.Time       `json:"tarih"`
	Revenue      decimal.Decimal `json:"gelir"`
	Cost         decimal.Decimal `json:"maliyet"`
	Profit       decimal.Decimal `json:"kar"`
}

type TicketProfitReport struct {
	Lines   []TicketProfitLine `json:"kayitlar"`
	Revenue decimal.Decimal    `json:"toplam_gelir"`
	Cost    decimal.Decimal    `json:"toplam_maliyet"`
	Profit  decimal.Decimal    `json:"toplam_kar"`
}

type PartProfit struct {
	models.WorkOrderPart
	LineCost   decimal.Decimal `json:"line_cost"`
	LineProfit decimal.Decimal `json:"line_profit"`
}

type OrderDetail struct {
	WorkOrder *models.WorkOrder `json:"is_emri"`
	Parts     []PartProfit      `json:"parcalar"`
	Revenue   decimal.Decimal   `json:"toplam_gelir"`
	Cost      decimal.Decimal   `json:"toplam_maliyet"`
	Profit    decimal.Decimal   `json:"toplam_kar"`
}

// ======================================================
// SERVICE
// ======================================================

type Reports struct {
	repo domain.Repository
	loc  *time.Location
	now  func() time.Time
}

func NewReports(repo domain.Repository, tz string) *Reports {
	return &Reports{
		repo: repo,
		loc:  timezone.Location(tz),
		now:  time.Now,
	}
}

// Daily usa o dia de hoje quando date vem vazio.
func (r *Reports) Daily(ctx context.Context, date string) (*PeriodReport, error) {
	day := timezone.StartOfDay(r.now().In(r.loc))
	if strings.TrimSpace(date) != "" {
		d, err := timezone.ParseDate(date, r.loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		day = d
	}

	start, end := timezone.DayRange(day)
	out, err := r.period(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out.Date = day.Format(timezone.DateLayout)
	return out, nil
}

// Range inclui o dia final inteiro.
func (r *Reports) Range(ctx context.Context, start, end string) (*PeriodReport, error) {
	from, to, err := r.window(start, end)
	if err != nil {
		return nil, err
	}
	return r.period(ctx, from, to)
}

func (r *Reports) window(start, end string) (time.Time, time.Time, error) {
	from, err := timezone.ParseDate(start, r.loc)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_date_range")
	}
	last, err := timezone.ParseDate(end, r.loc)
	if err != nil || last.Before(from) {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_date_range")
	}
	_, to := timezone.DayRange(last)
	return from, to, nil
}

func (r *Reports) period(ctx context.Context, from, to time.Time) (*PeriodReport, error) {
	orders, err := r.repo.CompletedWorkOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := r.repo.Expenses(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sales, err := r.repo.AccessorySales(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := &PeriodReport{
		Start:        from.In(r.loc).Format(timezone.DateLayout),
		End:          to.In(r.loc).AddDate(0, 0, -1).Format(timezone.DateLayout),
		WorkOrders:   make([]WorkOrderLine, 0, len(orders)),
		ExpenseItems: make([]models.Expense, 0, len(expenses)),
	}

	for _, wo := range orders {
		out.WorkOrders = append(out.WorkOrders, lineOf(wo))
		out.Revenue = out.Revenue.Add(wo.ActualTotalPrice)
		out.Cost = out.Cost.Add(wo.TotalCost)
		out.Profit = out.Profit.Add(wo.Profit)
	}
	out.WorkOrderCount = len(orders)

	for _, e := range expenses {
		out.ExpenseItems = append(out.ExpenseItems, e)
		out.Expenses = out.Expenses.Add(e.Amount)
	}

	for _, s := range sales {
		out.AccessoryRevenue = out.AccessoryRevenue.Add(s.TotalPrice)
		out.AccessoryProfit = out.AccessoryProfit.Add(s.Profit)
	}
	out.AccessorySaleCount = len(sales)

	// aksesuar fica de fora do net_kar
	out.NetProfit = out.Revenue.Sub(out.Cost).Sub(out.Expenses)

	return out, nil
}

func (r *Reports) Summary(ctx context.Context) (*Summary, error) {
	counts, err := r.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := r.repo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := r.repo.CompletedTotals(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := r.repo.ExpenseTotal(ctx)
	if err != nil {
		return nil, err
	}
	accessories, err := r.repo.AccessoryTotals(ctx)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		StatusCounts:       make(map[string]int64),
		CompletedCount:     completed.Count,
		CustomerCount:      customers,
		Revenue:            completed.Revenue,
		Cost:               completed.Cost,
		Profit:             completed.Profit,
		Expenses:           expenses,
		NetProfit:          completed.Revenue.Sub(completed.Cost).Sub(expenses),
		AccessorySaleCount: accessories.Count,
		AccessoryRevenue:   accessories.Revenue,
		AccessoryProfit:    accessories.Profit,
	}
	for _, s := range workorder.Statuses() {
		out.StatusCounts[string(s)] = 0
	}
	for status, n := range counts {
		out.StatusCounts[status] = n
		out.WorkOrderCount += n
	}

	return out, nil
}

// TicketProfit junta ordens concluídas e vendas de acessório, mais recentes primeiro.
// Sem datas, considera todo o histórico.
func (r *Reports) TicketProfit(ctx context.Context, start, end string) (*TicketProfitReport, error) {
	from := time.Time{}
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if start != "" || end != "" {
		var err error
		from, to, err = r.window(start, end)
		if err != nil {
			return nil, err
		}
	}

	orders, err := r.repo.CompletedWorkOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sales, err := r.repo.AccessorySales(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := &TicketProfitReport{
		Lines: make([]TicketProfitLine, 0, len(orders)+len(sales)),
	}

	for _, wo := range orders {
		l := lineOf(wo)
		ticket := wo.TicketNo
		out.Lines = append(out.Lines, TicketProfitLine{
			Source:       SourceWorkOrder,
			ID:           wo.ID,
			TicketNo:     &ticket,
			CustomerName: l.CustomerName,
			Description:  strings.TrimSpace(l.VehicleMakeModel + " " + l.Plate),
			Date:         l.CompletedAt,
			Revenue:      wo.ActualTotalPrice,
			Cost:         wo.TotalCost,
			Profit:       wo.Profit,
		})
	}

	for _, s := range sales {
		names := make([]string, 0, len(s.Items))
		for _, it := range s.Items {
			names = append(names, it.Name)
		}
		out.Lines = append(out.Lines, TicketProfitLine{
			Source:       SourceAccessory,
			ID:           s.ID,
			CustomerName: workorder.Deref(s.CustomerName),
			Description:  strings.Join(names, ", "),
			Date:         s.SaleDate,
			Revenue:      s.TotalPrice,
			Cost:         s.TotalCost,
			Profit:       s.Profit,
		})
	}

	sort.SliceStable(out.Lines, func(i, j int) bool {
		return out.Lines[i].Date.After(out.Lines[j].Date)
	})

	for _, l := range out.Lines {
		out.Revenue = out.Revenue.Add(l.Revenue)
		out.Cost = out.Cost.Add(l.Cost)
		out.Profit = out.Profit.Add(l.Profit)
	}

	return out, nil
}

func (r *Reports) OrderDetail(ctx context.Context, id uint) (*OrderDetail, error) {
	wo, err := r.repo.WorkOrderWithParts(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("work_order_not_found")
	}
	if err != nil {
		return nil, err
	}

	out := &OrderDetail{
		WorkOrder: wo,
		Parts:     make([]PartProfit, 0, len(wo.Parts)),
		Revenue:   wo.ActualTotalPrice,
		Cost:      wo.TotalCost,
		Profit:    wo.Profit,
	}
	for _, p := range wo.Parts {
		cost := p.Quantity.Mul(p.UnitCost).Round(2)
		out.Parts = append(out.Parts, PartProfit{
			WorkOrderPart: p,
			LineCost:      cost,
			LineProfit:    p.LineTotal.Sub(cost),
		})
	}

	return out, nil
}

func lineOf(wo models.WorkOrder) WorkOrderLine {
	at := wo.CreatedAt
	if wo.CompletedAt != nil {
		at = *wo.CompletedAt
	}
	return WorkOrderLine{
		ID:               wo.ID,
		TicketNo:         wo.TicketNo,
		CustomerName:     workorder.Deref(wo.CustomerName),
		VehicleMakeModel: workorder.Deref(wo.VehicleMakeModel),
		Plate:            workorder.Deref(wo.Plate),
		CompletedAt:      at,
		ActualTotalPrice: wo.ActualTotalPrice,
		TotalCost:        wo.TotalCost,
		Profit:           wo.Profit,
	}
}
