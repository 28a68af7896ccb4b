package dto

import (
	"time"

	"github.com/BruksfildServices01/oto-servis/internal/domain/workorder"
)

// ======================================================
// PARTS
// ======================================================

type PartRequest struct {
	PartCode    *string      `json:"part_code"`
	Description *string      `json:"description"`
	Quantity    LooseDecimal `json:"quantity"`
	UnitPrice   LooseDecimal `json:"unit_price"`
	UnitCost    LooseDecimal `json:"unit_cost"`
}

func (p PartRequest) Spec() workorder.PartSpec {
	return workorder.PartSpec{
		PartCode:    workorder.Blank(p.PartCode),
		Description: workorder.Blank(p.Description),
		Quantity:    p.Quantity.Null(),
		UnitPrice:   p.UnitPrice.Null(),
		UnitCost:    p.UnitCost.Null(),
	}
}

func PartSpecs(in []PartRequest) []workorder.PartSpec {
	out := make([]workorder.PartSpec, 0, len(in))
	for _, p := range in {
		out = append(out, p.Spec())
	}
	return out
}

// ======================================================
// WORK ORDER
// ======================================================

type WorkOrderFields struct {
	CustomerName     *string     `json:"customer_name"`
	CustomerAddress  *string     `json:"customer_address"`
	CustomerPhone    *string     `json:"customer_phone"`
	VehicleMakeModel *string     `json:"vehicle_make_model"`
	Plate            *string     `json:"plate"`
	Mileage          LooseString `json:"mileage"`

	Complaint   *string `json:"complaint"`
	Description *string `json:"description"`

	EstimatedDeliveryDate LooseDate    `json:"estimated_delivery_date"`
	EstimatedDeliveryDays LooseInt     `json:"estimated_delivery_days"`
	EstimatedPrice        LooseDecimal `json:"estimated_price"`
	PaymentDetail         *string      `json:"payment_detail"`
}

// Fields converte para o domínio; "" numérico vira zero.
func (f WorkOrderFields) Fields(loc *time.Location) (workorder.OrderFields, error) {
	delivery, err := f.EstimatedDeliveryDate.Time(loc)
	if err != nil {
		return workorder.OrderFields{}, err
	}

	return workorder.OrderFields{
		CustomerName:          f.CustomerName,
		CustomerAddress:       f.CustomerAddress,
		CustomerPhone:         f.CustomerPhone,
		VehicleMakeModel:      f.VehicleMakeModel,
		Plate:                 f.Plate,
		Mileage:               f.Mileage.Ptr(),
		Complaint:             f.Complaint,
		Description:           f.Description,
		EstimatedDeliveryDate: delivery,
		EstimatedDeliveryDays: f.EstimatedDeliveryDays.Value,
		EstimatedPrice:        f.EstimatedPrice.OrZero(),
		PaymentDetail:         f.PaymentDetail,
	}, nil
}

type CreateWorkOrderRequest struct {
	WorkOrderFields
	Parts []PartRequest `json:"parts"`
}

type UpdateWorkOrderRequest struct {
	WorkOrderFields

	Status             string    `json:"status" binding:"omitempty,workorder_status"`
	CustomerSignature  bool      `json:"customer_signature"`
	DeliveredTo        *string   `json:"delivered_to"`
	DeliveredBy        *string   `json:"delivered_by"`
	ActualDeliveryDate LooseDate `json:"actual_delivery_date"`

	// ausente = itens intocados
	Parts *[]PartRequest `json:"parts"`
}

func (r UpdateWorkOrderRequest) PartSpecs() *[]workorder.PartSpec {
	if r.Parts == nil {
		return nil
	}
	specs := PartSpecs(*r.Parts)
	return &specs
}
