package workorder

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

// OrderFields são os campos comuns a criação e atualização.
type OrderFields struct {
	CustomerName     *string
	CustomerAddress  *string
	CustomerPhone    *string
	VehicleMakeModel *string
	Plate            *string
	Mileage          *string

	Complaint   *string
	Description *string

	EstimatedDeliveryDate *time.Time
	EstimatedDeliveryDays int
	EstimatedPrice        decimal.Decimal
	PaymentDetail         *string
}

// Normalize troca string vazia por ausente.
func (f OrderFields) Normalize() OrderFields {
	f.CustomerName = Blank(f.CustomerName)
	f.CustomerAddress = Blank(f.CustomerAddress)
	f.CustomerPhone = Blank(f.CustomerPhone)
	f.VehicleMakeModel = Blank(f.VehicleMakeModel)
	f.Plate = Blank(f.Plate)
	f.Mileage = Blank(f.Mileage)
	f.Complaint = Blank(f.Complaint)
	f.Description = Blank(f.Description)
	f.PaymentDetail = Blank(f.PaymentDetail)
	return f
}

func (f OrderFields) ApplyTo(wo *models.WorkOrder) {
	wo.CustomerName = f.CustomerName
	wo.CustomerAddress = f.CustomerAddress
	wo.CustomerPhone = f.CustomerPhone
	wo.VehicleMakeModel = f.VehicleMakeModel
	wo.Plate = f.Plate
	wo.Mileage = f.Mileage
	wo.Complaint = f.Complaint
	wo.Description = f.Description
	wo.EstimatedDeliveryDate = f.EstimatedDeliveryDate
	wo.EstimatedDeliveryDays = f.EstimatedDeliveryDays
	wo.EstimatedPrice = f.EstimatedPrice
	wo.PaymentDetail = f.PaymentDetail
}

func Blank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
