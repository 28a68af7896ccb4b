package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

// FindByPhone devolve (nil, nil) quando não existe.
func (r *CustomerGormRepository) FindByPhone(
	ctx context.Context,
	phone string,
) (*models.Customer, error) {

	var c models.Customer
	err := r.db.WithContext(ctx).
		Where("phone = ?", strings.TrimSpace(phone)).
		Order("id ASC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerGormRepository) FindByID(
	ctx context.Context,
	id uint,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerGormRepository) Create(ctx context.Context, c *models.Customer) error {
	c.Phone = strings.TrimSpace(c.Phone)
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerGormRepository) Update(ctx context.Context, c *models.Customer) error {
	c.Phone = strings.TrimSpace(c.Phone)
	return r.db.WithContext(ctx).
		Model(c).
		Select("full_name", "address", "phone").
		Updates(c).Error
}

// Delete desvincula as ordens antes de remover o cliente.
func (r *CustomerGormRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WorkOrder{}).
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Customer{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// Search busca por nome ou telefone, sem diferenciar maiúsculas.
func (r *CustomerGormRepository) Search(
	ctx context.Context,
	query string,
	limit int,
) ([]models.Customer, error) {

	q := r.db.WithContext(ctx).Model(&models.Customer{})

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(phone) LIKE ?", like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Customer
	if err := q.Order("full_name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerGormRepository) List(
	ctx context.Context,
	page int,
	limit int,
) ([]models.Customer, int64, error) {

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Customer
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Upsert atualiza nome/endereço de quem já tem o telefone, ou cria um novo.
// Campo vazio no snapshot não apaga o que já está gravado.
func (r *CustomerGormRepository) Upsert(
	ctx context.Context,
	phone string,
	name string,
	address string,
) (*models.Customer, error) {

	existing, err := r.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		changes := map[string]any{}
		if name != "" {
			existing.FullName = name
			changes["full_name"] = name
		}
		if address != "" {
			existing.Address = address
			changes["address"] = address
		}
		if len(changes) == 0 {
			return existing, nil
		}
		if err := r.db.WithContext(ctx).
			Model(existing).
			Updates(changes).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	c := &models.Customer{
		FullName: name,
		Address:  address,
		Phone:    phone,
	}
	if err := r.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
