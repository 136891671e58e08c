package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appErrors "github.com/unclebandit/storefront-backend/internal/errors"
	"github.com/unclebandit/storefront-backend/internal/model"
)

// Postgres error code for unique_violation.
const uniqueViolation = "23505"

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	GetByID(ctx context.Context, id int) (*model.Customer, error)
	Update(ctx context.Context, id int, upd model.CustomerUpdate) (*model.Customer, error)
	Delete(ctx context.Context, id int) error
}

// CustomerRepository is the gorm-backed implementation
type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

// GetByID fetches a customer by ID. A missing row yields (nil, nil).
func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	var c model.Customer
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // not found
		}
		return nil, translateError(id, err)
	}
	return &c, nil
}

// Update applies upd to the customer row and returns the stored result.
func (r *CustomerRepository) Update(ctx context.Context, id int, upd model.CustomerUpdate) (*model.Customer, error) {
	var c model.Customer
	res := r.DB.WithContext(ctx).
		Model(&c).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(upd.Columns())
	if res.Error != nil {
		return nil, translateError(id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	return &c, nil
}

// Delete removes the customer row.
func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	res := r.DB.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return translateError(id, res.Error)
	}
	if res.RowsAffected == 0 {
		return appErrors.NewCustomerNotFound(id)
	}
	return nil
}

// translateError maps ORM and driver failures onto the application's error taxonomy.
func translateError(id int, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErrors.NewCustomerNotFound(id)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return appErrors.ErrEmailExists
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return appErrors.ErrEmailExists
	}
	return fmt.Errorf("customer %d: %w", id, err)
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
