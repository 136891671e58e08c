// internal/model/customer.go
package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Customer struct {
	ID        int               `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Email     string            `gorm:"uniqueIndex;not null" json:"email"`
	Phone     *string           `json:"phone"`
	Address   datatypes.JSONMap `gorm:"type:jsonb" json:"address"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}

// NormalizeEmail lower-cases and trims an address before it is written.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CustomerView is the shape returned to API clients.
type CustomerView struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Address   map[string]any `json:"address"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// View projects a stored customer, defaulting a null phone to "" and a null address to {}.
func (c *Customer) View() CustomerView {
	v := CustomerView{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Address:   map[string]any{},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Phone != nil {
		v.Phone = *c.Phone
	}
	if c.Address != nil {
		v.Address = map[string]any(c.Address)
	}
	return v
}

// CustomerUpdate carries the fields a PUT is allowed to change. A nil field is left untouched;
// ClearPhone distinguishes an explicit null from an absent phone key.
type CustomerUpdate struct {
	Name       *string
	Email      *string
	Phone      *string
	ClearPhone bool
	Address    map[string]any
}

// Empty reports whether the update would not change any column.
func (u CustomerUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && !u.ClearPhone && u.Address == nil
}

// Columns converts the update into a gorm column map. A cleared phone maps to NULL.
func (u CustomerUpdate) Columns() map[string]any {
	cols := map[string]any{}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	if u.ClearPhone {
		cols["phone"] = nil
	} else if u.Phone != nil {
		cols["phone"] = *u.Phone
	}
	if u.Address != nil {
		cols["address"] = datatypes.JSONMap(u.Address)
	}
	return cols
}
