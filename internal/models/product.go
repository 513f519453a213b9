package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Currency is the ISO code of a product price.
type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// DefaultCurrency is applied to products created without one.
const DefaultCurrency = CurrencyMXN

// ProductStatus is the lifecycle marker of a product.
type ProductStatus string

const (
	StatusNew       ProductStatus = "NEW"
	StatusPublished ProductStatus = "PUBLISHED"
	StatusArchived  ProductStatus = "ARCHIVED"
)

// ProductDeleted is the soft-delete marker. Deleting a product flips the
// marker to SoftDeleted; the row stays in the store.
type ProductDeleted string

const (
	NotDeleted  ProductDeleted = "CREATED"
	SoftDeleted ProductDeleted = "DELETED"
)

// Product represents a product in the store catalog.
// Description holds the last normalized rich-text content; the category
// is referenced by id only and resolved through the category repository
// when needed.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SKU         string          `json:"sku" gorm:"uniqueIndex;type:varchar(64)" validate:"required,min=3,max=64"`
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" gorm:"type:text" validate:"omitempty,max=8000"`
	Currency    Currency        `json:"currency" gorm:"type:varchar(3)" validate:"omitempty,oneof=MXN USD EUR"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url" gorm:"type:varchar(255)"`
	Active      bool            `json:"active"`
	Status      ProductStatus   `json:"status" gorm:"type:varchar(16)"`
	Deleted     ProductDeleted  `json:"deleted" gorm:"type:varchar(16)"`
	CategoryID  string          `json:"category_id" gorm:"index;type:varchar(36)" validate:"omitempty,uuid"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate applies the creation defaults through GORM.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.ApplyCreationDefaults()
	return nil
}

// ApplyCreationDefaults sets the state every product starts with: active,
// zero stock, status NEW and an unset delete marker. The currency falls
// back to the store default when the request omits it. Exported so
// non-GORM repositories apply the same rules as the BeforeCreate hook.
func (p *Product) ApplyCreationDefaults() {
	p.Active = true
	p.Stock = 0
	p.Status = StatusNew
	p.Deleted = NotDeleted
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
}
