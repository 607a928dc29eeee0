package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a durable catalog row scoped to one owner.
type Category struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID           uuid.UUID `json:"owner_id" gorm:"type:uuid;index;not null"`
	Name              string    `json:"name" gorm:"not null"`
	ShowOnDigitalMenu bool      `json:"show_on_digital_menu"`
	ShowOnPOS         bool      `json:"show_on_pos"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Product struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID           uuid.UUID `json:"owner_id" gorm:"type:uuid;index;not null"`
	CategoryID        uuid.UUID `json:"category_id" gorm:"type:uuid;not null"`
	Name              string    `json:"name" gorm:"not null"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Currency          string    `json:"currency"`
	SKU               string    `json:"sku" gorm:"index"`
	ImageURL          string    `json:"image_url"`
	StockMin          int       `json:"stock_min"`
	StockMax          int       `json:"stock_max"`
	IsActive          bool      `json:"is_active"`
	ShowOnDigitalMenu bool      `json:"show_on_digital_menu"`
	ShowOnPOS         bool      `json:"show_on_pos"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// VariantType is a named customization axis (e.g. "Size") owned by one account.
type VariantType struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Variant is one option of a VariantType attached to a product
// (e.g. "Large", +2.00).
type Variant struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID       uuid.UUID `json:"product_id" gorm:"type:uuid;index;not null"`
	VariantTypeID   uuid.UUID `json:"variant_type_id" gorm:"type:uuid;not null"`
	Name            string    `json:"name" gorm:"not null"`
	PriceModifier   float64   `json:"price_modifier"`
	IsAbsolutePrice bool      `json:"is_absolute_price"`
	IsDefault       bool      `json:"is_default"`
	SortOrder       int       `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
}
