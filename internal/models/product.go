package models

import (
	"strconv"
	"time"

	"github.com/welldanyogia/webrana-attachments/internal/attachment"
)

// ProductRecordType names products in the attachment registry
const ProductRecordType = "product"

// Product is a catalogue item with a single image. It uses the built-in
// image field configuration and the default hashed file names.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SKU       string    `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Image     string    `gorm:"size:500" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for Product
func (Product) TableName() string {
	return "products"
}

// RecordType returns ProductRecordType
func (p *Product) RecordType() string { return ProductRecordType }

// RecordID returns the primary key as a string, empty before the first insert
func (p *Product) RecordID() string {
	if p.ID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(p.ID), 10)
}

// HasField reports whether field is the product image column
func (p *Product) HasField(field string) bool {
	return field == attachment.DefaultField
}

// Field returns the stored relative path of the image
func (p *Product) Field(field string) string {
	if field == attachment.DefaultField {
		return p.Image
	}
	return ""
}

// SetField sets the image path; other fields are ignored
func (p *Product) SetField(field, value string) {
	if field == attachment.DefaultField {
		p.Image = value
	}
}
