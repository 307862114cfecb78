package models

import "time"

type ProductCategory string

const (
	CategoryRental ProductCategory = "RENTAL" // sillas, sombrillas, carpas
	CategoryVendor ProductCategory = "VENDOR" // lo que venden los vendedores ambulantes
)

type Product struct {
	ID          uint `gorm:"primaryKey"`
	CompanyID   uint `gorm:"index;not null"`
	Company     Company
	Name        string          `gorm:"size:100;not null"`
	Description string          `gorm:"size:255"`
	Price       float64         `gorm:"not null"`
	Category    ProductCategory `gorm:"size:20;not null"`
	IsActive    bool            `gorm:"not null;default:true"` // soft delete
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
