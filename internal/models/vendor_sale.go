package models

import "time"

// VendorSale: registro inmutable de una venta ambulante. Nunca se modifica después de crearse.
type VendorSale struct {
	ID          uint `gorm:"primaryKey"`
	CompanyID   uint `gorm:"index;not null"`
	Company     Company
	VendorID    uint `gorm:"index;not null"`
	Vendor      Vendor
	ReceiptCode string    `gorm:"size:36;uniqueIndex;not null"` // para la boleta impresa
	TotalAmount float64   `gorm:"not null"`
	SaleTime    time.Time `gorm:"index;not null"`
	CreatedAt   time.Time

	Items []VendorSaleItem `gorm:"foreignKey:VendorSaleID;constraint:OnDelete:CASCADE"`
}

type VendorSaleItem struct {
	ID           uint `gorm:"primaryKey"`
	VendorSaleID uint `gorm:"index;not null"`
	ProductID    uint `gorm:"index;not null"`
	Product      Product
	Quantity     int     `gorm:"not null"`
	UnitPrice    float64 `gorm:"not null"`
	Subtotal     float64 `gorm:"not null"` // Quantity * UnitPrice
	CreatedAt    time.Time
}
