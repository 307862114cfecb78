package models

import "time"

type VendorStatus string

const (
	VendorActive   VendorStatus = "ACTIVE"   // turno abierto
	VendorInactive VendorStatus = "INACTIVE" // sin turno
	VendorOnBreak  VendorStatus = "ON_BREAK" // pausa manual, no participa del ciclo de turno
)

type Vendor struct {
	ID              uint `gorm:"primaryKey"`
	CompanyID       uint `gorm:"index;not null"`
	Company         Company
	Name            string       `gorm:"size:100;not null"`
	Phone           string       `gorm:"size:50"`
	Status          VendorStatus `gorm:"size:20;not null;default:INACTIVE"`
	TotalSalesToday float64      `gorm:"not null;default:0"` // se resetea al cerrar turno
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Assignments []InventoryAssignment `gorm:"foreignKey:VendorID"`
}

// InventoryAssignment: libro de inventario por turno. Una fila por (vendedor, producto, turno).
// Invariante: a lo sumo una fila activa por par (vendedor, producto).
type InventoryAssignment struct {
	ID               uint `gorm:"primaryKey"`
	VendorID         uint `gorm:"index;not null"`
	Vendor           Vendor
	ProductID        uint `gorm:"index;not null"`
	Product          Product
	QuantityAssigned int        `gorm:"not null"`
	QuantitySold     int        `gorm:"not null;default:0"`
	QuantityReturned int        `gorm:"not null;default:0"` // se calcula al cerrar
	IsActive         bool       `gorm:"index;not null;default:true"`
	ClosedAt         *time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
