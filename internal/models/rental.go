package models

import "time"

type RentalStatus string

const (
	RentalActive RentalStatus = "ACTIVE"
	RentalClosed RentalStatus = "CLOSED"
	RentalVoided RentalStatus = "VOIDED"
)

type Rental struct {
	ID              uint `gorm:"primaryKey"`
	CompanyID       uint `gorm:"index;not null"`
	Company         Company
	UserID          uint `gorm:"index;not null"` // operador que registró el arriendo
	User            User
	ReceiptCode     string       `gorm:"size:36;uniqueIndex;not null"`
	CustomerName    string       `gorm:"size:100;not null"`
	CustomerIDPhoto string       `gorm:"size:255"` // URL de la foto del carnet, opcional
	Status          RentalStatus `gorm:"size:20;index;not null;default:ACTIVE"`
	TotalAmount     float64      `gorm:"not null"` // siempre = suma de subtotales de los items
	StartTime       time.Time    `gorm:"not null"`
	EndTime         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []RentalItem `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE"`
}

type RentalItem struct {
	ID        uint `gorm:"primaryKey"`
	RentalID  uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`
	Subtotal  float64 `gorm:"not null"`
	CreatedAt time.Time
}

// RentalModification: historial de cambios sobre un arriendo activo.
type RentalModification struct {
	ID            uint `gorm:"primaryKey"`
	RentalID      uint `gorm:"index;not null"`
	UserID        uint `gorm:"not null"`
	User          User
	ItemsAdded    int       `gorm:"not null"`
	ItemsRemoved  int       `gorm:"not null"`
	PreviousTotal float64   `gorm:"not null"`
	NewTotal      float64   `gorm:"not null"`
	ModifiedAt    time.Time `gorm:"index;not null"`
}
