package models

import "time"

// Company: raíz de tenant. Todos los registros del negocio cuelgan de una empresa.
type Company struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"size:20;uniqueIndex;not null"` // código de acceso, ej: "BK-001"
	Name      string `gorm:"size:100;not null"`
	Location  string `gorm:"size:150"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
