package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleOperator UserRole = "OPERATOR"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	CompanyID    uint `gorm:"index;not null;uniqueIndex:idx_users_company_username"`
	Company      Company
	Username     string   `gorm:"size:50;not null;uniqueIndex:idx_users_company_username"`
	PasswordHash string   `gorm:"size:255;not null"`
	FullName     string   `gorm:"size:100;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	IsActive     bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
