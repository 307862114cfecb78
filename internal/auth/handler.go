package auth

import (
	"strings"

	"kiosko-backend/internal/config"
	"kiosko-backend/internal/database"
	"kiosko-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type RegisterCompanyRequest struct {
	CompanyCode   string `json:"companyCode" validate:"required,min=3,max=20"`
	CompanyName   string `json:"companyName" validate:"required,min=1,max=100"`
	Location      string `json:"location" validate:"max=150"`
	AdminUsername string `json:"adminUsername" validate:"required,min=3,max=50"`
	AdminPassword string `json:"adminPassword" validate:"required,min=6"`
	AdminFullName string `json:"adminFullName" validate:"required,min=1,max=100"`
}

type LoginRequest struct {
	CompanyID string `json:"companyId" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// RegisterCompanyHandler da de alta una empresa junto con su primer usuario ADMIN.
func RegisterCompanyHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos incompletos: código, nombre y credenciales del admin son obligatorios")
		}

		body.CompanyCode = strings.TrimSpace(strings.ToUpper(body.CompanyCode))
		body.AdminUsername = strings.TrimSpace(strings.ToLower(body.AdminUsername))

		var count int64
		database.DB.Model(&models.Company{}).
			Where("code = ?", body.CompanyCode).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ya existe una empresa con ese código")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
		}

		company := models.Company{
			Code:     body.CompanyCode,
			Name:     body.CompanyName,
			Location: body.Location,
		}
		admin := models.User{
			Username:     body.AdminUsername,
			PasswordHash: string(hash),
			FullName:     body.AdminFullName,
			Role:         models.RoleAdmin,
			IsActive:     true,
		}

		// Empresa y admin se crean juntos o no se crea nada.
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&company).Error; err != nil {
				return err
			}
			admin.CompanyID = company.ID
			return tx.Create(&admin).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear la empresa")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"company": fiber.Map{
				"id":        company.ID,
				"companyId": company.Code,
				"name":      company.Name,
				"location":  company.Location,
			},
			"admin": fiber.Map{
				"id":       admin.ID,
				"username": admin.Username,
				"role":     admin.Role,
			},
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "companyId, username y password son obligatorios")
		}

		body.CompanyID = strings.TrimSpace(strings.ToUpper(body.CompanyID))
		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		// Empresa, usuario y contraseña fallan con el mismo mensaje para no filtrar existencia.
		var company models.Company
		if err := database.DB.Where("code = ?", body.CompanyID).First(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
		}

		var user models.User
		if err := database.DB.Where("company_id = ? AND username = ?", company.ID, body.Username).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
		}

		if !user.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario deshabilitado")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":       user.ID,
				"username": user.Username,
				"fullName": user.FullName,
				"role":     user.Role,
				"company": fiber.Map{
					"id":        company.ID,
					"companyId": company.Code,
					"name":      company.Name,
					"location":  company.Location,
				},
			},
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Preload("Company").First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}

		return c.JSON(fiber.Map{
			"user": fiber.Map{
				"id":       user.ID,
				"username": user.Username,
				"fullName": user.FullName,
				"role":     user.Role,
				"isActive": user.IsActive,
				"company": fiber.Map{
					"id":        user.Company.ID,
					"companyId": user.Company.Code,
					"name":      user.Company.Name,
					"location":  user.Company.Location,
				},
			},
		})
	}
}
