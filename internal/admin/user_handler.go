package admin

import (
	"strings"

	"kiosko-backend/internal/auth"
	"kiosko-backend/internal/database"
	"kiosko-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type CreateUserRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=50"`
	Password string          `json:"password" validate:"required,min=6"`
	FullName string          `json:"fullName" validate:"required,min=1,max=100"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN OPERATOR"`
}

type UpdateUserRequest struct {
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password"`
}

type UserResponse struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	FullName  string          `json:"fullName"`
	Role      models.UserRole `json:"role"`
	IsActive  bool            `json:"isActive"`
	CreatedAt string          `json:"createdAt"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var users []models.User
		if err := database.DB.
			Where("company_id = ?", companyID).
			Order("created_at desc").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los usuarios")
		}

		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			res = append(res, toUserResponse(u))
		}

		return c.JSON(res)
	}
}

func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Username, contraseña (mín. 6), nombre y rol (ADMIN|OPERATOR) son obligatorios")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		var count int64
		database.DB.Model(&models.User{}).
			Where("company_id = ? AND username = ?", companyID, body.Username).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre de usuario ya existe")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
		}

		user := models.User{
			CompanyID:    companyID,
			Username:     body.Username,
			PasswordHash: string(hash),
			FullName:     body.FullName,
			Role:         body.Role,
			IsActive:     true,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario")
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Where("id = ? AND company_id = ?", c.Params("id"), companyID).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}

		if body.IsActive != nil {
			user.IsActive = *body.IsActive
		}
		if body.Password != nil {
			if len(*body.Password) < 6 {
				return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 6 caracteres")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
			}
			user.PasswordHash = string(hash)
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el usuario")
		}

		return c.JSON(toUserResponse(user))
	}
}
