package catalog

import (
	"strings"

	"kiosko-backend/internal/auth"
	"kiosko-backend/internal/database"
	"kiosko-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateProductRequest struct {
	Name        string                 `json:"name" validate:"required,min=1,max=100"`
	Description string                 `json:"description" validate:"max=255"`
	Price       float64                `json:"price" validate:"required,gt=0"`
	Category    models.ProductCategory `json:"category" validate:"required,oneof=RENTAL VENDOR"`
}

type UpdateProductRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Price       *float64                `json:"price"`
	Category    *models.ProductCategory `json:"category"`
	IsActive    *bool                   `json:"isActive"`
}

type ProductResponse struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       float64                `json:"price"`
	Category    models.ProductCategory `json:"category"`
	IsActive    bool                   `json:"isActive"`
	CreatedAt   string                 `json:"createdAt"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/products?category=RENTAL&isActive=true
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("company_id = ?", companyID)

		if cat := c.Query("category"); cat != "" {
			switch models.ProductCategory(cat) {
			case models.CategoryRental, models.CategoryVendor:
				q = q.Where("category = ?", cat)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Categoría inválida (RENTAL|VENDOR)")
			}
		}
		if active := c.Query("isActive"); active != "" {
			q = q.Where("is_active = ?", active == "true")
		}

		var products []models.Product
		if err := q.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los productos")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}

		return c.JSON(fiber.Map{"count": len(res), "products": res})
	}
}

func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.Where("id = ? AND company_id = ?", c.Params("id"), companyID).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		return c.JSON(fiber.Map{"product": toProductResponse(product)})
	}
}

func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre, precio (> 0) y categoría (RENTAL|VENDOR) son obligatorios")
		}

		product := models.Product{
			CompanyID:   companyID,
			Name:        strings.TrimSpace(body.Name),
			Description: body.Description,
			Price:       body.Price,
			Category:    body.Category,
			IsActive:    true,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el producto")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": toProductResponse(product)})
	}
}

func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.Where("id = ? AND company_id = ?", c.Params("id"), companyID).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El nombre no puede estar vacío")
			}
			product.Name = name
		}
		if body.Description != nil {
			product.Description = *body.Description
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "El precio debe ser mayor a 0")
			}
			product.Price = *body.Price
		}
		if body.Category != nil {
			switch *body.Category {
			case models.CategoryRental, models.CategoryVendor:
				product.Category = *body.Category
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Categoría inválida (RENTAL|VENDOR)")
			}
		}
		if body.IsActive != nil {
			product.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el producto")
		}

		return c.JSON(fiber.Map{"product": toProductResponse(product)})
	}
}

// DELETE /api/products/:id — soft delete: el producto queda inactivo pero las ventas
// y arriendos históricos siguen apuntando a él.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.Where("id = ? AND company_id = ?", c.Params("id"), companyID).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		if err := database.DB.Model(&product).Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el producto")
		}

		return c.JSON(fiber.Map{"message": "Producto eliminado"})
	}
}
