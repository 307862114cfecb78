package rental

import (
	"strings"
	"time"

	"kiosko-backend/internal/auth"
	"kiosko-backend/internal/database"
	"kiosko-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

type ItemRequest struct {
	ProductID uint    `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"required,gt=0"`
}

type CreateRentalRequest struct {
	CustomerName    string        `json:"customerName" validate:"required,min=1,max=100"`
	CustomerIDPhoto string        `json:"customerIdPhoto" validate:"omitempty,url"`
	Items           []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateRentalRequest struct {
	CustomerName *string       `json:"customerName"`
	Items        []ItemRequest `json:"items" validate:"omitempty,dive"`
}

type AddItemsRequest struct {
	Items []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ModifyRentalRequest struct {
	ItemsToAdd    []ItemRequest `json:"itemsToAdd" validate:"omitempty,dive"`
	ItemsToRemove []uint        `json:"itemsToRemove"`
}

type ItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

type RentalResponse struct {
	ID              uint                `json:"id"`
	ReceiptCode     string              `json:"receiptCode"`
	CustomerName    string              `json:"customerName"`
	CustomerIDPhoto string              `json:"customerIdPhoto,omitempty"`
	Status          models.RentalStatus `json:"status"`
	TotalAmount     float64             `json:"totalAmount"`
	StartTime       string              `json:"startTime"`
	EndTime         *string             `json:"endTime"`
	OperatorName    string              `json:"operatorName,omitempty"`
	Items           []ItemResponse      `json:"items"`
}

type ModificationResponse struct {
	ID            uint    `json:"id"`
	UserName      string  `json:"userName"`
	ItemsAdded    int     `json:"itemsAdded"`
	ItemsRemoved  int     `json:"itemsRemoved"`
	PreviousTotal float64 `json:"previousTotal"`
	NewTotal      float64 `json:"newTotal"`
	ModifiedAt    string  `json:"modifiedAt"`
}

func toRentalResponse(r models.Rental) RentalResponse {
	items := make([]ItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	res := RentalResponse{
		ID:              r.ID,
		ReceiptCode:     r.ReceiptCode,
		CustomerName:    r.CustomerName,
		CustomerIDPhoto: r.CustomerIDPhoto,
		Status:          r.Status,
		TotalAmount:     r.TotalAmount,
		StartTime:       r.StartTime.Format("2006-01-02 15:04:05"),
		OperatorName:    r.User.FullName,
		Items:           items,
	}
	if r.EndTime != nil {
		s := r.EndTime.Format("2006-01-02 15:04:05")
		res.EndTime = &s
	}
	return res
}

func buildItems(items []ItemRequest) ([]models.RentalItem, float64) {
	rows := make([]models.RentalItem, 0, len(items))
	total := 0.0
	for _, it := range items {
		subtotal := float64(it.Quantity) * it.UnitPrice
		total += subtotal
		rows = append(rows, models.RentalItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  subtotal,
		})
	}
	return rows, total
}

// recomputeTotal vuelve a sumar todos los subtotales del arriendo. Nunca se ajusta
// por delta: la suma completa evita arrastrar errores de redondeo o ediciones cruzadas.
func recomputeTotal(tx *gorm.DB, rentalID uint) (float64, error) {
	var total float64
	err := tx.Model(&models.RentalItem{}).
		Where("rental_id = ?", rentalID).
		Select("COALESCE(SUM(subtotal), 0)").
		Scan(&total).Error
	return total, err
}

func findRental(c *fiber.Ctx, extraConds ...interface{}) (*models.Rental, error) {
	companyID, err := auth.CompanyID(c)
	if err != nil {
		return nil, err
	}

	q := database.DB.Where("id = ? AND company_id = ?", c.Params("id"), companyID)
	if len(extraConds) > 0 {
		q = q.Where(extraConds[0], extraConds[1:]...)
	}

	var r models.Rental
	if err := q.First(&r).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Arriendo no encontrado")
	}
	return &r, nil
}

func loadRental(id uint) models.Rental {
	var r models.Rental
	database.DB.
		Preload("Items.Product").
		Preload("User").
		First(&r, id)
	return r
}

func ListRentalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("company_id = ?", companyID)
		if status := c.Query("status"); status != "" {
			switch models.RentalStatus(status) {
			case models.RentalActive, models.RentalClosed, models.RentalVoided:
				q = q.Where("status = ?", status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Estado inválido (ACTIVE|CLOSED|VOIDED)")
			}
		}

		var rentals []models.Rental
		if err := q.Preload("Items.Product").Preload("User").Order("created_at desc").Find(&rentals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los arriendos")
		}

		res := make([]RentalResponse, 0, len(rentals))
		for _, r := range rentals {
			res = append(res, toRentalResponse(r))
		}

		return c.JSON(fiber.Map{"count": len(res), "rentals": res})
	}
}

func GetRentalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := findRental(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"rental": toRentalResponse(loadRental(r.ID))})
	}
}

func CreateRentalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateRentalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre del cliente y al menos un item (cantidad y precio > 0) son obligatorios")
		}

		items, total := buildItems(body.Items)

		rental := models.Rental{
			CompanyID:       companyID,
			UserID:          userID,
			ReceiptCode:     uuid.NewString(),
			CustomerName:    strings.TrimSpace(body.CustomerName),
			CustomerIDPhoto: body.CustomerIDPhoto,
			Status:          models.RentalActive,
			TotalAmount:     total,
			StartTime:       time.Now(),
			Items:           items,
		}

		// Cabecera e items se escriben juntos.
		if err := database.DB.Create(&rental).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el arriendo")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"rental": toRentalResponse(loadRental(rental.ID))})
	}
}

// PUT /api/rentals/:id — renombrar cliente y/o reemplazar los items completos
// mientras el arriendo siga activo.
func UpdateRentalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := findRental(c, "status = ?", models.RentalActive)
		if err != nil {
			return err
		}

		var body UpdateRentalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cada item necesita productId, cantidad y precio unitario mayores a 0")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if body.CustomerName != nil {
				name := strings.TrimSpace(*body.CustomerName)
				if name == "" {
					return fiber.NewError(fiber.StatusBadRequest, "El nombre del cliente no puede estar vacío")
				}
				r.CustomerName = name
			}

			if len(body.Items) > 0 {
				if err := tx.Where("rental_id = ?", r.ID).Delete(&models.RentalItem{}).Error; err != nil {
					return err
				}
				items, total := buildItems(body.Items)
				for i := range items {
					items[i].RentalID = r.ID
				}
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
				r.TotalAmount = total
			}

			return tx.Save(r).Error
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el arriendo")
		}

		return c.JSON(fiber.Map{"rental": toRentalResponse(loadRental(r.ID))})
	}
}

// PUT /api/rentals/:id/add-items
func AddItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := findRental(c, "status = ?", models.RentalActive)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body AddItemsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cada item necesita productId, cantidad y precio unitario mayores a 0")
		}

		previousTotal := r.TotalAmount

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			items, _ := buildItems(body.Items)
			for i := range items {
				items[i].RentalID = r.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}

			newTotal, err := recomputeTotal(tx, r.ID)
			if err != nil {
				return err
			}
			if err := tx.Model(r).Update("total_amount", newTotal).Error; err != nil {
				return err
			}

			return tx.Create(&models.RentalModification{
				RentalID:      r.ID,
				UserID:        userID,
				ItemsAdded:    len(items),
				ItemsRemoved:  0,
				PreviousTotal: previousTotal,
				NewTotal:      newTotal,
				ModifiedAt:    time.Now(),
			}).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron agregar los productos")
		}

		return c.JSON(fiber.Map{"rental": toRentalResponse(loadRental(r.ID))})
	}
}

// PUT /api/rentals/:id/modify — agregar y quitar items en una sola operación.
func ModifyRentalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := findRental(c, "status = ?", models.RentalActive)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ModifyRentalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cada item a agregar necesita productId, cantidad y precio unitario mayores a 0")
		}
		if len(body.ItemsToAdd) == 0 && len(body.ItemsToRemove) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Nada que modificar")
		}

		previousTotal := r.TotalAmount

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			removed := 0
			for _, itemID := range body.ItemsToRemove {
				res := tx.Where("id = ? AND rental_id = ?", itemID, r.ID).Delete(&models.RentalItem{})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Uno de los items a quitar no pertenece al arriendo")
				}
				removed++
			}

			if len(body.ItemsToAdd) > 0 {
				items, _ := buildItems(body.ItemsToAdd)
				for i := range items {
					items[i].RentalID = r.ID
				}
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}

			newTotal, err := recomputeTotal(tx, r.ID)
			if err != nil {
				return err
			}
			if err := tx.Model(r).Update("total_amount", newTotal).Error; err != nil {
				return err
			}

			return tx.Create(&models.RentalModification{
				RentalID:      r.ID,
				UserID:        userID,
				ItemsAdded:    len(body.ItemsToAdd),
				ItemsRemoved:  removed,
				PreviousTotal: previousTotal,
				NewTotal:      newTotal,
				ModifiedAt:    time.Now(),
			}).Error
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo modificar el arriendo")
		}

		return c.JSON(fiber.Map{"rental": toRentalResponse(loadRental(r.ID))})
	}
}

func ListModificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := findRental(c)
		if err != nil {
			return err
		}

		var mods []models.RentalModification
		if err := database.DB.
			Preload("User").
			Where("rental_id = ?", r.ID).
			Order("modified_at desc").
			Find(&mods).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo obtener el historial")
		}

		res := make([]ModificationResponse, 0, len(mods))
		for _, m := range mods {
			res = append(res, ModificationResponse{
				ID:            m.ID,
				UserName:      m.User.FullName,
				ItemsAdded:    m.ItemsAdded,
				ItemsRemoved:  m.ItemsRemoved,
				PreviousTotal: m.PreviousTotal,
				NewTotal:      m.NewTotal,
				ModifiedAt:    m.ModifiedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(fiber.Map{"modifications": res})
	}
}

// POST /api/rentals/:id/close — solo desde ACTIVE; después de esto los items son inmutables.
func CloseRentalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := findRental(c, "status = ?", models.RentalActive)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := database.DB.Model(r).Updates(map[string]interface{}{
			"status":   models.RentalClosed,
			"end_time": now,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cerrar el arriendo")
		}

		return c.JSON(fiber.Map{
			"message": "Arriendo cerrado exitosamente",
			"rental":  toRentalResponse(loadRental(r.ID)),
		})
	}
}

// DELETE /api/rentals/:id — anula el arriendo. Sin semántica de endTime.
func VoidRentalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := findRental(c)
		if err != nil {
			return err
		}

		if r.Status != models.RentalActive {
			return fiber.NewError(fiber.StatusBadRequest, "Solo se puede anular un arriendo activo")
		}

		if err := database.DB.Model(r).Update("status", models.RentalVoided).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo anular el arriendo")
		}

		return c.JSON(fiber.Map{"message": "Arriendo anulado exitosamente"})
	}
}

// GET /api/rentals/stats — KPIs del dashboard.
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		var activeRentals int64
		database.DB.Model(&models.Rental{}).
			Where("company_id = ? AND status = ?", companyID, models.RentalActive).
			Count(&activeRentals)

		now := time.Now()
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		var todayRentals int64
		database.DB.Model(&models.Rental{}).
			Where("company_id = ? AND created_at >= ?", companyID, todayStart).
			Count(&todayRentals)

		var todayRevenue float64
		database.DB.Model(&models.Rental{}).
			Where("company_id = ? AND status = ? AND created_at >= ?", companyID, models.RentalClosed, todayStart).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&todayRevenue)

		return c.JSON(fiber.Map{
			"stats": fiber.Map{
				"activeRentals": activeRentals,
				"todayRentals":  todayRentals,
				"todayRevenue":  todayRevenue,
			},
		})
	}
}
