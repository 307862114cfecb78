package report

import (
	"strconv"
	"time"

	"kiosko-backend/internal/auth"
	"kiosko-backend/internal/database"
	"kiosko-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// parseRange lee ?from y ?to (YYYY-MM-DD). Sin parámetros exporta el día de hoy.
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if s := c.Query("from"); s != "" {
		d, err := time.ParseInLocation("2006-01-02", s, now.Location())
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Formato de 'from' inválido, debe ser YYYY-MM-DD")
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.ParseInLocation("2006-01-02", s, now.Location())
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Formato de 'to' inválido, debe ser YYYY-MM-DD")
		}
		to = d.AddDate(0, 0, 1) // inclusivo
	}
	if !to.After(from) {
		return from, to, fiber.NewError(fiber.StatusBadRequest, "'to' debe ser posterior o igual a 'from'")
	}
	return from, to, nil
}

// GET /api/reports/sales/export — historial de arriendos cerrados y ventas
// ambulantes del rango, como planilla xlsx descargable.
func ExportSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyID(c)
		if err != nil {
			return err
		}

		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		var rentals []models.Rental
		if err := database.DB.
			Preload("Items.Product").
			Preload("User").
			Where("company_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
				companyID, models.RentalClosed, from, to).
			Order("created_at asc").
			Find(&rentals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron leer los arriendos")
		}

		var sales []models.VendorSale
		if err := database.DB.
			Preload("Items.Product").
			Preload("Vendor").
			Where("company_id = ? AND sale_time >= ? AND sale_time < ?", companyID, from, to).
			Order("sale_time asc").
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron leer las ventas")
		}

		f := excelize.NewFile()
		defer f.Close()

		rentalSheet := "Arriendos"
		f.SetSheetName(f.GetSheetName(0), rentalSheet)
		rentalHeaders := []string{"Boleta", "Cliente", "Operador", "Inicio", "Fin", "Items", "Total"}
		for i, h := range rentalHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(rentalSheet, cell, h)
		}
		for row, r := range rentals {
			itemCount := 0
			for _, it := range r.Items {
				itemCount += it.Quantity
			}
			endTime := ""
			if r.EndTime != nil {
				endTime = r.EndTime.Format("2006-01-02 15:04")
			}
			values := []interface{}{
				r.ReceiptCode,
				r.CustomerName,
				r.User.FullName,
				r.StartTime.Format("2006-01-02 15:04"),
				endTime,
				itemCount,
				r.TotalAmount,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(rentalSheet, cell, v)
			}
		}

		saleSheet := "Ventas"
		f.NewSheet(saleSheet)
		saleHeaders := []string{"Boleta", "Vendedor", "Hora", "Items", "Total"}
		for i, h := range saleHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(saleSheet, cell, h)
		}
		for row, s := range sales {
			itemCount := 0
			for _, it := range s.Items {
				itemCount += it.Quantity
			}
			values := []interface{}{
				s.ReceiptCode,
				s.Vendor.Name,
				s.SaleTime.Format("2006-01-02 15:04"),
				itemCount,
				s.TotalAmount,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(saleSheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar la planilla")
		}

		filename := "ventas_" + from.Format("2006-01-02") + "_" + to.AddDate(0, 0, -1).Format("2006-01-02") + ".xlsx"
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Set("Content-Length", strconv.Itoa(buf.Len()))
		return c.Send(buf.Bytes())
	}
}
