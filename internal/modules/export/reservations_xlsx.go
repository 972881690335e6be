package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	reservationdomain "restauReserva/internal/modules/reservations/domain"
	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/shared/identity"
)

const SheetName = "Reservations"

var headers = []string{"ID", "Code", "Restaurant", "City", "Date", "Customer", "Email", "DNI"}

// WriteReservations renders reservations as an xlsx workbook ordered by date, then id.
// Restaurant names come from the embedded restaurant or, failing that, from restaurants.
func WriteReservations(w io.Writer, reservations []reservationdomain.Reservation, restaurants []restaurantdomain.Restaurant, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetCellValue(SheetName, "A1", "Generated "+generatedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for col, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := f.SetCellValue(SheetName, cell, title); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 2)
	if err := f.SetCellStyle(SheetName, "A2", lastHeader, headerStyle); err != nil {
		return err
	}

	byID := make(map[identity.ID]restaurantdomain.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}

	rows := reservationdomain.CloneReservations(reservations)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].ID < rows[j].ID
	})

	for i, res := range rows {
		restaurant, ok := byID[res.RestaurantID]
		if res.Restaurant != nil {
			restaurant, ok = *res.Restaurant, true
		}
		name, city := res.RestaurantID.String(), ""
		if ok {
			name, city = restaurant.Name, restaurant.City
		}
		values := []any{res.ID.String(), res.Code, name, city, res.Date, res.CustomerName, res.CustomerEmail, res.CustomerDNI}
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+3, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "H", 18); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName is the attachment name for an export generated at t.
func FileName(t time.Time) string {
	return "reservations-" + t.UTC().Format("2006-01-02") + ".xlsx"
}
