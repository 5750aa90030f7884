package libs

import (
	"io"
	"strings"

	"storefront/models"

	"github.com/tealeg/xlsx"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var productExportHeaders = []string{
	"ID", "Name", "Slug", "Unit", "Stock", "Price", "Discount", "DiscountedPrice",
	"Published", "Categories", "SubCategories", "Images", "CreatedAt", "UpdatedAt",
}

// WriteProductsXLSX writes one sheet with a header row and a row per product.
func WriteProductsXLSX(w io.Writer, products []models.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range productExportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.String())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Slug)
		row.AddCell().SetValue(p.Unit)
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.Price.InexactFloat64())
		row.AddCell().SetValue(p.Discount.InexactFloat64())
		row.AddCell().SetValue(p.DiscountedPrice.InexactFloat64())
		row.AddCell().SetValue(p.Publish)
		row.AddCell().SetValue(joinIDs(p.CategoryIDs))
		row.AddCell().SetValue(joinIDs(p.SubCategoryIDs))
		row.AddCell().SetValue(strings.Join(p.Images, ","))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

func joinIDs[T interface{ String() string }](ids []T) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}
