package service

import (
	"fmt"

	"finance-import/internal/models"

	"github.com/xuri/excelize/v2"
)

// WriteErrorReport renders a finished import's counts and per-row error
// messages to an xlsx file the user can review. Writing the report never
// changes the import outcome already obtained.
func WriteErrorReport(result models.ImportResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Summary block
	f.SetCellValue(sheetName, "A1", "Imported")
	f.SetCellValue(sheetName, "B1", result.Imported)
	f.SetCellValue(sheetName, "A2", "Skipped")
	f.SetCellValue(sheetName, "B2", result.Skipped)
	f.SetCellValue(sheetName, "A3", "Errors")
	f.SetCellValue(sheetName, "B3", len(result.Errors))

	// One error message per row
	f.SetCellValue(sheetName, "A5", "Row Errors")
	for i, msg := range result.Errors {
		cell := fmt.Sprintf("A%d", 6+i)
		f.SetCellValue(sheetName, cell, msg)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", "A3", headerStyle)
	f.SetCellStyle(sheetName, "A5", "A5", headerStyle)

	f.SetColWidth(sheetName, "A", "A", 60)

	f.SetActiveSheet(index)

	return f.SaveAs(outputPath)
}
