// Package export writes the visible job list with its loaded match scores to
// an Excel workbook.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// ScoreLookup resolves a job's cached match score. The second return is
// false while the score has not settled yet.
type ScoreLookup func(jobID int) (int, bool)

// ExportToExcel writes one row per job to an xlsx workbook, with the cached
// match score where one has loaded. Jobs without a settled score get a blank
// score cell rather than a misleading zero.
func ExportToExcel(jobs []types.Job, scores ScoreLookup, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	sheet := "Jobs"
	f.SetSheetName("Sheet1", sheet)

	if err := writeJobsSheet(f, sheet, jobs, scores); err != nil {
		return fmt.Errorf("failed to create jobs sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func writeJobsSheet(f *excelize.File, sheetName string, jobs []types.Job, scores ScoreLookup) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"ID", "Title", "Company", "Location", "Type", "Salary", "Match %"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	lastCol, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol, headerStyle); err != nil {
		return err
	}

	for i, job := range jobs {
		row := i + 2
		values := []interface{}{job.ID, job.Title, job.Company, job.Location, job.Type, job.Salary}
		if score, ok := scores(job.ID); ok {
			values = append(values, score)
		} else {
			values = append(values, "")
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	// Column widths for readability
	f.SetColWidth(sheetName, "B", "C", 30)
	f.SetColWidth(sheetName, "D", "F", 18)

	// Freeze the header row and let the user filter in place
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}
	filterRange := fmt.Sprintf("A1:%s", lastCol)
	return f.AutoFilter(sheetName, filterRange, nil)
}
