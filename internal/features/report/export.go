package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportListing writes the report listing into an xlsx workbook
func (s *ReportServiceImpl) ExportListing(ctx context.Context) ([]byte, string, error) {
	result, err := s.ListReports(ctx, ListQuery{Limit: 100})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reports"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Template", "Description", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range result.Rows {
		values := []interface{}{row.Name, row.TemplateName, row.Description, row.CreatedAt.Format(time.RFC3339)}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("reports_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
