package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"parkwatch/internal/service"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportHandler exports admin reports.
type ReportHandler struct {
	violationService service.ViolationService
	logger           *zap.Logger
}

func NewReportHandler(violationService service.ViolationService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{violationService: violationService, logger: logger}
}

var violationExportHeader = []string{
	"Ticket ID",
	"Province",
	"License Plate",
	"Reason",
	"Time",
	"Lot ID",
	"Status",
}

const violationExportPageSize = 1000

// ExportViolations streams the filtered violation list as an Excel workbook.
func (h *ReportHandler) ExportViolations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.ListViolationsRequest{
		Status:       q.Get("status"),
		Province:     q.Get("province"),
		LicensePlate: q.Get("licensePlate"),
		Page:         1,
		Size:         violationExportPageSize,
	}

	var rows []*service.ViolationDTO
	for {
		resp, err := h.violationService.ListViolations(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		rows = append(rows, resp.Violations...)
		if len(rows) >= resp.Total || len(resp.Violations) == 0 {
			break
		}
		req.Page++
	}

	data, err := generateViolationExcel(rows)
	if err != nil {
		h.logger.Error("violation export failed", zap.Error(err))
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("violations-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func generateViolationExcel(rows []*service.ViolationDTO) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Violations"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range violationExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, v := range rows {
		values := []any{v.TicketID, v.Province, v.LicensePlate, v.Reason, v.Time, v.LotID, v.Status}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	f.Close()
	return buf.Bytes(), nil
}
