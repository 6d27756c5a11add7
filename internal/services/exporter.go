package services

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
)

// BuildReportPDF renders a completed report as a fixed-schema table. Pure
// function of the report and the clock; any renderer failure is returned.
func BuildReportPDF(report models.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "HairCare AI - Analysis Report")
	pdf.Ln(16)

	rows := [][2]string{
		{"Patient Name", report.PatientName},
		{"Assigned Doctor", "Dr. " + report.DoctorID},
		{"Baldness Stage", report.BaldnessStage},
		{"Status", "Verified/Processed"},
		{"Date", time.Now().Format("2006-01-02")},
	}

	pdf.SetFont("Arial", "", 12)
	for _, row := range rows {
		pdf.SetFillColor(241, 245, 249)
		pdf.CellFormat(60, 10, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(120, 10, row[1], "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
