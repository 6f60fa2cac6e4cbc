package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
)

const (
	candidatesSheet = "Candidates"
	summarySheet    = "Summary"
)

var candidateHeaders = []string{
	"ID", "Full name", "Email", "Status", "Step", "Stage",
	"Resume", "About me video", "Sales pitch video", "Application submitted",
	"Location", "Phone", "Region", "Created", "Updated",
}

// CandidatesXLSX строит выгрузку кандидатов: лист со списком и сводку по этапам.
func CandidatesXLSX(candidates []*entity.Candidate, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", candidatesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	if err := writeCandidates(f, candidates); err != nil {
		return nil, fmt.Errorf("export: лист кандидатов: %w", err)
	}
	if err := writeSummary(f, candidates, generatedAt); err != nil {
		return nil, fmt.Errorf("export: сводка: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: не удалось записать файл: %w", err)
	}
	return buf.Bytes(), nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeCandidates(f *excelize.File, candidates []*entity.Candidate) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	for i, h := range candidateHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(candidatesSheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err := f.SetCellStyle(candidatesSheet, "A1", last, style); err != nil {
		return err
	}
	_ = f.SetColWidth(candidatesSheet, "A", "A", 38)
	_ = f.SetColWidth(candidatesSheet, "B", "C", 28)
	_ = f.SetColWidth(candidatesSheet, "D", "F", 20)

	for i, c := range candidates {
		view := c.View()
		row := []any{
			c.ID.String(),
			c.FullName,
			c.Email,
			view.Badge.Label,
			int(view.Step),
			view.Stage.Name,
			deref(c.ResumeURL),
			deref(c.AboutMeVideoURL),
			deref(c.SalesPitchVideoURL),
			yesNo(view.ApplicationSubmitted),
			deref(c.Location),
			deref(c.Phone),
			deref(c.Region),
			c.CreatedAt.Format(time.DateTime),
			c.UpdatedAt.Format(time.DateTime),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(candidatesSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, candidates []*entity.Candidate, generatedAt time.Time) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)

	counts := StageCounts(candidates)

	_ = f.SetCellValue(summarySheet, "A1", "Generated")
	_ = f.SetCellValue(summarySheet, "B1", generatedAt.Format(time.DateTime))
	_ = f.SetCellValue(summarySheet, "A2", "Total")
	_ = f.SetCellValue(summarySheet, "B2", len(candidates))

	_ = f.SetCellValue(summarySheet, "A4", "Stage")
	_ = f.SetCellValue(summarySheet, "B4", "Candidates")
	if err := f.SetCellStyle(summarySheet, "A4", "B4", style); err != nil {
		return err
	}

	row := 5
	for step := pipeline.StepProfileCreated; step <= pipeline.StepClosed; step++ {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), pipeline.StageInfo(step).Name)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), counts[step])
		row++
	}
	return nil
}

// StageCounts считает кандидатов по шагам с учётом статуса.
func StageCounts(candidates []*entity.Candidate) map[pipeline.Step]int {
	counts := make(map[pipeline.Step]int, 8)
	for _, c := range candidates {
		counts[c.Step()]++
	}
	return counts
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
