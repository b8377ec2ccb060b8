package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leasescan/leasescan/internal/clauses"
	"github.com/leasescan/leasescan/internal/risk"
)

// BuildWorkbook renders the deal workbook: a summary header plus Clauses and
// Risk Flags sheets. Uploaded alongside the text report for spreadsheet users.
func BuildWorkbook(cs clauses.ClauseSet, rs risk.RiskSet, meta Meta) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, cs, rs, meta); err != nil {
		return nil, err
	}
	if err := writeClausesSheet(f, cs); err != nil {
		return nil, err
	}
	if err := writeRisksSheet(f, rs); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, cs clauses.ClauseSet, rs risk.RiskSet, meta Meta) error {
	const sheet = "Summary"
	// excelize starts with "Sheet1": rename it so the workbook opens on Summary
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	score := "not scored"
	label := ""
	if rs.Scored {
		score = formatScore(rs.DealScore) + "/10"
		label = ScoreLabel(rs.DealScore)
	}

	rows := [][]any{
		{"Generated", meta.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Generator", orPlaceholder(meta.Generator)},
		{"Extraction trust score", formatScore(cs.TrustScore)},
		{"Deal impact score", score},
		{"Risk label", orPlaceholder(label)},
		{"Investor summary", orPlaceholder(rs.InvestorSummary)},
	}

	// stable ordering for the category totals
	cats := make([]string, 0, len(rs.CategoryImpacts))
	for k := range rs.CategoryImpacts {
		cats = append(cats, k)
	}
	sort.Strings(cats)
	for _, k := range cats {
		rows = append(rows, []any{"Impact: " + k, rs.CategoryImpacts[k]})
	}

	return writeRows(f, sheet, rows, nil)
}

func writeClausesSheet(f *excelize.File, cs clauses.ClauseSet) error {
	const sheet = "Clauses"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Type", "Description", "Page", "Section", "Confidence", "Manual Review", "Wording"}
	rows := make([][]any, 0, len(cs.Clauses))
	for _, c := range cs.Clauses {
		rows = append(rows, []any{
			string(c.Type), c.Description, c.Page, c.Section, c.Confidence, c.ManualReview, c.Wording,
		})
	}
	return writeRows(f, sheet, rows, headers)
}

func writeRisksSheet(f *excelize.File, rs risk.RiskSet) error {
	const sheet = "Risk Flags"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Type", "Severity", "NOI Impact", "Calculation", "Reason", "Page", "Manual Review"}
	rows := make([][]any, 0, len(rs.Risks))
	for _, r := range rs.Risks {
		rows = append(rows, []any{
			r.Type, string(r.Severity), r.NOIImpact, r.Calculation, r.Reason, r.Page, r.ManualReview,
		})
	}
	return writeRows(f, sheet, rows, headers)
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headers []any) error {
	rowIdx := 1
	if headers != nil {
		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		rowIdx++
	}
	for _, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		rowIdx++
	}
	return nil
}
