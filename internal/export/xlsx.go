// Package export renders the guest list as an Excel workbook.
package export

import (
	"bytes"
	"fmt"
	"io"

	"wedding-rsvp/internal/models"

	"github.com/xuri/excelize/v2"
)

// FileName is the download name of the guest export.
const FileName = "gaeste.xlsx"

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Gäste"

// Header is the first row of the guest sheet.
var Header = []string{
	"Name", "Status", "E-Mail", "Essenswunsch", "Anreise",
	"Essen Fr", "Essen Sa", "Essen So", "Unterkunft", "Mitbringsel",
}

// Row flattens one guest into the cells written below Header.
func Row(g models.Guest) []any {
	return []any{
		g.Name,
		g.Attendance().Label(),
		g.Email,
		string(g.Essenswunsch),
		string(g.Anreise),
		yesNo(g.EssenFr),
		yesNo(g.EssenSa),
		yesNo(g.EssenSo),
		string(g.Unterkunft),
		g.EssenMitbringsel,
	}
}

// WriteXLSX writes a workbook with one row per guest to w.
func WriteXLSX(w io.Writer, guests []models.Guest) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, toAny(Header)); err != nil {
		return err
	}
	for i, g := range guests {
		if err := setRow(f, i+2, Row(g)); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes renders the workbook into memory.
func Bytes(guests []models.Guest) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, guests); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func yesNo(v bool) string {
	if v {
		return "ja"
	}
	return "nein"
}
