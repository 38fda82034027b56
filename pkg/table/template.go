package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/orgmode"
)

// Template is the starter table offered to new users.
func Template() model.Table {
	return model.Table{
		Headers: []string{"catégorie", "tâche", "début", "fin"},
		Rows: [][]model.Cell{
			{"Développement", "Analyse", "2025-01-01", "2025-01-14"},
			{"Développement", "Codage", "2025-01-15", "2025-01-31"},
			{"Tests", "Tests unitaires", "2025-02-01", "2025-02-14"},
			{"Tests", "Tests intégration", "2025-02-15", "2025-02-28"},
			{"Déploiement", "Mise en production", "2025-03-01", "2025-03-15"},
		},
	}
}

// Demo is the example project shown before any file is loaded.
func Demo() model.Table {
	return model.Table{
		Headers: []string{"category", "task", "start", "end"},
		Rows: [][]model.Cell{
			{"Phase 1", "Planning", "2025-01-01", "2025-01-14"},
			{"Phase 1", "Requirements analysis", "2025-01-15", "2025-01-31"},
			{"Phase 2", "Development", "2025-02-01", "2025-02-28"},
			{"Phase 2", "Testing", "2025-03-01", "2025-03-31"},
			{"Phase 3", "Deployment", "2025-04-01", "2025-04-15"},
		},
	}
}

// Write encodes t in the given format.
func Write(w io.Writer, t model.Table, format Format) error {
	switch format {
	case CSV:
		return writeCSV(w, t)
	case XLSX:
		return writeXLSX(w, t)
	case Org:
		return orgmode.Write(w, t)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func writeCSV(w io.Writer, t model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for r := range t.Rows {
		rec := make([]string, len(t.Headers))
		for c := range rec {
			rec[c] = model.CellText(t.At(r, c))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const sheetName = "Sheet1"

func writeXLSX(w io.Writer, t model.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(max(len(t.Headers), 1), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return err
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		copy(cells, row)
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, axis, &cells); err != nil {
			return err
		}
	}
	if len(t.Headers) > 0 {
		lastCol, _ := excelize.ColumnNumberToName(len(t.Headers))
		if err := f.SetColWidth(sheetName, "A", lastCol, 22); err != nil {
			return err
		}
	}
	_, err = f.WriteTo(w)
	return err
}
