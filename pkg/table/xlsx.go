package table

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/harrisonrobin/gantta/pkg/model"
)

var errNoSheet = errors.New("workbook has no sheet")

// ReadXLSX reads the first sheet of a workbook. Numeric cells formatted as dates come
// back as time.Time; every other cell is its raw text.
func ReadXLSX(r io.Reader) (model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.Table{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.Table{}, errNoSheet
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return model.Table{}, errNoHeader
	}

	dates := dateStyles{file: f, known: make(map[int]bool)}
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	t := model.Table{Headers: rows[0]}
	for r, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		row := make([]model.Cell, len(rec))
		for c, v := range rec {
			row[c] = v
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				continue
			}
			if !dates.isDate(sheet, axis) {
				continue
			}
			serial, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			if tm, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
				row[c] = tm
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// dateStyles remembers which cell styles display a date.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d dateStyles) isDate(sheet, axis string) bool {
	id, err := d.file.GetCellStyle(sheet, axis)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := d.known[id]; ok {
		return v
	}
	v := false
	if style, err := d.file.GetStyle(id); err == nil {
		v = builtinDateFormat(style.NumFmt)
		if style.CustomNumFmt != nil {
			v = customDateFormat(*style.CustomNumFmt)
		}
	}
	d.known[id] = v
	return v
}

// builtinDateFormat reports whether a built-in number format id displays a date.
func builtinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// customDateFormat reports whether a format code contains day or year tokens outside of
// quoted literals and bracketed sections.
func customDateFormat(code string) bool {
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	return strings.ContainsAny(s, "dy")
}
