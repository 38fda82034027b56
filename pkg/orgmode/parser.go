// Package orgmode reads task tables out of Org documents.
//
// Two layouts are understood. A pipe table is read as is, with its first row as header:
//
//	| category | task   | start            | end              |
//	|----------+--------+------------------+------------------|
//	| Dev      | Code   | <2025-01-01 Wed> | <2025-01-10 Fri> |
//
// A document without a table is read as an outline: top-level headlines are categories
// and every deeper headline carrying a SCHEDULED/DEADLINE pair or a timestamp range is a
// task.
package orgmode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/harrisonrobin/gantta/pkg/model"
)

// ErrNoTasks means the document holds neither a table nor a dated outline.
var ErrNoTasks = errors.New("no table or dated headlines found")

// Headers of the table built from an outline.
var OutlineHeaders = []string{"category", "task", "start", "end"}

var (
	headlineRegex  = regexp.MustCompile(`^(\*+)\s+(?:(?:TODO|DONE)\s+)?(?:\[#[A-Z]\]\s*)?(.*?)(?:\s+:[\w@#%:]+:)?\s*$`)
	scheduledRegex = regexp.MustCompile(`SCHEDULED:\s*[<\[](\d{4}-\d{2}-\d{2})[^>\]]*[>\]]`)
	deadlineRegex  = regexp.MustCompile(`DEADLINE:\s*[<\[](\d{4}-\d{2}-\d{2})[^>\]]*[>\]]`)
	rangeRegex     = regexp.MustCompile(`<(\d{4}-\d{2}-\d{2})[^>]*>--<(\d{4}-\d{2}-\d{2})[^>]*>`)
	timestampRegex = regexp.MustCompile(`^[<\[](\d{4}-\d{2}-\d{2})(?:\s[^>\]]*)?[>\]]$`)
)

// ParseFile parses the Org document at path.
func ParseFile(path string) (model.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Table{}, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse returns the first pipe table of the document, or the table of its dated
// headlines when it has none.
func Parse(r io.Reader) (model.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		table   [][]string
		inTable bool
		outline outline
	)
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "|") {
			if len(table) > 0 && !inTable {
				// only the first table is read
				continue
			}
			inTable = true
			if !isRule(line) {
				table = append(table, splitRow(line))
			}
			continue
		}
		inTable = false
		if len(table) == 0 {
			outline.feed(raw)
		}
	}
	if err := scanner.Err(); err != nil {
		return model.Table{}, fmt.Errorf("read org document: %w", err)
	}

	if len(table) > 0 {
		return toTable(table), nil
	}
	outline.flush()
	if len(outline.rows) == 0 {
		return model.Table{}, ErrNoTasks
	}
	return model.Table{Headers: append([]string(nil), OutlineHeaders...), Rows: outline.rows}, nil
}

func isRule(line string) bool {
	return strings.HasPrefix(line, "|-") || strings.HasPrefix(line, "|+")
}

func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i, c := range cells {
		cells[i] = Cell(c)
	}
	return cells
}

// Cell trims a table cell and reduces an Org timestamp to its date.
func Cell(s string) string {
	s = strings.TrimSpace(s)
	if m := timestampRegex.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func toTable(rows [][]string) model.Table {
	t := model.Table{Headers: rows[0]}
	for _, r := range rows[1:] {
		cells := make([]model.Cell, len(r))
		for i, c := range r {
			cells[i] = c
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

type outline struct {
	category string
	current  *entry
	rows     [][]model.Cell
}

type entry struct {
	name       string
	start, end string
}

func (o *outline) feed(line string) {
	if m := headlineRegex.FindStringSubmatch(line); m != nil {
		o.flush()
		if len(m[1]) == 1 {
			o.category = strings.TrimSpace(m[2])
			return
		}
		o.current = &entry{name: strings.TrimSpace(m[2])}
		return
	}
	if o.current == nil {
		return
	}
	if m := rangeRegex.FindStringSubmatch(line); m != nil {
		o.current.start, o.current.end = m[1], m[2]
	}
	if m := scheduledRegex.FindStringSubmatch(line); m != nil {
		o.current.start = m[1]
	}
	if m := deadlineRegex.FindStringSubmatch(line); m != nil {
		o.current.end = m[1]
	}
}

func (o *outline) flush() {
	e := o.current
	o.current = nil
	if e == nil || e.name == "" || (e.start == "" && e.end == "") {
		return
	}
	start, end := e.start, e.end
	if start == "" {
		start = end
	}
	if end == "" {
		end = start
	}
	o.rows = append(o.rows, []model.Cell{o.category, e.name, start, end})
}
