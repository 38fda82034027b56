package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/harrisonrobin/gantta/pkg/model"
)

var errNoHeader = errors.New("no header row")

var bom = []byte("\ufeff")

// ReadCSV reads a delimited file with a header row. The delimiter is the most frequent
// of comma, semicolon and tab on the header line.
func ReadCSV(r io.Reader) (model.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		br.Discard(len(bom))
	}
	first, _ := br.Peek(4096)
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}

	cr := csv.NewReader(br)
	cr.Comma = delimiter(string(first))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return model.Table{}, err
	}
	if len(records) == 0 {
		return model.Table{}, errNoHeader
	}

	t := model.Table{Headers: records[0]}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make([]model.Cell, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func delimiter(header string) rune {
	best, count := ',', strings.Count(header, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(header, string(d)); n > count {
			best, count = d, n
		}
	}
	return best
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
