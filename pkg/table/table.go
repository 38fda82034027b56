// Package table loads raw task tables from CSV, XLSX and Org files.
package table

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/orgmode"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	Org  Format = "org"
)

const mediaXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	// ErrUnreadable is matched by every failure to decode an input file.
	ErrUnreadable = errors.New("unreadable input")
	// ErrUnsupportedFormat means the format could be told neither from the file name
	// nor from its content.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrUnreadable)
)

// FormatOf picks the decoder of a file from its extension, falling back to sniffing the
// content.
func FormatOf(name string, content []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".txt":
		return CSV, nil
	case ".xlsx", ".xlsm":
		return XLSX, nil
	case ".org":
		return Org, nil
	}

	m := mimetype.Detect(content)
	for ; m != nil; m = m.Parent() {
		switch {
		case m.Is(mediaXLSX), m.Is("application/zip"):
			return XLSX, nil
		case m.Is("text/csv"), m.Is("text/tab-separated-values"):
			return CSV, nil
		case m.Is("text/plain"):
			if looksLikeOrg(content) {
				return Org, nil
			}
			return CSV, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimetype.Detect(content))
}

func looksLikeOrg(content []byte) bool {
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if bytes.HasPrefix(line, []byte("|")) || bytes.HasPrefix(line, []byte("* ")) || bytes.HasPrefix(line, []byte("#+")) {
			return true
		}
	}
	return false
}

// Load reads the table stored at path.
func Load(path string) (model.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return Decode(filepath.Base(path), content)
}

// Decode reads a table from content; name is only used to pick the format.
func Decode(name string, content []byte) (model.Table, error) {
	format, err := FormatOf(name, content)
	if err != nil {
		return model.Table{}, err
	}
	return Read(bytes.NewReader(content), format)
}

// Read decodes r in the given format.
func Read(r io.Reader, format Format) (model.Table, error) {
	var (
		t   model.Table
		err error
	)
	switch format {
	case CSV:
		t, err = ReadCSV(r)
	case XLSX:
		t, err = ReadXLSX(r)
	case Org:
		t, err = orgmode.Parse(r)
	default:
		return model.Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return model.Table{}, fmt.Errorf("%w: %s: %w", ErrUnreadable, format, err)
	}
	return t, nil
}
