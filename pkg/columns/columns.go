// Package columns maps the arbitrary header names of an input table onto the four
// logical fields a Gantt chart needs.
package columns

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Field is one of the logical columns.
type Field int

const (
	Category Field = iota
	Task
	Start
	End
)

// Fields lists the logical columns in reporting order.
var Fields = []Field{Category, Task, Start, End}

func (f Field) String() string {
	switch f {
	case Category:
		return "category"
	case Task:
		return "task"
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Synonyms holds, per logical field, the header aliases tried in order.
type Synonyms struct {
	Category []string `yaml:"category" validate:"required,min=1"`
	Task     []string `yaml:"task" validate:"required,min=1"`
	Start    []string `yaml:"start" validate:"required,min=1"`
	End      []string `yaml:"end" validate:"required,min=1"`
}

// DefaultSynonyms returns the built-in French and English aliases.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		Category: []string{"catégorie", "categorie", "category", "cat", "groupe", "group"},
		Task:     []string{"tâche", "tache", "task", "nom", "name", "activité", "activite"},
		Start:    []string{"début", "debut", "start", "date_debut", "date début", "start_date"},
		End:      []string{"fin", "end", "date_fin", "date fin", "end_date", "échéance"},
	}
}

// For returns the alias list of a field.
func (s Synonyms) For(f Field) []string {
	switch f {
	case Category:
		return s.Category
	case Task:
		return s.Task
	case Start:
		return s.Start
	case End:
		return s.End
	}
	return nil
}

// Column is a resolved header: its position in the table and its original text.
type Column struct {
	Index  int
	Header string
}

// Mapping is the result of a successful resolution.
type Mapping map[Field]Column

// ErrMissingColumns is matched by every *MissingColumnsError.
var ErrMissingColumns = errors.New("missing columns")

// MissingColumnsError reports which logical fields could not be matched, together with
// every header the table offered.
type MissingColumnsError struct {
	Missing   []Field
	Available []string
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = f.String()
	}
	return fmt.Sprintf("missing columns: %s (available: %s)",
		strings.Join(names, ", "), strings.Join(e.Available, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// Key normalizes a header or alias for comparison: NFC, trimmed, lower-cased.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// Resolve finds the header used for each logical field. For every field the aliases are
// tried in order and the first one present among the headers wins. When two headers
// share a normalized key the later one is used.
func Resolve(headers []string, syn Synonyms) (Mapping, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[Key(h)] = i
	}

	mapping := make(Mapping, len(Fields))
	var missing []Field
	for _, f := range Fields {
		found := false
		for _, alias := range syn.For(f) {
			if i, ok := index[Key(alias)]; ok {
				mapping[f] = Column{Index: i, Header: headers[i]}
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, f)
		}
	}

	if len(missing) > 0 {
		available := make([]string, len(headers))
		copy(available, headers)
		return nil, &MissingColumnsError{Missing: missing, Available: available}
	}
	return mapping, nil
}
