package render

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/harrisonrobin/gantta/pkg/runner"
)

// External executes the program produced by a script adapter and returns the file it
// writes. Any failure of the external runtime is a runner.ErrUnavailable.
type External struct {
	name      string
	script    Adapter
	runner    *runner.Runner
	ext       string
	mediaType string
}

// NewExternal renders script and runs the result with r, expecting a file of the given
// extension and media type.
func NewExternal(name string, script Adapter, r *runner.Runner, ext, mediaType string) *External {
	return &External{name: name, script: script, runner: r, ext: ext, mediaType: mediaType}
}

func (e *External) Name() string { return e.name }

func (e *External) Render(ctx context.Context, b *Bundle) (*Output, error) {
	src, err := e.script.Render(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.script.Name(), err)
	}
	name := strings.TrimSuffix(src.Name, path.Ext(src.Name)) + "." + e.ext

	data, err := e.runner.Run(ctx, src.Data, name)
	if err != nil {
		return nil, err
	}
	if detected := mimetype.Detect(data); !matches(detected, e.mediaType) {
		return nil, &runner.UnavailableError{Reason: fmt.Sprintf("script wrote %s, want %s", detected, e.mediaType)}
	}
	return &Output{Name: name, MediaType: e.mediaType, Data: data}, nil
}

// matches accepts the expected type, or an archive detected as nothing more specific
// than zip: OOXML files are not always told apart from other zip files. Another OOXML
// type is rejected.
func matches(m *mimetype.MIME, want string) bool {
	if m.Is("application/zip") {
		return true
	}
	for ; m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}
