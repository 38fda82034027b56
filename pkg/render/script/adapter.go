package script

import (
	"context"

	"github.com/harrisonrobin/gantta/pkg/render"
)

// DeckAdapter emits the python-pptx program of a bundle.
type DeckAdapter struct{}

func (DeckAdapter) Name() string { return "deck-script" }

func (DeckAdapter) Render(_ context.Context, b *render.Bundle) (*render.Output, error) {
	return &render.Output{
		Name:      render.FileName(b.Title, "deck", "py"),
		MediaType: render.MediaPython,
		Data:      PythonDeck(BuildDeck(b)),
	}, nil
}

// DocumentAdapter emits the python-docx program of a bundle.
type DocumentAdapter struct{}

func (DocumentAdapter) Name() string { return "doc-script" }

func (DocumentAdapter) Render(_ context.Context, b *render.Bundle) (*render.Output, error) {
	return &render.Output{
		Name:      render.FileName(b.Title, "document", "py"),
		MediaType: render.MediaPython,
		Data:      PythonDocument(BuildDocument(b)),
	}, nil
}
