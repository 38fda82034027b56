package render

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/gantta/pkg/runner"
)

type fixedScript string

func (fixedScript) Name() string { return "fixed-script" }

func (s fixedScript) Render(context.Context, *Bundle) (*Output, error) {
	return &Output{Name: "roadmap-deck.py", MediaType: MediaPython, Data: []byte(s)}, nil
}

func shRunner(t *testing.T) *runner.Runner {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}
	return runner.New("sh", 5*time.Second, nil)
}

func TestExternalReturnsArchive(t *testing.T) {
	ext := NewExternal("pptx", fixedScript(`printf 'PK\003\004\024\000\000\000' > "$1"`), shRunner(t), "pptx", MediaPPTX)

	out, err := ext.Render(context.Background(), &Bundle{})
	require.NoError(t, err)
	assert.Equal(t, "pptx", ext.Name())
	assert.Equal(t, "roadmap-deck.pptx", out.Name)
	assert.Equal(t, MediaPPTX, out.MediaType)
}

// ooxml writes a minimal zip whose second entry tells its OOXML type apart.
func ooxml(t *testing.T, part string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", part} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(`<?xml version="1.0"?><x/>`))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "fixture.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestExternalChecksTheOOXMLType(t *testing.T) {
	sheet := ooxml(t, "xl/workbook.xml")
	deck := ooxml(t, "ppt/presentation.xml")
	r := shRunner(t)

	data, err := os.ReadFile(sheet)
	require.NoError(t, err)
	require.True(t, mimetype.Detect(data).Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))

	_, err = NewExternal("pptx", fixedScript(fmt.Sprintf(`cat '%s' > "$1"`, sheet)), r, "pptx", MediaPPTX).
		Render(context.Background(), &Bundle{})
	assert.True(t, errors.Is(err, runner.ErrUnavailable))
	assert.ErrorContains(t, err, "spreadsheetml")

	out, err := NewExternal("pptx", fixedScript(fmt.Sprintf(`cat '%s' > "$1"`, deck)), r, "pptx", MediaPPTX).
		Render(context.Background(), &Bundle{})
	require.NoError(t, err)
	assert.Equal(t, MediaPPTX, out.MediaType)
}

func TestExternalRejectsUnexpectedOutput(t *testing.T) {
	ext := NewExternal("docx", fixedScript(`printf 'hello' > "$1"`), shRunner(t), "docx", MediaDOCX)

	_, err := ext.Render(context.Background(), &Bundle{})
	assert.True(t, errors.Is(err, runner.ErrUnavailable))
	assert.ErrorContains(t, err, "text/plain")
}

func TestExternalMissingRuntime(t *testing.T) {
	ext := NewExternal("docx", fixedScript("print(1)"), runner.New("gantta-no-such-python", time.Second, nil), "docx", MediaDOCX)

	_, err := ext.Render(context.Background(), &Bundle{})
	assert.True(t, errors.Is(err, runner.ErrUnavailable))
}
