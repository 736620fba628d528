package deckgen

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stimupop/deckgen/pptx"
	"github.com/stimupop/deckgen/xlsx"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 6))))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func buildSpreadsheet(t *testing.T, picPath string) []byte {
	t.Helper()
	f := excelize.NewFile()

	header := []interface{}{"Name", "Image", "Description"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))

	row1 := []interface{}{"Widget", "", "A fine widget"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row1))
	require.NoError(t, f.AddPicture("Sheet1", "B2", picPath, nil))

	row2 := []interface{}{"Gadget", "missing.png", "Needs a picture"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &row2))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCreatePresentation(t *testing.T) {
	dir := t.TempDir()
	data := buildSpreadsheet(t, writePNG(t, dir, "pic.png"))

	cfg := pptx.DefaultSlideConfig()
	cfg.ImgColumn = "Image"
	cfg.TextColumns = []string{"Name", "Description"}

	var progress int
	result, err := CreatePresentation(data, Options{
		Config: cfg,
		OnProgress: func(status string, current, total int) {
			progress++
			assert.Equal(t, 2, total)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SlidesGenerated)
	// Row 1 uses the embedded picture, row 2's path does not exist.
	assert.Equal(t, 1, result.SlidesWithImages)
	assert.Equal(t, 1, result.SlidesWithErrors)
	assert.Len(t, result.Presentation.Slides(), 2)
	assert.Equal(t, 3, progress)

	require.Len(t, result.Slides, 2)
	assert.True(t, result.Slides[0].HasImage)
	assert.True(t, result.Slides[0].TextAdded)
	assert.NotEmpty(t, result.Slides[1].ImageError)
}

func TestCreatePresentationUnknownColumn(t *testing.T) {
	dir := t.TempDir()
	data := buildSpreadsheet(t, writePNG(t, dir, "pic.png"))

	cfg := pptx.DefaultSlideConfig()
	cfg.ImgColumn = "NoSuchColumn"
	cfg.TextColumns = []string{"Name"}

	_, err := CreatePresentation(data, Options{Config: cfg})
	require.Error(t, err)
	var ce *xlsx.ColumnError
	assert.ErrorAs(t, err, &ce)
}

func TestCreatePresentationBadWorkbook(t *testing.T) {
	_, err := CreatePresentation([]byte("not a spreadsheet"), Options{})
	assert.Error(t, err)
}

func TestCreatePresentationMultiElement(t *testing.T) {
	dir := t.TempDir()
	data := buildSpreadsheet(t, writePNG(t, dir, "pic.png"))

	cfg := pptx.DefaultSlideConfig()
	cfg.ImageElements = []pptx.ImageElement{{Column: "Image", Placeholder: "Pic"}}
	cfg.TextGroups = []pptx.TextGroup{{Columns: []string{"Name"}, Placeholder: "TB"}}

	result, err := CreatePresentation(data, Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SlidesGenerated)
}
