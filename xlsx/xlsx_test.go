package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stimupop/deckgen/pptx"
)

func buildWorkbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func testWorkbook(t *testing.T) *Workbook {
	t.Helper()
	buf := buildWorkbook(t,
		[]interface{}{"Name", "Image", "Description", "Price"},
		[]interface{}{"Widget", "widget.png", "A fine widget", "$9.99"},
		[]interface{}{"Gadget", "", "  ", "$19.99"},
	)
	wb, err := Read(buf, nil)
	require.NoError(t, err)
	return wb
}

func TestReadEmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Read(buf, nil)
	assert.ErrorIs(t, err, ErrEmptyWorkbook)
}

func TestReadWorkbook(t *testing.T) {
	wb := testWorkbook(t)
	assert.Equal(t, "Sheet1", wb.Sheet())
	assert.Equal(t, []string{"Name", "Image", "Description", "Price"}, wb.Headers())
	assert.Equal(t, 2, wb.RowCount())
}

func TestResolveColumn(t *testing.T) {
	wb := testWorkbook(t)

	tests := []struct {
		input string
		want  string
	}{
		{"B", "Image"},
		{"b", "Image"},
		{"A", "Name"},
		{"Price", "Price"},
		{"price", "Price"},
		{" Description ", "Description"},
	}
	for _, tc := range tests {
		got, err := wb.ResolveColumn(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}

	for _, bad := range []string{"", "Z", "NoSuchHeader"} {
		_, err := wb.ResolveColumn(bad)
		require.Error(t, err, "input %q", bad)
		var ce *ColumnError
		assert.ErrorAs(t, err, &ce)
	}
}

func TestSlideData(t *testing.T) {
	wb := testWorkbook(t)

	records := wb.SlideData("Image", []string{"Name", "Price"}, DataOptions{})
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, 0, first.RowIndex)
	assert.Equal(t, "widget.png", first.ImageSrc)
	assert.Equal(t, "B2", first.ImageCell)
	// Labels are column letters, not header names.
	require.Len(t, first.TextItems, 2)
	assert.Equal(t, "A", first.TextItems[0].Column)
	assert.Equal(t, "Widget", first.TextItems[0].Text)
	assert.Equal(t, "D", first.TextItems[1].Column)

	// Legacy records never select the multi path.
	assert.False(t, first.MultiElement())

	second := records[1]
	assert.Empty(t, second.ImageSrc)
	assert.Equal(t, "B3", second.ImageCell)
}

func TestSlideDataSkipsBlankCells(t *testing.T) {
	wb := testWorkbook(t)

	records := wb.SlideData("Image", []string{"Description"}, DataOptions{})
	require.Len(t, records, 2)
	assert.Len(t, records[0].TextItems, 1)
	// Whitespace-only cell dropped.
	assert.Empty(t, records[1].TextItems)
}

func TestSlideDataSeparator(t *testing.T) {
	wb := testWorkbook(t)

	records := wb.SlideData("Image", []string{"Name", "Price"}, DataOptions{Separator: " - "})
	require.Len(t, records, 2)
	require.Len(t, records[0].TextItems, 1)
	assert.Equal(t, "Widget - $9.99", records[0].TextItems[0].Text)
	assert.Equal(t, "A", records[0].TextItems[0].Column)
}

func TestSlideDataMulti(t *testing.T) {
	wb := testWorkbook(t)

	records := wb.SlideDataMulti(
		[]pptx.ImageElement{{Column: "B", Placeholder: "Pic"}},
		[]pptx.TextGroup{{Columns: []string{"Name", "Price"}, Placeholder: "TB", Separator: " / "}},
		DataOptions{},
	)
	require.Len(t, records, 2)

	first := records[0]
	assert.True(t, first.MultiElement())
	require.Len(t, first.ImageSources, 1)
	assert.Equal(t, "widget.png", first.ImageSources[0].Source)
	assert.Equal(t, "B2", first.ImageSources[0].Cell)
	assert.Equal(t, "Pic", first.ImageSources[0].Placeholder)

	require.Len(t, first.TextGroups, 1)
	require.Len(t, first.TextGroups[0].Items, 1)
	assert.Equal(t, "Widget / $9.99", first.TextGroups[0].Items[0].Text)

	// Legacy aliases mirror the first entries.
	assert.Equal(t, "widget.png", first.ImageSrc)
	assert.Equal(t, "B2", first.ImageCell)
	require.Len(t, first.TextItems, 1)
}

func TestSlideDataMultiDropsUnresolvable(t *testing.T) {
	wb := testWorkbook(t)

	records := wb.SlideDataMulti(
		[]pptx.ImageElement{{Column: "NoSuchColumn", Placeholder: "Pic"}},
		[]pptx.TextGroup{{Columns: []string{"Name"}, Placeholder: "TB"}},
		DataOptions{},
	)
	require.Len(t, records, 2)

	// The bad image element is dropped; the slice stays non-nil so the
	// record still selects the multi path.
	assert.NotNil(t, records[0].ImageSources)
	assert.Empty(t, records[0].ImageSources)
	assert.Len(t, records[0].TextGroups, 1)
	assert.True(t, records[0].MultiElement())
}

func TestParseColumns(t *testing.T) {
	assert.Equal(t, []string{"C", "D", "E"}, ParseColumns("C,D, E"))
	assert.Equal(t, []string{"Name"}, ParseColumns(" Name ,"))
	assert.Nil(t, ParseColumns(""))
	assert.Nil(t, ParseColumns(" , ,"))
}

func TestPreviewAndSummary(t *testing.T) {
	wb := testWorkbook(t)

	assert.Len(t, wb.Preview(1), 1)
	assert.Len(t, wb.Preview(10), 2)

	s := wb.Summarize()
	assert.Equal(t, "Sheet1", s.Sheet)
	assert.Equal(t, 4, s.Columns)
	assert.Equal(t, 2, s.Rows)
}
