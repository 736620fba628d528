package pptx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/presentation"
	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/pml"
)

func emu(in float64) int64 {
	return int64(in * float64(measurement.Inch))
}

// newTestShape builds a raw slide shape with a name, geometry in inches, and
// one paragraph per text value.
func newTestShape(name string, left, top, width, height float64, texts ...string) *pml.CT_Shape {
	sp := pml.NewCT_Shape()
	sp.NvSpPr.CNvPr.NameAttr = name

	sp.SpPr.Xfrm = dml.NewCT_Transform2D()
	sp.SpPr.Xfrm.Off = dml.NewCT_Point2D()
	sp.SpPr.Xfrm.Off.XAttr = dml.ST_Coordinate{ST_CoordinateUnqualified: unioffice.Int64(emu(left))}
	sp.SpPr.Xfrm.Off.YAttr = dml.ST_Coordinate{ST_CoordinateUnqualified: unioffice.Int64(emu(top))}
	sp.SpPr.Xfrm.Ext = dml.NewCT_PositiveSize2D()
	sp.SpPr.Xfrm.Ext.CxAttr = emu(width)
	sp.SpPr.Xfrm.Ext.CyAttr = emu(height)

	if len(texts) > 0 {
		sp.TxBody = dml.NewCT_TextBody()
		for _, text := range texts {
			p := dml.NewCT_TextParagraph()
			if text != "" {
				r := dml.NewCT_RegularTextRun()
				r.T = text
				p.EG_TextRun = append(p.EG_TextRun, &dml.EG_TextRun{R: r})
			}
			sp.TxBody.P = append(sp.TxBody.P, p)
		}
	}
	return sp
}

func addShapes(slide presentation.Slide, shapes ...*pml.CT_Shape) {
	choice := pml.NewCT_GroupShapeChoice()
	choice.Sp = append(choice.Sp, shapes...)
	slide.X().CSld.SpTree.Choice = append(slide.X().CSld.SpTree.Choice, choice)
}

func TestExtractShapeGeometry(t *testing.T) {
	sp := newTestShape("Rectangle 1", 1.0, 2.0, 5.5, 4.0)
	sp.SpPr.PrstGeom = dml.NewCT_PresetGeometry2D()
	sp.SpPr.PrstGeom.PrstAttr = dml.ST_ShapeTypeRect

	shape := extractShape(sp)
	assert.Equal(t, "Rectangle 1", shape.Name)
	assert.InDelta(t, 1.0, shape.Left, 1e-9)
	assert.InDelta(t, 2.0, shape.Top, 1e-9)
	assert.InDelta(t, 5.5, shape.Width, 1e-9)
	assert.InDelta(t, 4.0, shape.Height, 1e-9)
	assert.True(t, shape.AutoShape)
	assert.False(t, shape.IsTextBox)
}

func TestExtractShapeTextBox(t *testing.T) {
	sp := newTestShape("TextBox 3", 0, 0, 2, 1, "Title", "", "Body")
	sp.NvSpPr.CNvSpPr.TxBoxAttr = unioffice.Bool(true)
	sp.SpPr.PrstGeom = dml.NewCT_PresetGeometry2D()

	shape := extractShape(sp)
	assert.True(t, shape.IsTextBox)
	// A text box never counts as an auto shape even with preset geometry.
	assert.False(t, shape.AutoShape)

	require.Len(t, shape.Paragraphs, 3)
	assert.Equal(t, "Title", shape.Paragraphs[0].Text)
	assert.True(t, shape.Paragraphs[1].IsSpacer())
	assert.Equal(t, "Body", shape.Paragraphs[2].Text)
}

func TestExtractShapeRunFormatting(t *testing.T) {
	sp := newTestShape("TextBox 1", 0, 0, 2, 1, "styled")
	r := sp.TxBody.P[0].EG_TextRun[0].R
	r.RPr = dml.NewCT_TextCharacterProperties()
	r.RPr.SzAttr = unioffice.Int32(2400)
	r.RPr.BAttr = unioffice.Bool(true)
	r.RPr.Latin = dml.NewCT_TextFont()
	r.RPr.Latin.TypefaceAttr = "Arial"
	r.RPr.SolidFill = dml.NewCT_SolidColorFillProperties()
	r.RPr.SolidFill.SrgbClr = dml.NewCT_SRgbColor()
	r.RPr.SolidFill.SrgbClr.ValAttr = "FF0000"

	shape := extractShape(sp)
	require.Len(t, shape.Paragraphs, 1)
	require.Len(t, shape.Paragraphs[0].Runs, 1)

	run := shape.Paragraphs[0].Runs[0]
	assert.Equal(t, "styled", run.Text)
	assert.Equal(t, 24.0, run.SizePts)
	require.NotNil(t, run.Bold)
	assert.True(t, *run.Bold)
	assert.Nil(t, run.Italic)
	assert.Equal(t, "Arial", run.Font)
	assert.Equal(t, "FF0000", run.ColorRGB)
}

func TestExtractShapeMargins(t *testing.T) {
	sp := newTestShape("TextBox 1", 0, 0, 2, 1, "x")
	sp.TxBody.BodyPr = dml.NewCT_TextBodyProperties()
	sp.TxBody.BodyPr.LInsAttr = insetCoord(0.1)
	sp.TxBody.BodyPr.TInsAttr = insetCoord(0.05)

	shape := extractShape(sp)
	assert.True(t, shape.Margins.Set)
	assert.InDelta(t, 0.1, shape.Margins.Left, 1e-6)
	assert.InDelta(t, 0.05, shape.Margins.Top, 1e-6)
	assert.Zero(t, shape.Margins.Right)

	// No insets at all leaves the margins unset.
	sp2 := newTestShape("TextBox 2", 0, 0, 2, 1, "x")
	sp2.TxBody.BodyPr = dml.NewCT_TextBodyProperties()
	assert.False(t, extractShape(sp2).Margins.Set)
}

func TestExtractTemplateInfoSubstringMatching(t *testing.T) {
	ppt := presentation.New()
	slide := ppt.AddSlide()
	addShapes(slide,
		newTestShape("Rectangle 1", 1, 1, 5.5, 4.0),
		newTestShape("TextBox 55", 1, 5.5, 5.5, 3.0, "Name", "Price"),
		newTestShape("Decoration", 0, 0, 1, 1, "fixed label"),
	)

	cfg := DefaultSlideConfig() // "Rectangle 1" / "TextBox", substring match
	info := ExtractTemplateInfo(slide, cfg)

	require.Len(t, info.Shapes, 3)
	assert.Len(t, info.ImageShapes, 1)
	assert.Len(t, info.TextShapes, 1)

	assert.Equal(t, ShapeImageTarget, info.ImageShapes["Rectangle 1"].Kind)
	assert.Equal(t, ShapeTextTarget, info.TextShapes["TextBox 55"].Kind)
	assert.Equal(t, ShapePassThrough, info.Shapes[2].Kind)
}

func TestExtractTemplateInfoExactMatching(t *testing.T) {
	ppt := presentation.New()
	slide := ppt.AddSlide()
	addShapes(slide,
		newTestShape("Pic", 1, 1, 3, 3),
		newTestShape("Pic 2", 5, 1, 3, 3),
		newTestShape("TB", 1, 5, 6, 2, "x"),
	)

	cfg := DefaultSlideConfig()
	cfg.ImageElements = []ImageElement{{Column: "B", Placeholder: "Pic"}}
	cfg.TextGroups = []TextGroup{{Columns: []string{"C"}, Placeholder: "tb"}}

	info := ExtractTemplateInfo(slide, cfg)

	// Exact matching: "Pic 2" is not a target. Names compare case-insensitively.
	assert.Len(t, info.ImageShapes, 1)
	assert.Contains(t, info.ImageShapes, "Pic")
	assert.Len(t, info.TextShapes, 1)
	assert.Contains(t, info.TextShapes, "TB")
	assert.Equal(t, ShapePassThrough, info.Shapes[1].Kind)
}

func TestExtractTemplateInfoImageBeforeText(t *testing.T) {
	ppt := presentation.New()
	slide := ppt.AddSlide()
	addShapes(slide, newTestShape("Box 1", 1, 1, 3, 3, "x"))

	cfg := DefaultSlideConfig()
	cfg.ImagePlaceholder = "Box"
	cfg.TextPlaceholder = "Box"

	info := ExtractTemplateInfo(slide, cfg)
	assert.Len(t, info.ImageShapes, 1)
	assert.Empty(t, info.TextShapes)
}

func TestExtractParagraphsSkipsNonTextRuns(t *testing.T) {
	sp := newTestShape("TextBox 1", 0, 0, 2, 1, "kept")
	sp.TxBody.P[0].EG_TextRun = append(sp.TxBody.P[0].EG_TextRun, &dml.EG_TextRun{})

	shape := extractShape(sp)
	require.Len(t, shape.Paragraphs, 1)
	assert.Equal(t, "kept", shape.Paragraphs[0].Text)
	assert.Len(t, shape.Paragraphs[0].Runs, 1)
}
