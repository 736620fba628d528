package pptx

import (
	"fmt"
	"strings"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/presentation"
	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/pml"
)

// Per-row slide population. Invoked fresh per row; template metadata is
// read-only and each row works on its own new slide.
//
// Text shapes are written through the raw pml/dml structs: the high-level
// text box wrapper in this unioffice version exposes neither the shape name
// nor body insets nor italics.

func inches(v float64) measurement.Distance {
	return measurement.Distance(v) * measurement.Inch
}

// newSlideShape appends a raw shape with an empty text body to the slide.
func newSlideShape(slide presentation.Slide, name string, left, top, width, height float64) *pml.CT_Shape {
	sp := pml.NewCT_Shape()
	sp.NvSpPr.CNvPr.NameAttr = name

	sp.SpPr.Xfrm = dml.NewCT_Transform2D()
	sp.SpPr.Xfrm.Off = dml.NewCT_Point2D()
	sp.SpPr.Xfrm.Off.XAttr = dml.ST_Coordinate{ST_CoordinateUnqualified: unioffice.Int64(int64(inches(left)))}
	sp.SpPr.Xfrm.Off.YAttr = dml.ST_Coordinate{ST_CoordinateUnqualified: unioffice.Int64(int64(inches(top)))}
	sp.SpPr.Xfrm.Ext = dml.NewCT_PositiveSize2D()
	sp.SpPr.Xfrm.Ext.CxAttr = int64(inches(width))
	sp.SpPr.Xfrm.Ext.CyAttr = int64(inches(height))

	sp.TxBody = dml.NewCT_TextBody()
	sp.TxBody.BodyPr = dml.NewCT_TextBodyProperties()

	choice := pml.NewCT_GroupShapeChoice()
	choice.Sp = append(choice.Sp, sp)
	slide.X().CSld.SpTree.Choice = append(slide.X().CSld.SpTree.Choice, choice)
	return sp
}

// newTextBoxShape appends a text box with square wrapping and the configured
// overflow behavior.
func (g *Generator) newTextBoxShape(slide presentation.Slide, name string, left, top, width, height float64) *pml.CT_Shape {
	sp := newSlideShape(slide, name, left, top, width, height)
	sp.NvSpPr.CNvSpPr.TxBoxAttr = unioffice.Bool(true)
	sp.TxBody.BodyPr.WrapAttr = dml.ST_TextWrappingTypeSquare
	if g.cfg.TextOverflowMode == "shrink" {
		sp.TxBody.BodyPr.NormAutofit = dml.NewCT_TextNormalAutofit()
	}
	return sp
}

func addParagraph(sp *pml.CT_Shape) *dml.CT_TextParagraph {
	p := dml.NewCT_TextParagraph()
	sp.TxBody.P = append(sp.TxBody.P, p)
	return p
}

func paragraphProps(p *dml.CT_TextParagraph) *dml.CT_TextParagraphProperties {
	if p.PPr == nil {
		p.PPr = dml.NewCT_TextParagraphProperties()
	}
	return p.PPr
}

func addRun(p *dml.CT_TextParagraph, text string) *dml.CT_RegularTextRun {
	r := dml.NewCT_RegularTextRun()
	r.T = text
	p.EG_TextRun = append(p.EG_TextRun, &dml.EG_TextRun{R: r})
	return r
}

func runProps(r *dml.CT_RegularTextRun) *dml.CT_TextCharacterProperties {
	if r.RPr == nil {
		r.RPr = dml.NewCT_TextCharacterProperties()
	}
	return r.RPr
}

func insetCoord(in float64) *dml.ST_Coordinate32 {
	return &dml.ST_Coordinate32{ST_Coordinate32Unqualified: unioffice.Int32(int32(inches(in)))}
}

func solidHex(hex string) *dml.CT_SolidColorFillProperties {
	fill := dml.NewCT_SolidColorFillProperties()
	fill.SrgbClr = dml.NewCT_SRgbColor()
	fill.SrgbClr.ValAttr = hex
	return fill
}

// populateTemplateSlide fills one new slide from the template metadata,
// dispatching on the record shape (multi vs legacy).
func (g *Generator) populateTemplateSlide(ppt *presentation.Presentation, slide presentation.Slide, rec SlideRecord, embedded map[string]ImageResult, info *TemplateInfo, res *SlideResult) {
	if rec.MultiElement() {
		g.populateMulti(ppt, slide, rec, embedded, info, res)
	} else {
		g.populateLegacy(ppt, slide, rec, embedded, info, res)
	}
}

// populateMulti walks every template shape in extraction order and
// dispatches on its classification.
func (g *Generator) populateMulti(ppt *presentation.Presentation, slide presentation.Slide, rec SlideRecord, embedded map[string]ImageResult, info *TemplateInfo, res *SlideResult) {
	imageEntries := make(map[string]ImageSource)
	for _, src := range rec.ImageSources {
		imageEntries[strings.ToLower(src.Placeholder)] = src
	}
	textEntries := make(map[string]TextContent)
	for _, tc := range rec.TextGroups {
		textEntries[strings.ToLower(tc.Placeholder)] = tc
	}

	for _, shape := range info.Shapes {
		switch shape.Kind {
		case ShapeImageTarget:
			entry, ok := imageEntries[strings.ToLower(shape.Name)]
			var img *ImageResult
			if ok {
				img = g.resolveImage(entry.Source, entry.Cell, embedded)
			}
			g.handleImageShape(ppt, slide, shape, img, res)
		case ShapeTextTarget:
			// Missing entry renders the template's slots blank, never skips.
			entry := textEntries[strings.ToLower(shape.Name)]
			g.handleTextShape(slide, shape, entry.Items, res)
		default:
			g.recreateShape(slide, shape)
		}
	}
}

// populateLegacy resolves the single image and single text group of a
// legacy-shaped record. Only the first matched image shape and the first
// matched text shape receive the row's data; later matches are recreated
// verbatim, which matters with substring matching where a short placeholder
// name can match several template shapes.
func (g *Generator) populateLegacy(ppt *presentation.Presentation, slide presentation.Slide, rec SlideRecord, embedded map[string]ImageResult, info *TemplateInfo, res *SlideResult) {
	img := g.resolveImage(rec.ImageSrc, rec.ImageCell, embedded)

	imageDone := false
	textDone := false
	for _, shape := range info.Shapes {
		switch {
		case shape.Kind == ShapeImageTarget && !imageDone:
			imageDone = true
			g.handleImageShape(ppt, slide, shape, img, res)
		case shape.Kind == ShapeTextTarget && !textDone:
			textDone = true
			g.handleTextShape(slide, shape, rec.TextItems, res)
		default:
			g.recreateShape(slide, shape)
		}
	}
}

// resolveImage resolves an image reference: embedded cell first, then file
// path. Remote URLs are not fetched. Returns nil when there is nothing to
// resolve.
func (g *Generator) resolveImage(source, cell string, embedded map[string]ImageResult) *ImageResult {
	if cell != "" {
		if r, ok := embedded[cell]; ok {
			return &r
		}
	}
	if source != "" && !strings.HasPrefix(source, "http") && g.loader != nil {
		r := g.loader.LoadFromPath(source)
		return &r
	}
	return nil
}

// handleImageShape places a resolved image into a template shape's bounding
// box, or a labeled placeholder rectangle when resolution failed. Image
// failures are always non-fatal.
func (g *Generator) handleImageShape(ppt *presentation.Presentation, slide presentation.Slide, shape *TemplateShape, img *ImageResult, res *SlideResult) {
	if img != nil && img.OK() {
		err := g.addImageAtPosition(ppt, slide, img.ImageData, shape.Left, shape.Top, shape.Width, shape.Height)
		if err == nil {
			res.HasImage = true
			return
		}
		res.ImageError = err.Error()
	} else if img != nil && img.Err != nil {
		res.ImageError = img.Err.Error()
	}
	g.addPlaceholderShape(slide, shape, "No Image")
}

// handleTextShape renders one text target. Failures are recorded on the
// slide result; remaining shapes still render.
func (g *Generator) handleTextShape(slide presentation.Slide, shape *TemplateShape, items []TextItem, res *SlideResult) {
	if err := g.addTextFromTemplate(slide, shape, items); err != nil {
		msg := fmt.Sprintf("text failed for %q: %v", shape.Name, err)
		if res.Error != "" {
			res.Error += "; " + msg
		} else {
			res.Error = msg
		}
		return
	}
	res.TextAdded = true
}

// addImageAtPosition scales an image into a bounding box (fit-box, the
// template path's fixed policy) and inserts it with the configured alignment.
func (g *Generator) addImageAtPosition(ppt *presentation.Presentation, slide presentation.Slide, img ImageData, boxLeft, boxTop, boxWidth, boxHeight float64) error {
	width, height := ScaledSize(img.Width, img.Height, boxWidth, boxHeight, SizeFitBox)
	left, top := ImagePosition(width, height, boxLeft, boxTop, boxWidth, boxHeight, g.cfg.GetImageAlignment())
	return g.placeImage(ppt, slide, img, left, top, width, height)
}

func (g *Generator) placeImage(ppt *presentation.Presentation, slide presentation.Slide, img ImageData, left, top, width, height float64) error {
	ci, err := common.ImageFromBytes(img.Bytes)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	iref, err := ppt.AddImage(ci)
	if err != nil {
		return fmt.Errorf("register image: %w", err)
	}
	pic := slide.AddImage(iref)
	pic.Properties().SetPosition(inches(left), inches(top))
	pic.Properties().SetSize(inches(width), inches(height))
	return nil
}

// addPlaceholderShape draws a labeled rectangle standing in for a missing
// image. Matches the template path's behavior of only substituting preset
// geometry shapes.
func (g *Generator) addPlaceholderShape(slide presentation.Slide, shape *TemplateShape, label string) {
	if !shape.AutoShape {
		return
	}
	sp := newSlideShape(slide, shape.Name, shape.Left, shape.Top, shape.Width, shape.Height)
	sp.SpPr.PrstGeom = dml.NewCT_PresetGeometry2D()
	sp.SpPr.PrstGeom.PrstAttr = dml.ST_ShapeTypeRect

	p := addParagraph(sp)
	paragraphProps(p).AlgnAttr = dml.ST_TextAlignTypeCtr
	addRun(p, label)
}

// addTextFromTemplate renders a text target: the column mapper assigns data
// columns to the template's paragraph slots, and each output paragraph
// reuses the first template run's formatting with the mapped text
// substituted. Multi-run template paragraphs lose their later runs' styles;
// this matches the template population contract and is not silently fixed.
func (g *Generator) addTextFromTemplate(slide presentation.Slide, shape *TemplateShape, items []TextItem) error {
	sp := g.newTextBoxShape(slide, shape.Name, shape.Left, shape.Top, shape.Width, shape.Height)

	bp := sp.TxBody.BodyPr
	if shape.VAnchor != dml.ST_TextAnchoringTypeUnset {
		bp.AnchorAttr = shape.VAnchor
	}
	if shape.Margins.Set {
		bp.LInsAttr = insetCoord(shape.Margins.Left)
		bp.TInsAttr = insetCoord(shape.Margins.Top)
		bp.RInsAttr = insetCoord(shape.Margins.Right)
		bp.BInsAttr = insetCoord(shape.Margins.Bottom)
	}

	// Column labels in item order; first occurrence wins the position,
	// later duplicates overwrite the text.
	content := make(map[string]string, len(items))
	var columns []string
	for _, it := range items {
		if _, ok := content[it.Column]; !ok {
			columns = append(columns, it.Column)
		}
		content[it.Column] = it.Text
	}

	sequence := MapColumns(shape.Paragraphs, columns)

	for i, para := range shape.Paragraphs {
		p := addParagraph(sp)

		text := ""
		if col := sequence[i]; col != "" {
			text = content[col]
		}

		pp := paragraphProps(p)
		if para.Align != dml.ST_TextAlignTypeUnset {
			pp.AlgnAttr = para.Align
		} else {
			pp.AlgnAttr = dml.ST_TextAlignTypeCtr
		}
		pp.SpcAft = spacingPoints(g.cfg.ParagraphSpacing)

		r := addRun(p, text)
		if len(para.Runs) > 0 {
			applyRunFormat(r, para.Runs[0])
		}
	}

	return nil
}

func applyRunFormat(r *dml.CT_RegularTextRun, tmpl TemplateRun) {
	rpr := runProps(r)
	if tmpl.Font != "" {
		rpr.Latin = dml.NewCT_TextFont()
		rpr.Latin.TypefaceAttr = tmpl.Font
	}
	if tmpl.SizePts > 0 {
		rpr.SzAttr = unioffice.Int32(int32(tmpl.SizePts * 100))
	}
	if tmpl.Bold != nil {
		rpr.BAttr = unioffice.Bool(*tmpl.Bold)
	}
	if tmpl.Italic != nil {
		rpr.IAttr = unioffice.Bool(*tmpl.Italic)
	}
	if hex := normalizeHex(tmpl.ColorRGB); hex != "" {
		rpr.SolidFill = solidHex(hex)
	}
}

func spacingPoints(pts float64) *dml.CT_TextSpacing {
	spc := dml.NewCT_TextSpacing()
	spc.SpcPts = dml.NewCT_TextSpacingPoint()
	spc.SpcPts.ValAttr = int32(pts * 100)
	return spc
}

// recreateShape copies a pass-through shape onto the new slide. Only text
// boxes are recreated; other pass-through shapes (background art, pictures)
// are dropped, a known fidelity gap. Run formatting carries font, size and
// bold only.
func (g *Generator) recreateShape(slide presentation.Slide, shape *TemplateShape) {
	if !shape.IsTextBox {
		return
	}
	sp := newSlideShape(slide, shape.Name, shape.Left, shape.Top, shape.Width, shape.Height)
	sp.NvSpPr.CNvSpPr.TxBoxAttr = unioffice.Bool(true)
	sp.TxBody.BodyPr.WrapAttr = dml.ST_TextWrappingTypeSquare

	for _, para := range shape.Paragraphs {
		p := addParagraph(sp)
		if para.Align != dml.ST_TextAlignTypeUnset {
			paragraphProps(p).AlgnAttr = para.Align
		}
		for _, run := range para.Runs {
			r := addRun(p, run.Text)
			rpr := runProps(r)
			if run.Font != "" {
				rpr.Latin = dml.NewCT_TextFont()
				rpr.Latin.TypefaceAttr = run.Font
			}
			if run.SizePts > 0 {
				rpr.SzAttr = unioffice.Int32(int32(run.SizePts * 100))
			}
			if run.Bold != nil {
				rpr.BAttr = unioffice.Bool(*run.Bold)
			}
		}
	}
}

// Blank-mode path: no template shapes at all.

// populateBlankSlide lays out one slide from scratch: an optional image in
// the configured bounding box plus text boxes per the column positioning
// config.
func (g *Generator) populateBlankSlide(ppt *presentation.Presentation, slide presentation.Slide, rec SlideRecord, embedded map[string]ImageResult, res *SlideResult) {
	img := g.resolveImage(rec.ImageSrc, rec.ImageCell, embedded)
	if img != nil {
		if img.OK() {
			if err := g.addBlankImage(ppt, slide, img.ImageData); err != nil {
				res.ImageError = err.Error()
				g.log.Warn("image add failed", "row", rec.RowIndex, "error", err)
			} else {
				res.HasImage = true
			}
		} else if img.Err != nil {
			res.ImageError = img.Err.Error()
			g.log.Warn("image load failed", "row", rec.RowIndex, "error", img.Err)
		}
	}

	if len(rec.TextItems) > 0 {
		if err := g.addBlankText(ppt, slide, rec.TextItems); err != nil {
			res.Error = fmt.Sprintf("text add failed: %v", err)
			g.log.Warn("text add failed", "row", rec.RowIndex, "error", err)
		} else {
			res.TextAdded = true
		}
	}
}

// addBlankImage scales the image per the configured mode and aligns it in
// the configured bounding box. The box's left edge follows the horizontal
// alignment; vertical placement happens inside the box.
func (g *Generator) addBlankImage(ppt *presentation.Presentation, slide presentation.Slide, img ImageData) error {
	width, height := ScaledSize(img.Width, img.Height, g.cfg.ImgWidth, g.cfg.ImgHeight, g.cfg.ImgSize)

	align := g.cfg.GetImageAlignment()
	slideW, _ := slideSizeInches(ppt)

	var boxLeft float64
	switch align.Horizontal {
	case AlignLeft:
		boxLeft = g.cfg.ImgLeft
	case AlignRight:
		boxLeft = slideW - g.cfg.ImgWidth - g.cfg.ImgLeft
		if boxLeft < 0 {
			boxLeft = 0
		}
	default:
		boxLeft = (slideW - g.cfg.ImgWidth) / 2
	}

	left, top := ImagePosition(width, height, boxLeft, g.cfg.ImgTop, g.cfg.ImgWidth, g.cfg.ImgHeight, align)
	return g.placeImage(ppt, slide, img, left, top, width, height)
}

// addBlankText separates auto-flow columns from fixed-position columns:
// auto items share one sequential text box, fixed items each get a
// standalone box at explicit coordinates. Fixed mode alone selects the
// standalone box; top zero is a valid anchor.
func (g *Generator) addBlankText(ppt *presentation.Presentation, slide presentation.Slide, items []TextItem) error {
	var auto []TextItem
	type fixedItem struct {
		item TextItem
		pos  ColumnPosition
	}
	var fixed []fixedItem

	for _, it := range items {
		if pos, ok := g.cfg.GetColumnPosition(it.Column); ok && pos.Mode == "fixed" {
			fixed = append(fixed, fixedItem{it, pos})
		} else {
			auto = append(auto, it)
		}
	}

	if len(auto) > 0 {
		g.addTextAutoFlow(ppt, slide, auto)
	}
	for _, f := range fixed {
		g.addTextFixed(ppt, slide, f.item, f.pos)
	}
	return nil
}

func (g *Generator) addTextAutoFlow(ppt *presentation.Presentation, slide presentation.Slide, items []TextItem) {
	slideW, slideH := slideSizeInches(ppt)
	height := slideH - g.cfg.TextTop - 0.5
	width := slideW - g.cfg.TextLeft - 0.5
	if width < 1.0 {
		width = 1.0
	}

	sp := g.newTextBoxShape(slide, "", g.cfg.TextLeft, g.cfg.TextTop, width, height)
	for _, it := range items {
		g.addFormattedParagraph(sp, it)
	}
}

func (g *Generator) addTextFixed(ppt *presentation.Presentation, slide presentation.Slide, item TextItem, pos ColumnPosition) {
	slideW, _ := slideSizeInches(ppt)
	width := pos.Width
	if width <= 0 {
		width = slideW - 1.0
	}
	// Fixed boxes get a nominal height; the frame resizes to its content.
	sp := g.newTextBoxShape(slide, "", pos.Left, pos.Top, width, 1.5)
	g.addFormattedParagraph(sp, item)
}

func (g *Generator) addFormattedParagraph(sp *pml.CT_Shape, item TextItem) {
	format := g.cfg.GetColumnFormat(item.Column)

	p := addParagraph(sp)
	pp := paragraphProps(p)
	pp.AlgnAttr = g.cfg.TextAlign()
	pp.SpcAft = spacingPoints(g.cfg.ParagraphSpacing)

	r := addRun(p, item.Text)
	rpr := runProps(r)
	if format.FontName != "" {
		rpr.Latin = dml.NewCT_TextFont()
		rpr.Latin.TypefaceAttr = format.FontName
	}
	if format.FontSize > 0 {
		rpr.SzAttr = unioffice.Int32(int32(format.FontSize * 100))
	}
	rpr.BAttr = unioffice.Bool(format.Bold)
	if format.Italic {
		rpr.IAttr = unioffice.Bool(true)
	}
	rpr.SolidFill = solidHex(format.HexColor())
}

func slideSizeInches(p *presentation.Presentation) (float64, float64) {
	if sz := p.X().SldSz; sz != nil {
		return emuToInches(int64(sz.CxAttr)), emuToInches(int64(sz.CyAttr))
	}
	return 10, 7.5
}
