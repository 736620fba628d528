package pptx

import (
	"strings"

	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/presentation"
	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/pml"
)

// Template introspection: one pass over the template's first slide, building
// a shape-name -> metadata table and classifying every shape as image
// target, text target, or pass-through.

func emuToInches(v int64) float64 {
	return float64(v) / float64(measurement.Inch)
}

func coordEMU(c dml.ST_Coordinate) int64 {
	if c.ST_CoordinateUnqualified != nil {
		return *c.ST_CoordinateUnqualified
	}
	return 0
}

func coord32EMU(c *dml.ST_Coordinate32) int64 {
	if c == nil || c.ST_Coordinate32Unqualified == nil {
		return 0
	}
	return int64(*c.ST_Coordinate32Unqualified)
}

// ExtractTemplateInfo captures shape metadata from a template slide.
//
// Matching is exact (case-insensitive) when the config carries multi-element
// lists, substring otherwise. Image classification runs before text: a shape
// matched as an image target is never also considered for text, even if its
// name would match a text placeholder. Shapes matching neither are captured
// as pass-throughs for verbatim recreation.
func ExtractTemplateInfo(slide presentation.Slide, cfg *SlideConfig) *TemplateInfo {
	info := &TemplateInfo{
		ImageShapes: make(map[string]*TemplateShape),
		TextShapes:  make(map[string]*TemplateShape),
	}

	exact := cfg.exactMatch()

	var imageNames []string
	if len(cfg.ImageElements) > 0 {
		for _, el := range cfg.ImageElements {
			if strings.TrimSpace(el.Placeholder) != "" {
				imageNames = append(imageNames, strings.ToLower(el.Placeholder))
			}
		}
	} else {
		imageNames = []string{strings.ToLower(cfg.ImagePlaceholder)}
	}

	var textNames []string
	if len(cfg.TextGroups) > 0 {
		for _, tg := range cfg.TextGroups {
			if strings.TrimSpace(tg.Placeholder) != "" {
				textNames = append(textNames, strings.ToLower(tg.Placeholder))
			}
		}
	} else {
		textNames = []string{strings.ToLower(cfg.TextPlaceholder)}
	}

	for _, sp := range slideShapes(slide.X()) {
		shape := extractShape(sp)

		lower := strings.ToLower(shape.Name)
		if matchesAny(lower, imageNames, exact) {
			shape.Kind = ShapeImageTarget
			info.ImageShapes[shape.Name] = shape
		} else if matchesAny(lower, textNames, exact) {
			shape.Kind = ShapeTextTarget
			info.TextShapes[shape.Name] = shape
		}

		info.Shapes = append(info.Shapes, shape)
	}

	return info
}

func matchesAny(name string, placeholders []string, exact bool) bool {
	for _, p := range placeholders {
		if exact {
			if name == p {
				return true
			}
		} else if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// slideShapes collects the slide's <p:sp> elements in document order.
// Pictures, group shapes and graphic frames are not captured; non-text
// pass-throughs are not recreated on generated slides.
func slideShapes(sld *pml.Sld) []*pml.CT_Shape {
	if sld == nil || sld.CSld == nil || sld.CSld.SpTree == nil {
		return nil
	}
	var shapes []*pml.CT_Shape
	for _, choice := range sld.CSld.SpTree.Choice {
		shapes = append(shapes, choice.Sp...)
	}
	return shapes
}

func extractShape(sp *pml.CT_Shape) *TemplateShape {
	shape := &TemplateShape{}

	if sp.NvSpPr != nil && sp.NvSpPr.CNvPr != nil {
		shape.Name = sp.NvSpPr.CNvPr.NameAttr
	}
	if sp.NvSpPr != nil && sp.NvSpPr.CNvSpPr != nil && sp.NvSpPr.CNvSpPr.TxBoxAttr != nil {
		shape.IsTextBox = *sp.NvSpPr.CNvSpPr.TxBoxAttr
	}

	if sp.SpPr != nil {
		if xfrm := sp.SpPr.Xfrm; xfrm != nil {
			if xfrm.Off != nil {
				shape.Left = emuToInches(coordEMU(xfrm.Off.XAttr))
				shape.Top = emuToInches(coordEMU(xfrm.Off.YAttr))
			}
			if xfrm.Ext != nil {
				shape.Width = emuToInches(xfrm.Ext.CxAttr)
				shape.Height = emuToInches(xfrm.Ext.CyAttr)
			}
		}
		shape.AutoShape = sp.SpPr.PrstGeom != nil && !shape.IsTextBox
	}

	if sp.TxBody != nil {
		shape.Paragraphs = extractParagraphs(sp.TxBody)
		if bp := sp.TxBody.BodyPr; bp != nil {
			shape.VAnchor = bp.AnchorAttr
			if bp.LInsAttr != nil || bp.TInsAttr != nil || bp.RInsAttr != nil || bp.BInsAttr != nil {
				shape.Margins.Set = true
				shape.Margins.Left = emuToInches(coord32EMU(bp.LInsAttr))
				shape.Margins.Top = emuToInches(coord32EMU(bp.TInsAttr))
				shape.Margins.Right = emuToInches(coord32EMU(bp.RInsAttr))
				shape.Margins.Bottom = emuToInches(coord32EMU(bp.BInsAttr))
			}
		}
	}

	return shape
}

// extractParagraphs fails softly: a malformed text body records the shape
// with no paragraphs instead of aborting the whole extraction.
func extractParagraphs(tx *dml.CT_TextBody) (paras []TemplateParagraph) {
	defer func() {
		if recover() != nil {
			paras = nil
		}
	}()

	for _, p := range tx.P {
		para := TemplateParagraph{}
		if p.PPr != nil {
			para.Align = p.PPr.AlgnAttr
		}
		for _, eg := range p.EG_TextRun {
			if eg.R == nil {
				continue
			}
			run := TemplateRun{Text: eg.R.T}
			if rpr := eg.R.RPr; rpr != nil {
				if rpr.SzAttr != nil {
					run.SizePts = float64(*rpr.SzAttr) / 100
				}
				run.Bold = rpr.BAttr
				run.Italic = rpr.IAttr
				if rpr.Latin != nil {
					run.Font = rpr.Latin.TypefaceAttr
				}
				if rpr.SolidFill != nil && rpr.SolidFill.SrgbClr != nil {
					run.ColorRGB = rpr.SolidFill.SrgbClr.ValAttr
				}
			}
			para.Text += run.Text
			para.Runs = append(para.Runs, run)
		}
		paras = append(paras, para)
	}
	return paras
}
