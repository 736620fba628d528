package pptx

import (
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/dml"
)

// Intermediate representation for template slides and row data.

// Geometry values are inches to allow fractional positions; conversion to
// EMUs happens only at the unioffice boundary.

// ShapeKind classifies a template shape once during introspection.
type ShapeKind int

const (
	// ShapePassThrough shapes are recreated verbatim on every generated slide.
	ShapePassThrough ShapeKind = iota
	// ShapeImageTarget shapes receive a resolved image per row.
	ShapeImageTarget
	// ShapeTextTarget shapes receive mapped column text per row.
	ShapeTextTarget
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeImageTarget:
		return "image"
	case ShapeTextTarget:
		return "text"
	}
	return "pass-through"
}

// TemplateRun captures one text run's formatting from the template.
type TemplateRun struct {
	Text     string
	Font     string  // empty = inherit
	SizePts  float64 // 0 = inherit
	Bold     *bool   // nil = inherit
	Italic   *bool   // nil = inherit
	ColorRGB string  // "RRGGBB", empty = inherit
}

func (r TemplateRun) String() string {
	return fmt.Sprintf("Text: %q, Font: %s, SizePts: %.1f, ColorRGB: %s", r.Text, r.Font, r.SizePts, r.ColorRGB)
}

// TemplateParagraph captures one paragraph of a template text frame.
type TemplateParagraph struct {
	Text  string
	Align dml.ST_TextAlignType // unset = template default
	Runs  []TemplateRun
}

// IsSpacer reports whether the paragraph is a blank-line placeholder: it has
// no runs, or every run's text is empty or whitespace.
func (p TemplateParagraph) IsSpacer() bool {
	for _, r := range p.Runs {
		if strings.TrimSpace(r.Text) != "" {
			return false
		}
	}
	return true
}

func (p TemplateParagraph) String() string {
	return fmt.Sprintf("Text: %q, Runs: %d", p.Text, len(p.Runs))
}

// TextMargins are text frame insets in inches.
type TextMargins struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
	Set    bool // false = template did not specify insets
}

// TemplateShape is one shape on the template's first slide, captured once per
// generation run and read-only afterwards. Every row gets a fresh clone of
// its geometry and formatting; the original is never mutated.
type TemplateShape struct {
	Name      string
	Kind      ShapeKind
	Left      float64 // inches
	Top       float64
	Width     float64
	Height    float64
	IsTextBox bool // shape carries <a:txBox>, recreated on pass-through
	AutoShape bool // preset-geometry shape, used for the "No Image" placeholder
	Paragraphs []TemplateParagraph
	Margins    TextMargins
	VAnchor    dml.ST_TextAnchoringType // unset = template default
}

func (s TemplateShape) String() string {
	return fmt.Sprintf("Name: %s, Kind: %s, Left: %.2f, Top: %.2f, Width: %.2f, Height: %.2f, Paragraphs: %d",
		s.Name, s.Kind, s.Left, s.Top, s.Width, s.Height, len(s.Paragraphs))
}

// TemplateInfo is the product of one introspection pass over a template
// slide. Shapes preserves document order; the maps are keyed by the original
// shape name. Shape names are assumed unique for matching to be unambiguous;
// this is not enforced and the first match wins.
type TemplateInfo struct {
	Shapes      []*TemplateShape
	ImageShapes map[string]*TemplateShape
	TextShapes  map[string]*TemplateShape
}

func (ti *TemplateInfo) String() string {
	return fmt.Sprintf("Shapes: %d, ImageShapes: %d, TextShapes: %d",
		len(ti.Shapes), len(ti.ImageShapes), len(ti.TextShapes))
}

// TextItem is one resolved {column label, text} pair from a spreadsheet row.
type TextItem struct {
	Column string
	Text   string
}

// ImageSource references one image for a row: a file path or an embedded
// image's anchor cell, addressed to a named template placeholder.
type ImageSource struct {
	Source      string // file path, empty if embedded-only
	Cell        string // anchor cell reference, e.g. "B2"
	Placeholder string // template shape name to populate
}

// TextContent is one group of text items addressed to a named placeholder.
type TextContent struct {
	Placeholder string
	Items       []TextItem
}

// SlideRecord is one spreadsheet row's resolved content.
//
// A record is either legacy-shaped (ImageSrc/ImageCell/TextItems) or
// multi-element (ImageSources/TextGroups). Multi-element is detected
// structurally: a non-nil ImageSources or TextGroups slice, even when empty,
// selects the multi path. A record is never partially multi and legacy.
type SlideRecord struct {
	RowIndex int

	// Legacy shape.
	ImageSrc  string
	ImageCell string
	TextItems []TextItem

	// Multi-element shape.
	ImageSources []ImageSource
	TextGroups   []TextContent
}

// MultiElement reports whether the record selects the multi-element path.
func (r SlideRecord) MultiElement() bool {
	return r.ImageSources != nil || r.TextGroups != nil
}

func (r SlideRecord) String() string {
	return fmt.Sprintf("RowIndex: %d, Multi: %t, TextItems: %d, ImageSources: %d, TextGroups: %d",
		r.RowIndex, r.MultiElement(), len(r.TextItems), len(r.ImageSources), len(r.TextGroups))
}

// ImageData is a resolved, decoded image ready for placement.
type ImageData struct {
	Bytes  []byte
	Width  int // pixels
	Height int
	Format string
}

// ImageResult is the outcome of resolving one image reference. Resolution
// failures are non-fatal: the shape renders as a labeled placeholder box and
// the error is recorded on the slide result.
type ImageResult struct {
	ImageData
	Err error
}

// OK reports whether the result carries usable image data.
func (r ImageResult) OK() bool {
	return r.Err == nil && len(r.Bytes) > 0
}

// ImageLoader resolves file paths to images. Embedded images are supplied
// separately as a cell-keyed map.
type ImageLoader interface {
	LoadFromPath(path string) ImageResult
}

// LoaderFunc adapts a function to the ImageLoader interface.
type LoaderFunc func(path string) ImageResult

// LoadFromPath calls f(path).
func (f LoaderFunc) LoadFromPath(path string) ImageResult { return f(path) }
