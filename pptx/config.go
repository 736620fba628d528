package pptx

import (
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/dml"
)

// SizeMode selects how an image is scaled into its bounding box.
type SizeMode string

const (
	// SizeFitBox fits within width and height, preserving aspect ratio.
	SizeFitBox SizeMode = "fit_box"
	// SizeFitWidth uses the full box width, height follows the aspect ratio.
	SizeFitWidth SizeMode = "fit_width"
	// SizeFitHeight uses the full box height, width follows the aspect ratio.
	SizeFitHeight SizeMode = "fit_height"
	// SizeStretch uses the exact box size, ignoring aspect ratio.
	SizeStretch SizeMode = "stretch"
)

// TemplateMode selects between freshly laid-out slides and template cloning.
type TemplateMode string

const (
	// ModeBlank lays out each slide from scratch.
	ModeBlank TemplateMode = "blank"
	// ModePlaceholder clones and repopulates a user-supplied template slide.
	ModePlaceholder TemplateMode = "placeholder"
)

// Alignment grid values.
const (
	AlignTop    = "top"
	AlignCenter = "center"
	AlignBottom = "bottom"
	AlignLeft   = "left"
	AlignRight  = "right"
)

// ImageAlignment positions an image within its bounding box.
type ImageAlignment struct {
	Vertical   string // top | center | bottom
	Horizontal string // left | center | right
}

// ColumnFormat is font formatting for a single text column.
type ColumnFormat struct {
	Column   string
	FontSize float64 // points
	Bold     bool
	Italic   bool
	FontName string
	Color    string // "RRGGBB", no leading #
}

// HexColor returns the normalized "RRGGBB" color, defaulting to black on a
// malformed value.
func (f ColumnFormat) HexColor() string {
	if h := normalizeHex(f.Color); h != "" {
		return h
	}
	return "000000"
}

// normalizeHex strips a leading '#' and an ARGB alpha prefix, returning the
// uppercase "RRGGBB" value, or "" when malformed.
func normalizeHex(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return ""
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return ""
	}
	return strings.ToUpper(hex)
}

// ColumnPosition is per-column text placement for blank mode. Auto columns
// flow sequentially in a shared text box; fixed columns get their own box at
// an explicit position so they anchor to the same spot on every slide.
type ColumnPosition struct {
	Mode  string  // "auto" | "fixed"
	Top   float64 // inches, fixed mode only
	Left  float64 // inches
	Width float64 // inches, 0 = slide width minus margins
}

// ImageElement addresses one image column to one named template placeholder.
type ImageElement struct {
	Column      string
	Placeholder string
	SizeMode    SizeMode
	Alignment   *ImageAlignment
}

// TextGroup addresses a set of text columns to one named template placeholder.
type TextGroup struct {
	Columns     []string
	Placeholder string
	Separator   string // non-empty joins all columns into one entry
}

// SlideConfig is the immutable-per-run generation configuration.
type SlideConfig struct {
	ImgColumn   string
	TextColumns []string

	// Image bounding box and sizing.
	ImgWidth  float64 // inches; max width for fit_box
	ImgHeight float64
	ImgSize   SizeMode
	ImgTop    float64 // blank mode box top, inches
	ImgLeft   float64 // blank mode box left margin, inches
	ImgAlign  *ImageAlignment

	// Blank mode text layout.
	TextTop       float64 // inches
	TextLeft      float64
	TextAlignment string // left | center | right
	FontSize      float64
	Orientation   string // portrait | landscape

	ParagraphSpacing float64 // points of space-after per paragraph
	TextOverflowMode string  // "" = resize shape, "shrink" = shrink text to fit

	ColumnFormats   map[string]ColumnFormat
	ColumnPositions map[string]ColumnPosition

	// Template placeholder addressing.
	TemplateMode     TemplateMode
	ImagePlaceholder string // legacy single-image name, substring match
	TextPlaceholder  string // legacy single-textbox name, substring match

	// Multi-element addressing. When set (even to an empty slice) these
	// supersede the legacy scalar fields and switch matching to exact.
	ImageElements []ImageElement
	TextGroups    []TextGroup
}

// DefaultSlideConfig mirrors the application defaults.
func DefaultSlideConfig() *SlideConfig {
	return &SlideConfig{
		ImgColumn:        "B",
		TextColumns:      []string{"C", "D", "E", "F"},
		ImgWidth:         5.5,
		ImgHeight:        4.0,
		ImgSize:          SizeFitBox,
		ImgTop:           0.5,
		ImgLeft:          0.5,
		TextTop:          5.0,
		TextLeft:         0.5,
		TextAlignment:    AlignCenter,
		FontSize:         14,
		Orientation:      "portrait",
		TemplateMode:     ModeBlank,
		ImagePlaceholder: "Rectangle 1",
		TextPlaceholder:  "TextBox",
	}
}

// GetColumnFormat returns the format for a column, falling back to the
// global font size.
func (c *SlideConfig) GetColumnFormat(column string) ColumnFormat {
	if f, ok := c.ColumnFormats[column]; ok {
		return f
	}
	return ColumnFormat{
		Column:   column,
		FontSize: c.FontSize,
		FontName: "Calibri",
		Color:    "000000",
	}
}

// GetImageAlignment returns the image alignment, defaulting to center/center.
func (c *SlideConfig) GetImageAlignment() ImageAlignment {
	if c.ImgAlign != nil {
		return *c.ImgAlign
	}
	return ImageAlignment{Vertical: AlignCenter, Horizontal: AlignCenter}
}

// GetColumnPosition returns the position config for a column, or false for
// auto flow.
func (c *SlideConfig) GetColumnPosition(column string) (ColumnPosition, bool) {
	p, ok := c.ColumnPositions[column]
	return p, ok
}

// TextAlign maps the configured text alignment onto the drawing enum.
func (c *SlideConfig) TextAlign() dml.ST_TextAlignType {
	switch c.TextAlignment {
	case AlignLeft:
		return dml.ST_TextAlignTypeL
	case AlignRight:
		return dml.ST_TextAlignTypeR
	default:
		return dml.ST_TextAlignTypeCtr
	}
}

// GetImageElements returns the image element list, synthesizing a single-item
// list from the legacy scalar fields when unset so callers never special-case.
func (c *SlideConfig) GetImageElements() []ImageElement {
	if c.ImageElements != nil {
		return c.ImageElements // explicit list, even if empty
	}
	return []ImageElement{{
		Column:      c.ImgColumn,
		Placeholder: c.ImagePlaceholder,
		SizeMode:    c.ImgSize,
		Alignment:   c.ImgAlign,
	}}
}

// GetTextGroups returns the text group list, synthesizing a single-item list
// from the legacy scalar fields when unset.
func (c *SlideConfig) GetTextGroups() []TextGroup {
	if c.TextGroups != nil {
		return c.TextGroups // explicit list, even if empty
	}
	if len(c.TextColumns) == 0 {
		return nil
	}
	return []TextGroup{{
		Columns:     c.TextColumns,
		Placeholder: c.TextPlaceholder,
	}}
}

// exactMatch reports whether placeholder matching is exact rather than
// substring. Multi-element configuration requires exact addressing across
// several named placeholders; legacy behavior tolerated partial names
// ("TextBox" matching "TextBox 55").
func (c *SlideConfig) exactMatch() bool {
	return len(c.ImageElements) > 0 || len(c.TextGroups) > 0
}
