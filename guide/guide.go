// Package guide generates the companion user-guide document for the
// converter. Static content, no engine dependencies.
package guide

import (
	"strconv"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

var (
	headingBlue = color.RGB(0x2E, 0x74, 0xB5)
	accentBlue  = color.RGB(0x44, 0x72, 0xC4)
	subtleGray  = color.RGB(0x66, 0x66, 0x66)
	tipGreen    = color.RGB(0x28, 0xA7, 0x45)
	boxBlue     = color.RGB(0xE7, 0xF3, 0xFF)
	boxYellow   = color.RGB(0xFF, 0xF3, 0xCD)
)

// Build produces the user guide. The caller owns serialization.
func Build() *document.Document {
	doc := document.New()

	titlePage(doc)
	introduction(doc)
	preparing(doc)
	using(doc)
	options(doc)
	troubleshooting(doc)

	return doc
}

func heading(doc *document.Document, text string, level int) {
	p := doc.AddParagraph()
	switch level {
	case 1:
		p.SetStyle("Heading1")
	case 2:
		p.SetStyle("Heading2")
	default:
		p.SetStyle("Heading3")
	}
	r := p.AddRun()
	r.AddText(text)
	r.Properties().SetColor(headingBlue)
}

func body(doc *document.Document, text string) document.Run {
	p := doc.AddParagraph()
	r := p.AddRun()
	r.AddText(text)
	return r
}

func bullet(doc *document.Document, text string) {
	p := doc.AddParagraph()
	check := p.AddRun()
	check.AddText("✓ ")
	check.Properties().SetColor(tipGreen)
	p.AddRun().AddText(text)
}

// infoBox renders a single-cell shaded table used for tips and warnings.
func infoBox(doc *document.Document, label, text string, fill color.Color) {
	table := doc.AddTable()
	table.Properties().SetWidthPercent(100)
	table.Properties().Borders().SetAll(wml.ST_BorderSingle, accentBlue, 1*measurement.Point)

	cell := table.AddRow().AddCell()
	cell.Properties().SetShading(wml.ST_ShdSolid, fill, fill)

	p := cell.AddParagraph()
	lr := p.AddRun()
	lr.AddText(label + " ")
	lr.Properties().SetBold(true)
	p.AddRun().AddText(text)

	doc.AddParagraph()
}

func tip(doc *document.Document, text string) {
	infoBox(doc, "💡 TIP:", text, boxBlue)
}

func warning(doc *document.Document, text string) {
	infoBox(doc, "⚠ WARNING:", text, boxYellow)
}

// stepTable renders numbered steps in a two-column table.
func stepTable(doc *document.Document, steps []string) {
	table := doc.AddTable()
	table.Properties().SetWidthPercent(100)
	table.Properties().Borders().SetAll(wml.ST_BorderSingle, subtleGray, 0.5*measurement.Point)

	for i, step := range steps {
		row := table.AddRow()

		num := row.AddCell()
		np := num.AddParagraph()
		nr := np.AddRun()
		nr.AddText(stepNumber(i))
		nr.Properties().SetBold(true)
		nr.Properties().SetColor(accentBlue)

		row.AddCell().AddParagraph().AddRun().AddText(step)
	}

	doc.AddParagraph()
}

func stepNumber(i int) string {
	return strconv.Itoa(i+1) + "."
}

func titlePage(doc *document.Document) {
	doc.AddParagraph()
	doc.AddParagraph()

	title := doc.AddParagraph()
	title.Properties().SetAlignment(wml.ST_JcCenter)
	tr := title.AddRun()
	tr.AddText("deckgen")
	tr.Properties().SetBold(true)
	tr.Properties().SetSize(48 * measurement.Point)
	tr.Properties().SetColor(headingBlue)

	subtitle := doc.AddParagraph()
	subtitle.Properties().SetAlignment(wml.ST_JcCenter)
	sr := subtitle.AddRun()
	sr.AddText("Excel to PowerPoint Converter")
	sr.Properties().SetSize(24 * measurement.Point)
	sr.Properties().SetColor(subtleGray)

	doc.AddParagraph()

	label := doc.AddParagraph()
	label.Properties().SetAlignment(wml.ST_JcCenter)
	lr := label.AddRun()
	lr.AddText("USER GUIDE")
	lr.Properties().SetBold(true)
	lr.Properties().SetSize(18 * measurement.Point)
	lr.Properties().SetColor(accentBlue)

	doc.AddParagraph().AddRun().AddPageBreak()
}

func introduction(doc *document.Document) {
	heading(doc, "1. Introduction", 1)
	heading(doc, "What does it do?", 2)

	body(doc, "deckgen converts spreadsheet data into slide decks: one slide per row, "+
		"pairing an image with formatted text. It saves hours of manual work by automatically:")

	for _, feature := range []string{
		"Extracting embedded images from Excel cells",
		"Creating individual slides for each data row",
		"Formatting text with custom fonts, sizes, and colors",
		"Populating named placeholders in your own PowerPoint template",
		"Handling errors gracefully (a missing image won't stop the run)",
	} {
		bullet(doc, feature)
	}

	doc.AddParagraph()
	tip(doc, "Perfect for product catalogs, variety cards, photo albums, and any deck "+
		"where every slide follows the same format.")
}

func preparing(doc *document.Document) {
	heading(doc, "2. Preparing Your Excel File", 1)

	body(doc, "The first row must be a header row. Each following row becomes one slide. "+
		"One column holds the image (an embedded picture or a file path); the remaining "+
		"columns hold text.")

	stepTable(doc, []string{
		"Put column names in row 1 (e.g. Name, Image, Description).",
		"Insert pictures into cells, or enter image file paths.",
		"Keep one row per slide; empty cells are skipped.",
		"Save as .xlsx.",
	})

	warning(doc, "Images over the configured size limit are rejected and render as a "+
		"labeled placeholder box on their slide.")
}

func using(doc *document.Document) {
	heading(doc, "3. Using deckgen", 1)

	stepTable(doc, []string{
		"Run: deckgen generate data.xlsx -o deck.pptx",
		"Pick the image column (--image-column B) and text columns (--text-columns C,D,E).",
		"Optionally supply a template: --template layout.pptx --template-mode placeholder",
		"Open the generated deck and review the per-slide results printed at the end.",
	})

	heading(doc, "Template mode", 2)
	body(doc, "In placeholder mode the first slide of your template is treated as a blueprint. "+
		"Shapes whose names match the configured placeholders are repopulated per row; all other "+
		"text boxes are copied as-is. Empty template paragraphs act as spacer lines and stay blank.")
}

func options(doc *document.Document) {
	heading(doc, "4. Configuration Options", 1)

	heading(doc, "Image sizing", 2)
	for _, mode := range []string{
		"fit_box: largest size that fits the box, aspect ratio preserved (default)",
		"fit_width: fixed width, height follows the aspect ratio",
		"fit_height: fixed height, width follows the aspect ratio",
		"stretch: exact box size, may distort",
	} {
		bullet(doc, mode)
	}

	heading(doc, "Alignment", 2)
	body(doc, "Images align within their bounding box on a 3×3 grid: top/center/bottom "+
		"and left/center/right.")

	heading(doc, "Per-column formatting", 2)
	body(doc, "Each text column can carry its own font, size, bold/italic flags, and color. "+
		"Columns may also be pinned to fixed positions so a field appears at the same spot "+
		"on every slide.")
}

func troubleshooting(doc *document.Document) {
	heading(doc, "5. Troubleshooting", 1)

	for _, item := range []struct{ problem, fix string }{
		{"A slide shows a \"No Image\" box", "the image was missing, too large, or not a supported format; check the per-slide error in the summary."},
		{"Text lands in the wrong template slot", "check the placeholder names and remember spacer (empty) paragraphs keep their positions."},
		{"The whole run fails immediately", "the template file could not be read, or the spreadsheet has no data rows."},
	} {
		p := doc.AddParagraph()
		r := p.AddRun()
		r.AddText(item.problem + ": ")
		r.Properties().SetBold(true)
		p.AddRun().AddText(item.fix)
	}

	doc.AddParagraph()
	tip(doc, "Generation never stops on a single bad row; check slidesWithErrors in the "+
		"summary to find rows that need attention.")
}
