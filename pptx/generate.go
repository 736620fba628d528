package pptx

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/unidoc/unioffice/presentation"
	"github.com/unidoc/unioffice/schema/soo/pml"
)

// Default page sizes for freshly created decks, inches.
const (
	portraitWidthIn   = 7.5
	portraitHeightIn  = 10.0
	landscapeWidthIn  = 10.0
	landscapeHeightIn = 7.5
)

// ProgressFunc reports generation progress. It is called once before the row
// loop with current=0 and once per row with current=i+1. Failures inside the
// callback are the caller's responsibility.
type ProgressFunc func(status string, current, total int)

// SlideResult is the outcome of generating a single slide.
type SlideResult struct {
	Index      int
	Success    bool
	HasImage   bool
	ImageError string
	TextAdded  bool
	Error      string
}

// GenerationResult aggregates a whole run. Built incrementally, immutable
// once returned. The aggregated counts are the sole error-reporting surface;
// the engine formats no user-facing messages.
type GenerationResult struct {
	Success          bool
	Presentation     *presentation.Presentation
	SlidesGenerated  int
	SlidesWithImages int
	SlidesWithErrors int
	Slides           []SlideResult
	Err              error
}

// Generator builds a presentation from slide records. One generation run is
// a single synchronous call stack; nothing here is safe for concurrent use
// of the same target presentation.
type Generator struct {
	cfg    *SlideConfig
	loader ImageLoader
	log    *slog.Logger

	// Page size override for fresh decks, inches. Zero derives from the
	// configured orientation.
	PageWidth  float64
	PageHeight float64
}

// NewGenerator returns a generator for the given config. A nil config uses
// defaults, a nil logger discards nothing (slog default).
func NewGenerator(cfg *SlideConfig, loader ImageLoader, log *slog.Logger) *Generator {
	if cfg == nil {
		cfg = DefaultSlideConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{cfg: cfg, loader: loader, log: log}
}

// Generate builds the deck. Empty records and template load failures are
// fatal; everything else is per-row and isolated. Template introspection
// runs exactly once regardless of row count. In placeholder mode the
// template's own slide (index 0) is removed after all rows are populated.
func (g *Generator) Generate(records []SlideRecord, embedded map[string]ImageResult, templateBytes []byte, onProgress ProgressFunc) GenerationResult {
	if len(records) == 0 {
		return GenerationResult{Err: ErrNoRecords}
	}

	ppt, info, err := g.createPresentation(templateBytes)
	if err != nil {
		g.log.Error("presentation setup failed", "error", err)
		return GenerationResult{Err: err}
	}

	total := len(records)
	if onProgress != nil {
		onProgress("Creating slides...", 0, total)
	}

	result := GenerationResult{Success: true, Presentation: ppt}

	for i, rec := range records {
		if onProgress != nil {
			onProgress(fmt.Sprintf("Creating slide %d/%d", i+1, total), i+1, total)
		}

		var res SlideResult
		if g.cfg.TemplateMode == ModePlaceholder && info != nil {
			res = g.createTemplateSlide(ppt, rec, embedded, info)
		} else {
			res = g.createBlankSlide(ppt, rec, embedded)
		}
		result.Slides = append(result.Slides, res)

		if res.HasImage {
			result.SlidesWithImages++
		}
		if res.ImageError != "" || res.Error != "" {
			result.SlidesWithErrors++
		}
	}
	result.SlidesGenerated = total

	if g.cfg.TemplateMode == ModePlaceholder && info != nil {
		g.removeSlide(ppt, 0)
	}

	g.log.Info("generated presentation",
		"slides", total,
		"withImages", result.SlidesWithImages,
		"withErrors", result.SlidesWithErrors)

	return result
}

// createPresentation loads the template or creates a fresh deck sized per
// orientation. A corrupt template aborts the run; there is no row to skip.
func (g *Generator) createPresentation(templateBytes []byte) (*presentation.Presentation, *TemplateInfo, error) {
	if len(templateBytes) > 0 {
		ppt, err := presentation.Read(bytes.NewReader(templateBytes), int64(len(templateBytes)))
		if err != nil {
			return nil, nil, &GenerationError{Op: "load_template", Err: err}
		}

		var info *TemplateInfo
		if g.cfg.TemplateMode == ModePlaceholder && len(ppt.Slides()) > 0 {
			info = ExtractTemplateInfo(ppt.Slides()[0], g.cfg)
			g.log.Info("extracted template info",
				"shapes", len(info.Shapes),
				"imageShapes", len(info.ImageShapes),
				"textShapes", len(info.TextShapes))
		}
		return ppt, info, nil
	}

	ppt := presentation.New()
	w, h := g.pageSize()
	if ppt.X().SldSz == nil {
		ppt.X().SldSz = pml.NewCT_SlideSize()
	}
	ppt.X().SldSz.CxAttr = int32(inches(w))
	ppt.X().SldSz.CyAttr = int32(inches(h))
	return ppt, nil, nil
}

func (g *Generator) pageSize() (float64, float64) {
	if g.PageWidth > 0 && g.PageHeight > 0 {
		return g.PageWidth, g.PageHeight
	}
	if g.cfg.Orientation == "landscape" {
		return landscapeWidthIn, landscapeHeightIn
	}
	return portraitWidthIn, portraitHeightIn
}

// createTemplateSlide populates one row against the template. Any panic is
// converted to the row's error; subsequent rows are unaffected.
func (g *Generator) createTemplateSlide(ppt *presentation.Presentation, rec SlideRecord, embedded map[string]ImageResult, info *TemplateInfo) (res SlideResult) {
	res = SlideResult{Index: rec.RowIndex, Success: true}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("slide creation failed: %v", r)
			g.log.Error("slide creation failed", "row", rec.RowIndex, "panic", r)
		}
	}()

	slide := g.addTemplateSlide(ppt)
	g.populateTemplateSlide(ppt, slide, rec, embedded, info, &res)
	return res
}

// createBlankSlide populates one row on a fresh blank slide.
func (g *Generator) createBlankSlide(ppt *presentation.Presentation, rec SlideRecord, embedded map[string]ImageResult) (res SlideResult) {
	res = SlideResult{Index: rec.RowIndex, Success: true}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("slide creation failed: %v", r)
			g.log.Error("slide creation failed", "row", rec.RowIndex, "panic", r)
		}
	}()

	slide := ppt.AddSlide()
	g.populateBlankSlide(ppt, slide, rec, embedded, &res)
	return res
}

// addTemplateSlide adds a slide on the template's blank layout to avoid
// inheriting unwanted placeholder shapes, falling back to the last layout.
func (g *Generator) addTemplateSlide(ppt *presentation.Presentation) presentation.Slide {
	layouts := ppt.SlideLayouts()
	for _, l := range layouts {
		if strings.Contains(strings.ToLower(l.Name()), "blank") {
			if s, err := ppt.AddDefaultSlideWithLayout(l); err == nil {
				return s
			}
		}
	}
	if len(layouts) > 0 {
		if s, err := ppt.AddDefaultSlideWithLayout(layouts[len(layouts)-1]); err == nil {
			return s
		}
	}
	return ppt.AddSlide()
}

func (g *Generator) removeSlide(ppt *presentation.Presentation, idx int) {
	slides := ppt.Slides()
	if idx < 0 || idx >= len(slides) {
		return
	}
	if err := ppt.RemoveSlide(slides[idx]); err != nil {
		g.log.Warn("could not remove template slide", "index", idx, "error", err)
	}
}
