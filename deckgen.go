// Package deckgen turns spreadsheet rows into slide decks: one slide per
// row, each pairing an image with formatted text. The root package wires the
// ingestion, image loading, and generation layers behind one call; the
// subpackages remain usable on their own.
package deckgen

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/stimupop/deckgen/imaging"
	"github.com/stimupop/deckgen/pptx"
	"github.com/stimupop/deckgen/xlsx"
)

// Options control one generation run.
type Options struct {
	// Config is the slide generation configuration. Nil uses defaults.
	Config *pptx.SlideConfig

	// Template is an optional .pptx whose first slide acts as the blueprint
	// in placeholder mode.
	Template []byte

	// Loader resolves image file paths. Nil uses a default loader with a
	// fresh cache and a 10MB size limit.
	Loader *imaging.Loader

	// Sanitize cleans cell text before rendering.
	Sanitize bool

	// Separator, when non-empty, joins each row's text columns into one
	// paragraph instead of one paragraph per column.
	Separator string

	// OnProgress, when set, receives per-slide progress callbacks.
	OnProgress pptx.ProgressFunc

	// Logger for the run. Nil uses slog's default.
	Logger *slog.Logger
}

// CreatePresentation reads the workbook and generates the deck. Bad rows are
// isolated and reported in the result; only an unreadable workbook, an
// unreadable template, or an empty sheet is fatal.
func CreatePresentation(xlsxData []byte, opts Options) (pptx.GenerationResult, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = pptx.DefaultSlideConfig()
	}
	loader := opts.Loader
	if loader == nil {
		loader = imaging.DefaultLoader()
	}

	wb, err := xlsx.Read(bytes.NewReader(xlsxData), log)
	if err != nil {
		return pptx.GenerationResult{Err: err}, err
	}

	records, err := buildRecords(wb, cfg, opts)
	if err != nil {
		return pptx.GenerationResult{Err: err}, err
	}

	embedded := embeddedImages(loader.ExtractEmbedded(wb.File()))

	gen := pptx.NewGenerator(cfg, pathLoader(loader), log)
	result := gen.Generate(records, embedded, opts.Template, opts.OnProgress)
	return result, result.Err
}

// buildRecords resolves the configured columns and extracts one record per
// data row, choosing the multi-element or legacy shape to match the config.
func buildRecords(wb *xlsx.Workbook, cfg *pptx.SlideConfig, opts Options) ([]pptx.SlideRecord, error) {
	dataOpts := xlsx.DataOptions{Sanitize: opts.Sanitize, Separator: opts.Separator}

	if len(cfg.ImageElements) > 0 || len(cfg.TextGroups) > 0 {
		return wb.SlideDataMulti(cfg.ImageElements, cfg.TextGroups, dataOpts), nil
	}

	imgCol, err := wb.ResolveColumn(cfg.ImgColumn)
	if err != nil {
		return nil, fmt.Errorf("image column: %w", err)
	}

	textCols := make([]string, 0, len(cfg.TextColumns))
	for _, c := range cfg.TextColumns {
		col, err := wb.ResolveColumn(c)
		if err != nil {
			return nil, fmt.Errorf("text column: %w", err)
		}
		textCols = append(textCols, col)
	}

	return wb.SlideData(imgCol, textCols, dataOpts), nil
}

// pathLoader adapts the imaging loader to the generator's interface.
func pathLoader(l *imaging.Loader) pptx.ImageLoader {
	return pptx.LoaderFunc(func(path string) pptx.ImageResult {
		return toImageResult(l.LoadFromPath(path))
	})
}

// embeddedImages converts cell-keyed loader results for the generator.
func embeddedImages(in map[string]imaging.Result) map[string]pptx.ImageResult {
	out := make(map[string]pptx.ImageResult, len(in))
	for cell, res := range in {
		out[cell] = toImageResult(res)
	}
	return out
}

func toImageResult(r imaging.Result) pptx.ImageResult {
	return pptx.ImageResult{
		ImageData: pptx.ImageData{
			Bytes:  r.Data,
			Width:  r.Width,
			Height: r.Height,
			Format: r.Format,
		},
		Err: r.Err,
	}
}
