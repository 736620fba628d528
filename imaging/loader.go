package imaging

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	// Decoders for the allowed formats. GIF/JPEG/PNG come from the standard
	// library, BMP and WebP from x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// allowedExtensions are the accepted image file extensions.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

const (
	defaultMaxSizeBytes = 10 * 1024 * 1024
	defaultCacheTTL     = time.Hour
)

// Result is the outcome of one image load. A failure carries Err; both
// outcomes flow to the generator, which renders failures as placeholders.
type Result struct {
	Source    string
	Data      []byte
	Width     int // pixels
	Height    int
	Format    string
	FromCache bool
	Err       error
}

// OK reports whether the load succeeded.
func (r Result) OK() bool { return r.Err == nil && len(r.Data) > 0 }

// Loader loads and validates images from local paths, raw bytes, or
// spreadsheet-embedded pictures.
type Loader struct {
	MaxSizeBytes int64
	BasePath     string // base for relative paths; empty = process cwd
	cache        *Cache
	log          *slog.Logger
}

// NewLoader returns a loader. maxSizeBytes <= 0 uses the 10MB default; a nil
// cache disables caching; a nil logger uses slog's default.
func NewLoader(maxSizeBytes int64, basePath string, cache *Cache, log *slog.Logger) *Loader {
	if maxSizeBytes <= 0 {
		maxSizeBytes = defaultMaxSizeBytes
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		MaxSizeBytes: maxSizeBytes,
		BasePath:     basePath,
		cache:        cache,
		log:          log,
	}
}

// DefaultLoader returns a loader with default limits and a fresh cache.
func DefaultLoader() *Loader {
	return NewLoader(0, "", NewCache(defaultCacheTTL, 100), nil)
}

func failure(source string, err error) Result {
	return Result{Source: source, Err: err}
}

// LoadFromPath loads an image from a local file path, absolute or relative
// to BasePath. The extension, file size, and decoded header are validated.
func (l *Loader) LoadFromPath(path string) Result {
	if l.cache != nil {
		if entry, ok := l.cache.Get(path); ok {
			l.log.Debug("image cache hit", "path", path)
			return Result{
				Source:    path,
				Data:      entry.Data,
				Width:     entry.Width,
				Height:    entry.Height,
				Format:    entry.Format,
				FromCache: true,
			}
		}
	}

	resolved := path
	if !filepath.IsAbs(resolved) && l.BasePath != "" {
		resolved = filepath.Join(l.BasePath, resolved)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return failure(path, fmt.Errorf("file not found: %s", path))
	}

	ext := strings.ToLower(filepath.Ext(resolved))
	if !allowedExtensions[ext] {
		return failure(path, fmt.Errorf("invalid image format: %s", ext))
	}

	if info.Size() > l.MaxSizeBytes {
		return failure(path, fmt.Errorf("image size (%.1fMB) exceeds limit (%dMB)",
			float64(info.Size())/1024/1024, l.MaxSizeBytes/1024/1024))
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return failure(path, fmt.Errorf("read image: %w", err))
	}

	return l.validate(path, data)
}

// LoadFromBytes loads an image from raw bytes (e.g. an embedded picture).
func (l *Loader) LoadFromBytes(data []byte, source string) Result {
	if int64(len(data)) > l.MaxSizeBytes {
		return failure(source, fmt.Errorf("image size (%.1fMB) exceeds limit",
			float64(len(data))/1024/1024))
	}
	return l.validate(source, data)
}

// validate decodes the image header to confirm the payload is a real image
// and to capture pixel dimensions, then caches the result.
func (l *Loader) validate(source string, data []byte) Result {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return failure(source, fmt.Errorf("invalid image data: %w", err))
	}

	if l.cache != nil {
		l.cache.Put(source, data, cfg.Width, cfg.Height, format)
	}

	l.log.Debug("loaded image", "source", source, "width", cfg.Width, "height", cfg.Height, "format", format)

	return Result{
		Source: source,
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}
}

// ExtractEmbedded returns the pictures embedded in the workbook's first
// sheet, keyed by their anchor cell (e.g. "B2"). Failures on individual
// pictures are skipped; the rest are still returned.
func (l *Loader) ExtractEmbedded(f *excelize.File) map[string]Result {
	results := make(map[string]Result)

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return results
	}
	sheet := sheets[0]

	cells, err := f.GetPictureCells(sheet)
	if err != nil {
		l.log.Warn("could not enumerate embedded pictures", "sheet", sheet, "error", err)
		return results
	}

	for _, cell := range cells {
		pics, err := f.GetPictures(sheet, cell)
		if err != nil || len(pics) == 0 {
			l.log.Warn("could not extract embedded picture", "cell", cell, "error", err)
			continue
		}
		results[cell] = l.LoadFromBytes(pics[0].File, "embedded:"+cell)
	}

	l.log.Info("extracted embedded images", "count", len(results))
	return results
}
