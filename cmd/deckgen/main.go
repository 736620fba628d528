// Package main provides the CLI entry point for deckgen.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stimupop/deckgen"
	"github.com/stimupop/deckgen/config"
	"github.com/stimupop/deckgen/guide"
	"github.com/stimupop/deckgen/imaging"
	"github.com/stimupop/deckgen/pptx"
	"github.com/stimupop/deckgen/xlsx"
)

var (
	configPath   string
	outputPath   string
	templatePath string
	templateMode string
	imageColumn  string
	textColumns  string
	orientation  string
	sizeMode     string
	separator    string
	sanitize     bool
	quiet        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deckgen",
		Short: "Generate PowerPoint decks from Excel rows",
		Long: `deckgen turns spreadsheet rows into slide decks: one slide per row,
each pairing an image with formatted text.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: deckgen.toml if present)")

	generateCmd := &cobra.Command{
		Use:   "generate [input.xlsx]",
		Short: "Generate a deck from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "deck.pptx", "Output .pptx path")
	generateCmd.Flags().StringVar(&templatePath, "template", "", "Template .pptx path")
	generateCmd.Flags().StringVar(&templateMode, "template-mode", "", "Template mode: blank, placeholder")
	generateCmd.Flags().StringVar(&imageColumn, "image-column", "", "Image column letter or header name")
	generateCmd.Flags().StringVar(&textColumns, "text-columns", "", "Comma-separated text columns")
	generateCmd.Flags().StringVar(&orientation, "orientation", "", "Page orientation: portrait, landscape")
	generateCmd.Flags().StringVar(&sizeMode, "size-mode", "", "Image sizing: fit_box, fit_width, fit_height, stretch")
	generateCmd.Flags().StringVar(&separator, "separator", "", "Join text columns with this separator")
	generateCmd.Flags().BoolVar(&sanitize, "sanitize", true, "Clean cell text before rendering")
	generateCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	guideCmd := &cobra.Command{
		Use:   "guide",
		Short: "Write the user guide as a .docx",
		Args:  cobra.NoArgs,
		RunE:  runGuide,
	}
	guideCmd.Flags().StringVarP(&outputPath, "output", "o", "deckgen-guide.docx", "Output .docx path")

	rootCmd.AddCommand(generateCmd, guideCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	appCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(appCfg.Logging)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	if int64(len(data)) > appCfg.App.MaxUploadSizeBytes() {
		return fmt.Errorf("spreadsheet exceeds the %dMB limit", appCfg.App.MaxUploadSizeMB)
	}

	var template []byte
	if templatePath != "" {
		template, err = os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
	}

	slideCfg, err := slideConfig(appCfg)
	if err != nil {
		return err
	}

	loader := imaging.NewLoader(
		appCfg.Images.MaxSizeBytes(),
		"",
		imaging.NewCache(appCfg.Images.CacheTTL(), appCfg.Images.CacheMaxEntries),
		log,
	)

	opts := deckgen.Options{
		Config:    slideCfg,
		Template:  template,
		Loader:    loader,
		Sanitize:  sanitize,
		Separator: separator,
		Logger:    log,
	}
	if !quiet {
		opts.OnProgress = func(status string, current, total int) {
			fmt.Fprintf(os.Stderr, "\r%s", status)
			if current == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	result, err := deckgen.CreatePresentation(data, opts)
	if err != nil {
		return err
	}

	if err := result.Presentation.SaveToFile(outputPath); err != nil {
		return fmt.Errorf("save presentation: %w", err)
	}

	fmt.Printf("wrote %s: %d slides, %d with images, %d with errors\n",
		outputPath, result.SlidesGenerated, result.SlidesWithImages, result.SlidesWithErrors)
	for _, s := range result.Slides {
		if s.Error != "" {
			fmt.Printf("  row %d: %s\n", s.Index+2, s.Error)
		}
		if s.ImageError != "" {
			fmt.Printf("  row %d image: %s\n", s.Index+2, s.ImageError)
		}
	}
	return nil
}

// slideConfig merges the config file's presentation section with the flags;
// flags win.
func slideConfig(appCfg *config.Config) (*pptx.SlideConfig, error) {
	cfg := pptx.DefaultSlideConfig()

	p := appCfg.Presentation
	cfg.Orientation = p.Orientation
	cfg.FontSize = p.FontSize
	cfg.ImgWidth = p.ImgWidth
	cfg.ImgHeight = p.ImgHeight
	cfg.ImgSize = pptx.SizeMode(p.ImgSizeMode)
	cfg.ImgTop = p.ImgTop
	cfg.TextTop = p.TextTop

	if imageColumn != "" {
		cfg.ImgColumn = imageColumn
	}
	if textColumns != "" {
		cfg.TextColumns = xlsx.ParseColumns(textColumns)
	}
	if orientation != "" {
		if orientation != "portrait" && orientation != "landscape" {
			return nil, fmt.Errorf("invalid orientation: %s", orientation)
		}
		cfg.Orientation = orientation
	}
	if sizeMode != "" {
		switch pptx.SizeMode(sizeMode) {
		case pptx.SizeFitBox, pptx.SizeFitWidth, pptx.SizeFitHeight, pptx.SizeStretch:
			cfg.ImgSize = pptx.SizeMode(sizeMode)
		default:
			return nil, fmt.Errorf("invalid size mode: %s", sizeMode)
		}
	}
	if templateMode != "" {
		switch pptx.TemplateMode(templateMode) {
		case pptx.ModeBlank, pptx.ModePlaceholder:
			cfg.TemplateMode = pptx.TemplateMode(templateMode)
		default:
			return nil, fmt.Errorf("invalid template mode: %s", templateMode)
		}
	} else if templatePath != "" {
		cfg.TemplateMode = pptx.ModePlaceholder
	}

	return cfg, nil
}

func runGuide(cmd *cobra.Command, args []string) error {
	doc := guide.Build()
	if err := doc.SaveToFile(outputPath); err != nil {
		return fmt.Errorf("save guide: %w", err)
	}
	fmt.Printf("wrote %s\n", outputPath)
	return nil
}

func newLogger(cfg config.LogSettings) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
