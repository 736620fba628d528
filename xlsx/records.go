package xlsx

import (
	"fmt"

	"github.com/stimupop/deckgen/pptx"
)

// Record building: one SlideRecord per data row, legacy or multi-element
// shaped. Column labels in records are Excel letters so formatting maps and
// placeholder addressing stay stable across header renames.

// DataOptions control record extraction.
type DataOptions struct {
	Sanitize  bool
	Separator string // non-empty joins all text columns into one entry
}

// SlideData builds legacy-shaped records: one image column plus an ordered
// list of text columns. imgColumn and textColumns must be resolved header
// names (see ResolveColumn).
func (w *Workbook) SlideData(imgColumn string, textColumns []string, opts DataOptions) []pptx.SlideRecord {
	imgIdx := w.columnIndex(imgColumn)
	imgLetter := "A"
	if imgIdx >= 0 {
		imgLetter = w.columnLetter(imgColumn)
	}

	textIdx := make([]int, len(textColumns))
	textLetters := make([]string, len(textColumns))
	for i, col := range textColumns {
		textIdx[i] = w.columnIndex(col)
		textLetters[i] = w.columnLetter(col)
	}

	records := make([]pptx.SlideRecord, 0, len(w.rows))
	for i, row := range w.rows {
		// +2: Excel rows are 1-based and row 1 is the header.
		rec := pptx.SlideRecord{
			RowIndex:  i,
			ImageCell: fmt.Sprintf("%s%d", imgLetter, i+2),
		}

		if src := trimCell(w.cellValue(row, imgIdx)); src != "" {
			rec.ImageSrc = src
		}

		for j, idx := range textIdx {
			text := w.cellValue(row, idx)
			if opts.Sanitize {
				text = SanitizeText(text, maxTextLength)
			}
			if trimCell(text) == "" {
				continue
			}
			rec.TextItems = append(rec.TextItems, pptx.TextItem{
				Column: textLetters[j],
				Text:   text,
			})
		}

		if opts.Separator != "" && len(rec.TextItems) > 1 {
			combined := rec.TextItems[0].Text
			for _, it := range rec.TextItems[1:] {
				combined += opts.Separator + it.Text
			}
			rec.TextItems = []pptx.TextItem{{Column: rec.TextItems[0].Column, Text: combined}}
		}

		records = append(records, rec)
	}

	w.log.Info("extracted slide data", "records", len(records))
	return records
}

// SlideDataMulti builds multi-element records from image element and text
// group configs. Elements whose columns cannot be resolved are dropped with
// a warning; resolvable configuration still produces records.
func (w *Workbook) SlideDataMulti(imageElements []pptx.ImageElement, textGroups []pptx.TextGroup, opts DataOptions) []pptx.SlideRecord {
	type imgMeta struct {
		idx         int
		letter      string
		placeholder string
	}
	var images []imgMeta
	for _, el := range imageElements {
		col, err := w.ResolveColumn(el.Column)
		if err != nil {
			w.log.Warn("image element column not found", "column", el.Column, "placeholder", el.Placeholder)
			continue
		}
		images = append(images, imgMeta{
			idx:         w.columnIndex(col),
			letter:      w.columnLetter(col),
			placeholder: el.Placeholder,
		})
	}

	type txtMeta struct {
		idx         []int
		letters     []string
		placeholder string
		separator   string
	}
	var texts []txtMeta
	for _, tg := range textGroups {
		meta := txtMeta{placeholder: tg.Placeholder, separator: tg.Separator}
		for _, c := range tg.Columns {
			col, err := w.ResolveColumn(c)
			if err != nil {
				w.log.Warn("text group column not found", "column", c, "placeholder", tg.Placeholder)
				continue
			}
			meta.idx = append(meta.idx, w.columnIndex(col))
			meta.letters = append(meta.letters, w.columnLetter(col))
		}
		if len(meta.idx) == 0 {
			w.log.Warn("text group has no resolvable columns", "placeholder", tg.Placeholder)
			continue
		}
		texts = append(texts, meta)
	}

	records := make([]pptx.SlideRecord, 0, len(w.rows))
	for i, row := range w.rows {
		rec := pptx.SlideRecord{
			RowIndex:     i,
			ImageSources: []pptx.ImageSource{},
			TextGroups:   []pptx.TextContent{},
		}

		for _, m := range images {
			src := pptx.ImageSource{
				Cell:        fmt.Sprintf("%s%d", m.letter, i+2),
				Placeholder: m.placeholder,
			}
			if v := trimCell(w.cellValue(row, m.idx)); v != "" {
				src.Source = v
			}
			rec.ImageSources = append(rec.ImageSources, src)
		}

		for _, m := range texts {
			tc := pptx.TextContent{Placeholder: m.placeholder}
			for j, idx := range m.idx {
				text := w.cellValue(row, idx)
				if opts.Sanitize {
					text = SanitizeText(text, maxTextLength)
				}
				if trimCell(text) == "" {
					continue
				}
				tc.Items = append(tc.Items, pptx.TextItem{Column: m.letters[j], Text: text})
			}
			if m.separator != "" && len(tc.Items) > 1 {
				combined := tc.Items[0].Text
				for _, it := range tc.Items[1:] {
					combined += m.separator + it.Text
				}
				tc.Items = []pptx.TextItem{{Column: tc.Items[0].Column, Text: combined}}
			}
			rec.TextGroups = append(rec.TextGroups, tc)
		}

		// Legacy aliases mirror the first entries for older callers; the
		// record still selects the multi path structurally.
		if len(rec.ImageSources) > 0 {
			rec.ImageSrc = rec.ImageSources[0].Source
			rec.ImageCell = rec.ImageSources[0].Cell
		}
		if len(rec.TextGroups) > 0 {
			rec.TextItems = rec.TextGroups[0].Items
		}

		records = append(records, rec)
	}

	w.log.Info("extracted multi-element slide data", "records", len(records),
		"imageElements", len(images), "textGroups", len(texts))
	return records
}
