package pptx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name           string
		origW, origH   int
		boxW, boxH     float64
		mode           SizeMode
		wantW, wantH   float64
	}{
		{"stretch ignores aspect", 100, 100, 5.5, 4.0, SizeStretch, 5.5, 4.0},
		{"fit_width wide image", 200, 100, 5.5, 4.0, SizeFitWidth, 5.5, 2.75},
		{"fit_width tall image overflows height", 100, 200, 5.5, 4.0, SizeFitWidth, 5.5, 11.0},
		{"fit_height tall image", 100, 200, 5.5, 4.0, SizeFitHeight, 2.0, 4.0},
		{"fit_box wide image limited by width", 400, 100, 5.5, 4.0, SizeFitBox, 5.5, 1.375},
		{"fit_box tall image limited by height", 100, 400, 5.5, 4.0, SizeFitBox, 1.0, 4.0},
		{"fit_box square box square image", 100, 100, 4.0, 4.0, SizeFitBox, 4.0, 4.0},
		{"zero height defaults to square aspect", 100, 0, 4.0, 2.0, SizeFitBox, 2.0, 2.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := ScaledSize(tc.origW, tc.origH, tc.boxW, tc.boxH, tc.mode)
			assert.InDelta(t, tc.wantW, w, 1e-9)
			assert.InDelta(t, tc.wantH, h, 1e-9)
		})
	}
}

func TestScaledSizeFitBoxNeverExceedsBox(t *testing.T) {
	dims := []struct{ w, h int }{{1, 1000}, {1000, 1}, {640, 480}, {480, 640}, {3, 7}}
	for _, d := range dims {
		w, h := ScaledSize(d.w, d.h, 5.5, 4.0, SizeFitBox)
		assert.LessOrEqual(t, w, 5.5+1e-9, "width for %dx%d", d.w, d.h)
		assert.LessOrEqual(t, h, 4.0+1e-9, "height for %dx%d", d.w, d.h)

		aspect := float64(d.w) / float64(d.h)
		assert.InDelta(t, aspect, w/h, 1e-9, "aspect for %dx%d", d.w, d.h)
	}
}

func TestImagePosition(t *testing.T) {
	// 2x1 image in a 6x4 box at (1, 1).
	tests := []struct {
		name               string
		vert, horiz        string
		wantLeft, wantTop  float64
	}{
		{"center center", AlignCenter, AlignCenter, 3.0, 2.5},
		{"top left", AlignTop, AlignLeft, 1.0, 1.0},
		{"bottom right", AlignBottom, AlignRight, 5.0, 4.0},
		{"top center", AlignTop, AlignCenter, 3.0, 1.0},
		{"center right", AlignCenter, AlignRight, 5.0, 2.5},
		{"unknown values default to center", "", "", 3.0, 2.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			left, top := ImagePosition(2, 1, 1, 1, 6, 4, ImageAlignment{Vertical: tc.vert, Horizontal: tc.horiz})
			assert.InDelta(t, tc.wantLeft, left, 1e-9)
			assert.InDelta(t, tc.wantTop, top, 1e-9)
		})
	}
}

func TestImagePositionExactFit(t *testing.T) {
	// An image sized exactly like its box lands at the box origin under
	// every alignment.
	for _, v := range []string{AlignTop, AlignCenter, AlignBottom} {
		for _, h := range []string{AlignLeft, AlignCenter, AlignRight} {
			left, top := ImagePosition(3, 2, 1.5, 0.5, 3, 2, ImageAlignment{Vertical: v, Horizontal: h})
			assert.InDelta(t, 1.5, left, 1e-9, "%s/%s", v, h)
			assert.InDelta(t, 0.5, top, 1e-9, "%s/%s", v, h)
		}
	}
}

func TestImagePositionNoClamping(t *testing.T) {
	// Image larger than its box: centering goes negative rather than clamping.
	left, top := ImagePosition(8, 6, 1, 1, 4, 2, ImageAlignment{Vertical: AlignCenter, Horizontal: AlignCenter})
	assert.InDelta(t, -1.0, left, 1e-9)
	assert.InDelta(t, -1.0, top, 1e-9)

	// Right/bottom alignment of an oversized image also goes off-box.
	left, top = ImagePosition(8, 6, 1, 1, 4, 2, ImageAlignment{Vertical: AlignBottom, Horizontal: AlignRight})
	assert.InDelta(t, -3.0, left, 1e-9)
	assert.InDelta(t, -3.0, top, 1e-9)
}
