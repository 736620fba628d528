package pptx

// Pure scaling and alignment math. Box units are arbitrary (inches
// throughout this package); pixel dimensions only feed the aspect ratio.

// ScaledSize computes the final image width and height for a bounding box
// under the given sizing mode. fit_box maximizes size while keeping both
// dimensions within the box and preserving aspect ratio; stretch returns the
// box dimensions exactly and may distort.
func ScaledSize(origWidth, origHeight int, boxWidth, boxHeight float64, mode SizeMode) (float64, float64) {
	aspect := 1.0
	if origHeight > 0 {
		aspect = float64(origWidth) / float64(origHeight)
	}

	switch mode {
	case SizeStretch:
		return boxWidth, boxHeight
	case SizeFitWidth:
		return boxWidth, boxWidth / aspect
	case SizeFitHeight:
		return boxHeight * aspect, boxHeight
	default: // fit_box
		widthIfFitHeight := boxHeight * aspect
		if widthIfFitHeight <= boxWidth {
			return widthIfFitHeight, boxHeight
		}
		return boxWidth, boxWidth / aspect
	}
}

// ImagePosition computes the (left, top) placement of a sized image within a
// bounding box, independently per axis. Coordinates are never clamped: a box
// smaller than the image or mostly off-canvas yields off-canvas positions,
// which is accepted behavior.
func ImagePosition(imgWidth, imgHeight, boxLeft, boxTop, boxWidth, boxHeight float64, a ImageAlignment) (float64, float64) {
	var left, top float64

	switch a.Horizontal {
	case AlignLeft:
		left = boxLeft
	case AlignRight:
		left = boxLeft + boxWidth - imgWidth
	default: // center
		left = boxLeft + (boxWidth-imgWidth)/2
	}

	switch a.Vertical {
	case AlignTop:
		top = boxTop
	case AlignBottom:
		top = boxTop + boxHeight - imgHeight
	default: // center
		top = boxTop + (boxHeight-imgHeight)/2
	}

	return left, top
}
