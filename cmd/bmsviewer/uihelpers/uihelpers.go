package uihelpers

import "math"

// ComputePanelDimensions derives the per-panel render size from the chart window canvas.
// Three panels share the height. Width is clamped to [640, 2400], panel height to [160, 520].
func ComputePanelDimensions(canvasW, canvasH float32) (int, int) {
	w := int(canvasW)
	if w < 640 {
		w = 640
	}
	if w > 2400 {
		w = 2400
	}
	h := int(canvasH / 3)
	if h < 160 {
		h = 160
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// ComputeContainRect returns where an imgW x imgH image lands inside a viewW x viewH area when
// drawn with contain-fit (aspect preserved, centered), plus the image-to-view scale.
func ComputeContainRect(imgW, imgH, viewW, viewH float32) (drawX, drawY, drawW, drawH, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 0
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	drawW = imgW * scale
	drawH = imgH * scale
	drawX = (viewW - drawW) / 2
	drawY = (viewH - drawH) / 2
	return
}

// ViewToImage maps a position in the view to image pixels. ok is false outside the drawn image.
func ViewToImage(x, y, imgW, imgH, viewW, viewH float32) (ix, iy float64, ok bool) {
	drawX, drawY, drawW, drawH, scale := ComputeContainRect(imgW, imgH, viewW, viewH)
	if scale <= 0 {
		return 0, 0, false
	}
	if x < drawX || x > drawX+drawW || y < drawY || y > drawY+drawH {
		return 0, 0, false
	}
	return float64((x - drawX) / scale), float64((y - drawY) / scale), true
}

// ImageToView is the inverse of ViewToImage.
func ImageToView(ix, iy float64, imgW, imgH, viewW, viewH float32) (float32, float32) {
	drawX, drawY, _, _, scale := ComputeContainRect(imgW, imgH, viewW, viewH)
	return drawX + float32(ix)*scale, drawY + float32(iy)*scale
}

// SizeChanged reports whether a canvas resize is large enough to warrant re-rendering.
func SizeChanged(prevW, prevH, curW, curH float32) bool {
	const threshold = 4
	return math.Abs(float64(curW-prevW)) >= threshold || math.Abs(float64(curH-prevH)) >= threshold
}
