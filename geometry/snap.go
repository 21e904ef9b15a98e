package geometry

import (
	"math"

	"github.com/lvillar/pagelayout/model"
)

// SnapLines holds candidate alignment positions: X for vertical lines and Y
// for horizontal lines.
type SnapLines struct {
	X []float64
	Y []float64
}

// CollectSnapLines seeds lines at the page edges and midlines, then adds the
// left/center/right and top/middle/bottom edges of every item in every
// free-layout region except the excluded one.
func CollectSnapLines(doc *model.Document, exclude *model.ItemRef) SnapLines {
	w, h := doc.PaperWidth, doc.PaperHeight
	lines := SnapLines{
		X: []float64{0, w / 2, w},
		Y: []float64{0, h / 2, h},
	}
	for _, r := range doc.Regions {
		if r.Type != model.RegionFree {
			continue
		}
		for i, it := range r.Items {
			if exclude != nil && exclude.RegionID == r.ID && exclude.Index == i {
				continue
			}
			lines.X = append(lines.X, it.X, it.X+it.Width/2, it.X+it.Width)
			lines.Y = append(lines.Y, it.Y, it.Y+it.Height/2, it.Y+it.Height)
		}
	}
	return lines
}

// SnapResult is the outcome of SnapToGuides.
type SnapResult struct {
	X, Y   float64
	Guides []model.Guide
}

// SnapToGuides aligns a w×h rectangle at (x, y) to the nearest lines within
// threshold. Each axis checks the rectangle's three alignment points; the
// single closest match decides the snapped coordinate, while every distinct
// matched line is reported as a guide. An axis without a match is left as is.
func SnapToGuides(x, y, w, h float64, xLines, yLines []float64, threshold float64) SnapResult {
	sx, vertical := snapAxis(x, w, xLines, threshold)
	sy, horizontal := snapAxis(y, h, yLines, threshold)

	res := SnapResult{X: sx, Y: sy}
	for _, pos := range vertical {
		res.Guides = append(res.Guides, model.Guide{Type: model.GuideVertical, Pos: pos})
	}
	for _, pos := range horizontal {
		res.Guides = append(res.Guides, model.Guide{Type: model.GuideHorizontal, Pos: pos})
	}
	return res
}

func snapAxis(pos, size float64, lines []float64, threshold float64) (float64, []float64) {
	offsets := [3]float64{0, size / 2, size}
	snapped := pos
	best := math.Inf(1)
	var matched []float64

	for _, off := range offsets {
		line, dist, ok := nearestLine(pos+off, lines, threshold)
		if !ok {
			continue
		}
		matched = appendUnique(matched, line)
		if dist < best {
			best = dist
			snapped = line - off
		}
	}
	return snapped, matched
}

func nearestLine(p float64, lines []float64, threshold float64) (line, dist float64, ok bool) {
	dist = math.Inf(1)
	for _, l := range lines {
		if d := math.Abs(p - l); d <= threshold && d < dist {
			line, dist, ok = l, d, true
		}
	}
	return line, dist, ok
}

func appendUnique(s []float64, v float64) []float64 {
	for _, x := range s {
		if math.Abs(x-v) < model.Epsilon {
			return s
		}
	}
	return append(s, v)
}
