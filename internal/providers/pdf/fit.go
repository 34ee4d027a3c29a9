package pdf

import (
	"math"
	"strings"
)

const (
	ptToMM = 25.4 / 72.0
	// Mean advance width of a Helvetica glyph as a fraction of the em size.
	avgGlyphEm = 0.5
	// Line height as a multiple of the font size.
	lineSpacing = 1.35
	ellipsis    = "..."
)

// lineHeight returns the baseline-to-baseline distance in mm for a font size in points.
func lineHeight(sizePt float64) float64 {
	return sizePt * ptToMM * lineSpacing
}

// charsPerLine estimates how many glyphs fit across widthMM at sizePt.
func charsPerLine(widthMM, sizePt float64) int {
	glyph := sizePt * ptToMM * avgGlyphEm
	if glyph <= 0 {
		return 0
	}
	return int(math.Floor(widthMM / glyph))
}

// linesInBox estimates how many text lines fit in heightMM at sizePt.
func linesInBox(heightMM, sizePt float64) int {
	lh := lineHeight(sizePt)
	if lh <= 0 {
		return 0
	}
	return int(math.Floor(heightMM / lh))
}

// boxCapacity estimates the character budget of a width x height box.
func boxCapacity(widthMM, heightMM, sizePt float64) int {
	return charsPerLine(widthMM, sizePt) * linesInBox(heightMM, sizePt)
}

// fitText truncates text to the estimated capacity of the box, cutting at
// the nearest preceding word or line boundary and appending an ellipsis.
func fitText(text string, widthMM, heightMM, sizePt float64) string {
	text = strings.TrimSpace(text)
	capacity := boxCapacity(widthMM, heightMM, sizePt)
	return truncateAt(text, capacity)
}

func truncateAt(text string, capacity int) string {
	if capacity <= 0 {
		return ""
	}
	if len(text) <= capacity {
		return text
	}
	if capacity <= len(ellipsis) {
		return ellipsis[:capacity]
	}

	limit := capacity - len(ellipsis)
	cut := text[:limit]
	// Only back off to a boundary when it keeps most of the budget.
	if idx := strings.LastIndexAny(cut, " \n\t"); idx >= limit/2 {
		cut = cut[:idx]
	}
	cut = strings.TrimRight(cut, " \n\t.,;:-")
	return cut + ellipsis
}

// clipLines keeps at most max wrapped lines, marking the last kept line with
// an ellipsis when anything was dropped.
func clipLines(lines []string, max int, widthChars int) []string {
	if max <= 0 {
		return nil
	}
	if len(lines) <= max {
		return lines
	}
	out := append([]string(nil), lines[:max]...)
	last := strings.TrimRight(out[max-1], " ")
	if widthChars > 0 && len(last)+len(ellipsis) > widthChars {
		last = truncateAt(last, widthChars)
		if strings.HasSuffix(last, ellipsis) {
			out[max-1] = last
			return out
		}
	}
	out[max-1] = strings.TrimRight(last, " .,;:-") + ellipsis
	return out
}
