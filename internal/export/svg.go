package export

import (
	"fmt"
	"strings"
)

// ProfileToSVG draws values as a line over their index, one point per
// vehicle, with a dot on every vehicle.
func ProfileToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) == 0 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	stepX := float64(width)
	if len(values) > 1 {
		stepX = float64(width) / float64(len(values)-1)
	}
	point := func(i int) (float64, float64) {
		x := float64(i) * stepX
		if len(values) == 1 {
			x = float64(width) / 2
		}
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(values) > 1 {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
		for i := range values {
			x, y := point(i)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", strokeColor))
	for i := range values {
		x, y := point(i)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5"/>
`, x, y))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
