package tui

import "strings"

const progressPerCell = 32

// viewTrack draws the vehicles of the selected train on a strip of track.
// The strip wraps, so a train longer than the terminal folds over itself.
func (m model) viewTrack() string {
	if len(m.b.vehicles) == 0 {
		return ""
	}
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	if w > 120 {
		w = 120
	}

	strip := make([]rune, w)
	for i := range strip {
		strip[i] = '─'
	}
	selected := -1
	for _, v := range m.b.vehicles {
		c, err := v.Car()
		if err != nil {
			continue
		}
		x := cell(c.TrackProgress, w)
		if m.b.vehicle != nil && v.EntityID() == m.b.vehicle.EntityID() {
			selected = x
			continue
		}
		set(strip, x, '■')
	}

	var b strings.Builder
	b.WriteString("   ")
	for i, r := range strip {
		if i == selected {
			b.WriteString(magenta.Render("◆"))
			continue
		}
		if r == '─' {
			b.WriteString(dimmer.Render(string(r)))
		} else {
			b.WriteString(cyan.Render(string(r)))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func cell(progress int32, w int) int {
	return int(uint32(progress)/progressPerCell) % w
}

func set(strip []rune, x int, c rune) {
	if x >= 0 && x < len(strip) {
		strip[x] = c
	}
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
