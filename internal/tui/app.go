package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/rve/internal/editor"
	"github.com/san-kum/rve/internal/picker"
	"github.com/san-kum/rve/internal/session"
	"github.com/san-kum/rve/internal/world"
)

// Ticker advances the simulation behind the editor.
type Ticker interface {
	Tick()
}

type Options struct {
	TickInterval time.Duration
	// DebugNames prefixes ride labels with their id.
	DebugNames bool
	// Multiplier is the initial index into session.Multipliers.
	Multiplier int
}

type row int

const (
	rowRide row = iota
	rowTrain
	rowVehicle
	rowRideType
	rowVariant
	rowTrackProgress
	rowSeats
	rowMass
	rowAcceleration
	rowMaxSpeed
	rowSoundRange
	rowCount
)

var rowAttributes = map[row]string{
	rowRideType:      editor.AttrRideType,
	rowVariant:       editor.AttrVariant,
	rowTrackProgress: editor.AttrTrackProgress,
	rowSeats:         editor.AttrSeats,
	rowMass:          editor.AttrMass,
	rowAcceleration:  editor.AttrPoweredAcceleration,
	rowMaxSpeed:      editor.AttrPoweredMaxSpeed,
	rowSoundRange:    editor.AttrSoundRange,
}

type model struct {
	sess  *session.Session
	tool  *picker.Tool
	sim   Ticker
	opts  Options
	b     *bindings
	focus row

	paused  bool
	pickBuf string
	status  string

	width  int
	height int
}

func newModel(s *session.Session, tool *picker.Tool, sim Ticker, opts Options) model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 250 * time.Millisecond
	}
	s.SetMultiplier(opts.Multiplier)
	b := newBindings(s)
	s.Open()
	return model{
		sess:   s,
		tool:   tool,
		sim:    sim,
		opts:   opts,
		b:      b,
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd { return tick(m.opts.TickInterval) }

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && m.sim != nil {
			m.sim.Tick()
			m.sess.Update()
		}
		return m, tick(m.opts.TickInterval)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.b.picking {
		return m.pickKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quit()
		return m, tea.Quit
	case "up", "k":
		if m.focus > 0 {
			m.focus--
		}
	case "down", "j":
		if m.focus < rowCount-1 {
			m.focus++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "1", "2", "3":
		idx, _ := strconv.Atoi(msg.String())
		m.sess.SetMultiplier(idx - 1)
	case "c":
		if m.sess.Copy() {
			m.status = "settings copied"
		} else {
			m.status = "nothing to copy"
		}
	case "u":
		m.sess.Uncopy()
		m.status = ""
	case "v":
		if res, ok := m.sess.Paste(); ok {
			m.status = resultStatus("pasted", res)
		}
	case "a":
		m.status = resultStatus("applied to train", m.sess.ApplyToAllVehicles())
	case "f":
		m.status = resultStatus("applied to following", m.sess.ApplyToFollowingVehicles())
	case "b":
		m.status = resultStatus("applied to preceding", m.sess.ApplyToPrecedingVehicles())
	case "t":
		m.status = resultStatus("applied to all trains", m.sess.ApplyToAllTrains())
	case "o":
		if pos, ok := m.sess.Editor().Locate(); ok {
			m.status = "vehicle at " + pos.String()
		}
	case "e":
		m.pickBuf = ""
		m.sess.StartPicker()
	case " ", "p":
		m.paused = !m.paused
	}
	return m, nil
}

// pickKey reads an entity id while the picker runs. Entering an id stands in
// for clicking the vehicle.
func (m model) pickKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quit()
		return m, tea.Quit
	case "esc":
		m.sess.StopPicker()
		m.pickBuf = ""
	case "enter":
		id, err := strconv.Atoi(m.pickBuf)
		m.pickBuf = ""
		if err != nil || m.tool == nil {
			return m, nil
		}
		m.tool.Click(world.EntityID(id))
		if m.b.picking {
			m.status = fmt.Sprintf("no vehicle with id %d", id)
		} else {
			m.status = ""
		}
	case "backspace":
		if len(m.pickBuf) > 0 {
			m.pickBuf = m.pickBuf[:len(m.pickBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			m.pickBuf += s
		}
	}
	return m, nil
}

func (m *model) adjust(steps int) {
	sel := m.sess.Selector()
	switch m.focus {
	case rowRide:
		idx, _ := sel.RideIndex()
		sel.SelectRide(idx + steps)
	case rowTrain:
		idx, _ := sel.TrainIndex()
		sel.SelectTrain(idx + steps)
	case rowVehicle:
		idx, _ := sel.VehicleIndex()
		sel.SelectVehicle(idx + steps)
	default:
		m.sess.Adjust(rowAttributes[m.focus], steps)
	}
}

func (m *model) quit() {
	m.sess.Close()
	m.b.close()
}

func resultStatus(what string, res editor.Result) string {
	if res.Skipped > 0 {
		return fmt.Sprintf("%s: %d vehicles, %d gone", what, res.Applied, res.Skipped)
	}
	return fmt.Sprintf("%s: %d vehicles", what, res.Applied)
}

func (m model) rideLabel(r world.RideSummary) string {
	if m.opts.DebugNames {
		return fmt.Sprintf("[%d] %s", r.RideID, r.Name)
	}
	return r.Name
}

func (m model) rowValue(r row) (string, bool) {
	b := m.b
	hasVehicle := b.vehicle != nil
	switch r {
	case rowRide:
		if b.ride == nil {
			return "no rides", false
		}
		idx, _ := m.sess.Selector().RideIndex()
		return fmt.Sprintf("%s  %d/%d", m.rideLabel(*b.ride), idx+1, len(b.rides)), true
	case rowTrain:
		if b.train == nil {
			return "no trains", false
		}
		return fmt.Sprintf("Train %d/%d", b.train.Index+1, len(b.trains)), true
	case rowVehicle:
		idx, ok := m.sess.Selector().VehicleIndex()
		if !ok || !hasVehicle {
			return "no vehicles", false
		}
		return fmt.Sprintf("Vehicle %d/%d  #%d", idx+1, len(b.vehicles), b.vehicle.EntityID()), true
	case rowRideType:
		if b.rideTypeIndex < 0 || b.rideTypeIndex >= len(b.rideTypes) {
			return "-", hasVehicle
		}
		return b.rideTypes[b.rideTypeIndex].Name, hasVehicle
	case rowVariant:
		return strconv.Itoa(b.variant), hasVehicle
	case rowTrackProgress:
		return strconv.FormatInt(int64(b.trackProgress), 10), hasVehicle
	case rowSeats:
		return strconv.Itoa(b.seats), hasVehicle
	case rowMass:
		return strconv.Itoa(b.mass), hasVehicle
	case rowAcceleration:
		return strconv.Itoa(b.acceleration), hasVehicle && b.powered
	case rowMaxSpeed:
		return strconv.Itoa(b.maxSpeed), hasVehicle && b.powered
	case rowSoundRange:
		return editor.SoundRangeName(b.soundRange), hasVehicle
	}
	return "", false
}

var rowLabels = [rowCount]string{
	"ride", "train", "vehicle", "type", "variant", "progress",
	"seats", "mass", "accel", "max speed", "sound",
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("        " + cyan.Render("r i d e   v e h i c l e s") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for r := row(0); r < rowCount; r++ {
		if r == rowRideType {
			b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n")
		}
		val, enabled := m.rowValue(r)
		label := fmt.Sprintf("%-10s", rowLabels[r])
		switch {
		case r == m.focus && enabled:
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(label) + magenta.Render(val) + "\n")
		case r == m.focus:
			b.WriteString("      " + cyan.Render("▸ ") + dim.Render(label) + dimmer.Render(val) + "\n")
		case enabled:
			b.WriteString("        " + dim.Render(label) + white.Render(val) + "\n")
		default:
			b.WriteString("        " + dimmer.Render(label) + dimmer.Render(val) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.viewTrack())

	if len(m.b.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("progress"), cyan.Render(sparkline(m.b.history, 24))))
	}

	status := green.Render("●") + " " + dim.Render(fmt.Sprintf("x%d", m.b.multiplier))
	if m.paused {
		status = yellow.Render("○") + " " + dim.Render(fmt.Sprintf("x%d", m.b.multiplier))
	}
	if m.b.canPaste {
		status += "  " + green.Render("copied")
	}
	if m.b.picking {
		status += "  " + yellow.Render("pick vehicle id: "+m.pickBuf+"▋")
	}
	if m.status != "" {
		status += "  " + dim.Render(m.status)
	}
	b.WriteString("\n   " + status + "\n")

	b.WriteString("\n" + dim.Render("   ↑↓ row  ←→ change  1/2/3 step  c copy  v paste  a/f/b/t apply  e pick  o locate  space pause  q quit") + "\n")
	return b.String()
}

// Run starts the editor and blocks until the operator quits.
func Run(s *session.Session, tool *picker.Tool, sim Ticker, opts Options) error {
	p := tea.NewProgram(newModel(s, tool, sim, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
