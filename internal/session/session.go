package session

import (
	"math"

	"github.com/san-kum/rve/internal/editor"
	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/observable"
	"github.com/san-kum/rve/internal/picker"
	"github.com/san-kum/rve/internal/selector"
	"github.com/san-kum/rve/internal/world"
)

// Multipliers the spinner increments can be scaled by.
var Multipliers = []int{1, 10, 100}

// Session wires the selector and the editor to the commands an operator
// issues: opening and closing the editor, copy and paste, applying settings
// to other vehicles and picking a vehicle by clicking it.
type Session struct {
	state  *State
	sel    *selector.Selector
	ed     *editor.Editor
	picker picker.Host
	log    logging.Logger

	isOpen     bool
	canPaste   *observable.Value[bool]
	picking    *observable.Value[bool]
	multiplier *observable.Value[int]
}

// New creates a closed session. state must not be nil.
func New(state *State, sel *selector.Selector, ed *editor.Editor, host picker.Host, log logging.Logger) *Session {
	s := &Session{
		state:      state,
		sel:        sel,
		ed:         ed,
		picker:     host,
		log:        logging.OrNoop(log).With(logging.String("component", "session")),
		canPaste:   observable.Comparable(state.Copied != nil),
		picking:    observable.Comparable(false),
		multiplier: observable.Comparable(1),
	}
	return s
}

func (s *Session) Selector() *selector.Selector { return s.sel }
func (s *Session) Editor() *editor.Editor       { return s.ed }
func (s *Session) State() *State                { return s.state }

// CanPaste is true while settings are copied.
func (s *Session) CanPaste() observable.Readable[bool] { return s.canPaste }

// Picking is true while the vehicle picker is active.
func (s *Session) Picking() observable.Readable[bool] { return s.picking }

// Multiplier is the factor spinner adjustments are scaled by.
func (s *Session) Multiplier() observable.Readable[int] { return s.multiplier }

func (s *Session) IsOpen() bool { return s.isOpen }

// Open loads the ride list and restores the previous selection, falling back
// to the first ride. Opening an open session does nothing.
func (s *Session) Open() {
	if s.isOpen {
		s.log.Debug("already open")
		return
	}
	s.isOpen = true
	s.sel.ReloadRideList()
	s.ed.ReloadRideTypes()
	s.canPaste.Set(s.state.Copied != nil)

	if id := s.state.LastRideID; id != nil {
		for i, r := range s.sel.RidesInPark().Get() {
			if r.RideID == *id {
				s.log.Debug("restore previous selection", logging.Int("ride", r.RideID),
					logging.Int("train", s.state.LastTrainIndex), logging.Int("vehicle", s.state.LastVehicleIndex))
				s.sel.SelectRide(i, s.state.LastTrainIndex, s.state.LastVehicleIndex)
				return
			}
		}
		s.log.Debug("restore selection failed: ride not found", logging.Int("ride", *id))
	}
	s.sel.SelectRide(0)
}

// Close remembers the current selection for the next Open and stops picking.
func (s *Session) Close() {
	if !s.isOpen {
		return
	}
	var rideID *int
	if r := s.sel.Ride().Get(); r != nil {
		id := r.RideID
		rideID = &id
	}
	train, _ := s.sel.TrainIndex()
	vehicle, _ := s.sel.VehicleIndex()
	s.state.remember(rideID, max(train, 0), max(vehicle, 0))
	s.log.Debug("close", logging.Any("ride", rideID), logging.Int("train", s.state.LastTrainIndex), logging.Int("vehicle", s.state.LastVehicleIndex))

	s.StopPicker()
	s.isOpen = false
}

// Update runs once per simulation tick.
func (s *Session) Update() {
	if s.isOpen {
		s.ed.Refresh()
	}
}

// Copy stores the settings of the selected vehicle. It reports false and
// clears the copy buffer when nothing could be captured.
func (s *Session) Copy() bool {
	settings, ok := s.ed.GetSettings()
	if !ok {
		s.state.Copied = nil
		s.canPaste.Set(false)
		s.log.Debug("copy failed: no vehicle")
		return false
	}
	s.state.Copied = &settings
	s.canPaste.Set(true)
	s.log.Debug("copied", logging.Any("settings", settings))
	return true
}

// Uncopy clears the copy buffer.
func (s *Session) Uncopy() {
	s.state.Copied = nil
	s.canPaste.Set(false)
	s.log.Debug("uncopied")
}

// Paste applies the copied settings to the selected vehicle.
func (s *Session) Paste() (editor.Result, bool) {
	if s.state.Copied == nil {
		return editor.Result{}, false
	}
	s.log.Debug("paste settings", logging.Any("settings", *s.state.Copied))
	return s.ed.ApplySettings(*s.state.Copied), true
}

// ApplyToAllVehicles applies the selected vehicle's settings to its whole train.
func (s *Session) ApplyToAllVehicles() editor.Result {
	settings, ok := s.ed.GetSettings()
	if !ok {
		return editor.Result{}
	}
	return s.ed.ApplySettingsToCurrentTrain(settings, 0, editor.ToEnd)
}

// ApplyToFollowingVehicles applies the selected vehicle's settings to the
// vehicles behind it.
func (s *Session) ApplyToFollowingVehicles() editor.Result {
	idx, ok := s.sel.VehicleIndex()
	if !ok {
		return editor.Result{}
	}
	settings, ok := s.ed.GetSettings()
	if !ok {
		return editor.Result{}
	}
	return s.ed.ApplySettingsToCurrentTrain(settings, idx+1, editor.ToEnd)
}

// ApplyToPrecedingVehicles applies the selected vehicle's settings to the
// vehicles in front of it.
func (s *Session) ApplyToPrecedingVehicles() editor.Result {
	idx, ok := s.sel.VehicleIndex()
	if !ok {
		return editor.Result{}
	}
	settings, ok := s.ed.GetSettings()
	if !ok {
		return editor.Result{}
	}
	return s.ed.ApplySettingsToCurrentTrain(settings, 0, idx)
}

// ApplyToAllTrains applies the selected vehicle's settings to every vehicle
// on the ride.
func (s *Session) ApplyToAllTrains() editor.Result {
	settings, ok := s.ed.GetSettings()
	if !ok {
		return editor.Result{}
	}
	return s.ed.ApplySettingsToAllTrains(settings)
}

// SetMultiplier selects one of Multipliers by index.
func (s *Session) SetMultiplier(index int) {
	index = max(0, min(index, len(Multipliers)-1))
	s.log.Debug("multiplier", logging.Int("increment", Multipliers[index]), logging.Int("index", index))
	s.multiplier.Set(Multipliers[index])
}

// Adjust changes a numeric attribute of the selected vehicle by steps times
// the multiplier. The ride type and sound range move through their lists one
// entry per step instead.
func (s *Session) Adjust(attribute string, steps int) {
	delta := steps * s.multiplier.Get()
	switch attribute {
	case editor.AttrRideType:
		s.ed.SetRideType(s.ed.RideTypeIndex().Get() + steps)
	case editor.AttrVariant:
		s.ed.SetVariant(s.ed.Variant().Get() + steps)
	case editor.AttrTrackProgress:
		s.ed.Move(int32(max(math.MinInt32, min(delta, math.MaxInt32))))
	case editor.AttrSeats:
		s.ed.SetSeatCount(s.ed.Seats().Get() + delta)
	case editor.AttrMass:
		s.ed.SetMass(s.ed.Mass().Get() + delta)
	case editor.AttrPoweredAcceleration:
		s.ed.SetPoweredAcceleration(s.ed.PoweredAcceleration().Get() + delta)
	case editor.AttrPoweredMaxSpeed:
		s.ed.SetPoweredMaximumSpeed(s.ed.PoweredMaxSpeed().Get() + delta)
	case editor.AttrSoundRange:
		slot := editor.SoundRangeSlot(s.ed.SoundRange().Get()) + steps
		s.ed.SetSoundRange(editor.SoundRangeFromSlot(slot))
	default:
		s.log.Warn("unknown attribute", logging.String("attribute", attribute))
	}
}

// StartPicker activates the vehicle picker. The first click on a vehicle
// selects it and ends the pick.
func (s *Session) StartPicker() {
	if s.picker == nil {
		return
	}
	s.picker.Activate(func(id world.EntityID) {
		if s.sel.SelectEntity(id) {
			s.picker.Cancel()
		}
	}, func() {
		s.picking.Set(false)
	})
	s.picking.Set(true)
}

// StopPicker cancels the vehicle picker if it is running.
func (s *Session) StopPicker() {
	if s.picker != nil && s.picker.Active() {
		s.picker.Cancel()
	}
}
