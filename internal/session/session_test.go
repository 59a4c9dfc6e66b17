package session

import (
	"testing"

	"github.com/san-kum/rve/internal/editor"
	"github.com/san-kum/rve/internal/park"
	"github.com/san-kum/rve/internal/picker"
	"github.com/san-kum/rve/internal/selector"
	"github.com/san-kum/rve/internal/world"
)

func newPark(t *testing.T) *park.Park {
	t.Helper()
	p := park.New("session", nil)
	p.AddRideType(world.RideType{ID: 0, Name: "Wooden Coaster", VariantCount: 3})
	p.AddRideType(world.RideType{ID: 1, Name: "Go Karts", VariantCount: 1, Powered: true})

	coaster := p.AddRide(1, "Coaster")
	if _, err := p.AddTrain(coaster,
		park.CarSpec{RideType: 0, Seats: 4, Mass: 100},
		park.CarSpec{RideType: 0, Seats: 2, Mass: 110},
		park.CarSpec{RideType: 0, Seats: 6, Mass: 120},
		park.CarSpec{RideType: 0, Seats: 8, Mass: 130},
	); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddTrain(coaster, park.CarSpec{RideType: 0, Seats: 1, Mass: 50}); err != nil {
		t.Fatal(err)
	}
	karts := p.AddRide(2, "Karts")
	if _, err := p.AddTrain(karts, park.CarSpec{RideType: 1, Seats: 1, PoweredAcceleration: 40, PoweredMaxSpeed: 30}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddTrain(karts, park.CarSpec{RideType: 1, Seats: 2, PoweredAcceleration: 20, PoweredMaxSpeed: 10}); err != nil {
		t.Fatal(err)
	}
	return p
}

func newSession(p *park.Park, state *State) (*Session, *picker.Tool) {
	sel := selector.New(p)
	ed := editor.New(sel, p)
	tool := picker.NewTool(nil)
	return New(state, sel, ed, tool, nil), tool
}

func seats(t *testing.T, p *park.Park, rideID, train int) []int {
	t.Helper()
	var out []int
	for _, v := range p.Vehicles(rideID, train) {
		c, err := v.Car()
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, c.Seats)
	}
	return out
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSession_OpenSelectsFirstRide(t *testing.T) {
	s, _ := newSession(newPark(t), &State{})
	s.Open()

	r := s.Selector().Ride().Get()
	if r == nil || r.Name != "Coaster" {
		t.Fatalf("ride = %+v, want Coaster", r)
	}
	if v := s.Selector().Vehicle().Get(); v == nil {
		t.Fatal("no vehicle selected")
	}
	if !s.IsOpen() {
		t.Error("session not open")
	}
}

func TestSession_ReopenRestoresSelection(t *testing.T) {
	p := newPark(t)
	state := &State{}

	first, _ := newSession(p, state)
	first.Open()
	first.Selector().SelectRide(1, 1, 0)
	first.Close()

	if state.LastRideID == nil || *state.LastRideID != 2 {
		t.Fatalf("LastRideID = %v, want 2", state.LastRideID)
	}
	if state.LastTrainIndex != 1 || state.LastVehicleIndex != 0 {
		t.Fatalf("saved indices = (%d, %d), want (1, 0)", state.LastTrainIndex, state.LastVehicleIndex)
	}

	second, _ := newSession(p, state)
	second.Open()
	if r := second.Selector().Ride().Get(); r == nil || r.RideID != 2 {
		t.Fatalf("ride = %+v, want Karts", r)
	}
	if idx, _ := second.Selector().TrainIndex(); idx != 1 {
		t.Errorf("train index = %d, want 1", idx)
	}
	if got := second.Editor().Seats().Get(); got != 2 {
		t.Errorf("seats = %d, want 2", got)
	}
}

func TestSession_ReopenFallsBackWhenRideRemoved(t *testing.T) {
	p := newPark(t)
	state := &State{}

	first, _ := newSession(p, state)
	first.Open()
	first.Selector().SelectRide(1)
	first.Close()

	if err := p.RemoveRide(2); err != nil {
		t.Fatal(err)
	}

	second, _ := newSession(p, state)
	second.Open()
	if r := second.Selector().Ride().Get(); r == nil || r.RideID != 1 {
		t.Fatalf("ride = %+v, want Coaster", r)
	}
}

func TestSession_ReopenClampsStaleIndices(t *testing.T) {
	p := newPark(t)
	state := &State{}

	first, _ := newSession(p, state)
	first.Open()
	first.Selector().SelectRide(0, 0, 3)
	first.Close()

	if err := p.RemoveTrain(1, 0); err != nil {
		t.Fatal(err)
	}

	second, _ := newSession(p, state)
	second.Open()
	idx, ok := second.Selector().VehicleIndex()
	if !ok || idx != 0 {
		t.Fatalf("vehicle index = (%d, %v), want (0, true)", idx, ok)
	}
	if got := second.Editor().Seats().Get(); got != 1 {
		t.Errorf("seats = %d, want 1", got)
	}
}

func TestSession_UpdateFollowsVehicleAfterEarlierTrainRemoved(t *testing.T) {
	p := newPark(t)
	s, _ := newSession(p, &State{})
	s.Open()
	s.Selector().SelectRide(0, 1, 0)
	selected := s.Selector().Vehicle().Get().EntityID()

	if err := p.RemoveTrain(1, 0); err != nil {
		t.Fatal(err)
	}
	p.Tick()
	s.Update()

	if n := len(s.Selector().TrainsOnRide().Get()); n != 1 {
		t.Errorf("trains on ride = %d, want 1", n)
	}
	if idx, ok := s.Selector().TrainIndex(); !ok || idx != 0 {
		t.Errorf("train index = (%d, %v), want (0, true)", idx, ok)
	}
	if v := s.Selector().Vehicle().Get(); v == nil || v.EntityID() != selected {
		t.Errorf("vehicle = %v, want %d", v, selected)
	}
	if got := s.Editor().Seats().Get(); got != 1 {
		t.Errorf("seats = %d, want 1", got)
	}
}

func TestSession_CloseWithoutSelectionSavesNoRide(t *testing.T) {
	state := &State{}
	s, _ := newSession(park.New("empty", nil), state)
	s.Open()
	s.Close()

	if state.LastRideID != nil {
		t.Errorf("LastRideID = %d, want nil", *state.LastRideID)
	}
	if state.LastTrainIndex != 0 || state.LastVehicleIndex != 0 {
		t.Errorf("saved indices = (%d, %d), want zero", state.LastTrainIndex, state.LastVehicleIndex)
	}
}

func TestSession_CopyPaste(t *testing.T) {
	p := newPark(t)
	s, _ := newSession(p, &State{})
	s.Open()

	if _, ok := s.Paste(); ok {
		t.Fatal("paste succeeded with empty buffer")
	}
	if s.CanPaste().Get() {
		t.Fatal("CanPaste true before copy")
	}

	s.Selector().SelectVehicle(3)
	if !s.Copy() {
		t.Fatal("copy failed")
	}
	if !s.CanPaste().Get() {
		t.Fatal("CanPaste false after copy")
	}

	s.Selector().SelectVehicle(0)
	res, ok := s.Paste()
	if !ok || res.Applied != 1 || res.Skipped != 0 {
		t.Fatalf("paste = (%+v, %v)", res, ok)
	}
	if got := seats(t, p, 1, 0); !equal(got, []int{8, 2, 6, 8}) {
		t.Errorf("seats = %v", got)
	}

	s.Uncopy()
	if s.CanPaste().Get() {
		t.Error("CanPaste true after uncopy")
	}
}

func TestSession_CopySurvivesReopen(t *testing.T) {
	p := newPark(t)
	state := &State{}

	first, _ := newSession(p, state)
	first.Open()
	first.Copy()
	first.Close()

	second, _ := newSession(p, state)
	second.Open()
	if !second.CanPaste().Get() {
		t.Error("copied settings lost across sessions")
	}
}

func TestSession_ApplyToVehicles(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Session) editor.Result
		want  []int
	}{
		{"all", (*Session).ApplyToAllVehicles, []int{2, 2, 2, 2}},
		{"following", (*Session).ApplyToFollowingVehicles, []int{4, 2, 2, 2}},
		{"preceding", (*Session).ApplyToPrecedingVehicles, []int{2, 2, 6, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPark(t)
			s, _ := newSession(p, &State{})
			s.Open()
			s.Selector().SelectVehicle(1)

			tt.apply(s)
			if got := seats(t, p, 1, 0); !equal(got, tt.want) {
				t.Errorf("seats = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_ApplyToAllTrains(t *testing.T) {
	p := newPark(t)
	s, _ := newSession(p, &State{})
	s.Open()
	s.Selector().SelectVehicle(2)

	res := s.ApplyToAllTrains()
	if res.Applied != 5 {
		t.Errorf("applied = %d, want 5", res.Applied)
	}
	if got := seats(t, p, 1, 1); !equal(got, []int{6}) {
		t.Errorf("second train seats = %v", got)
	}
	if got := seats(t, p, 2, 0); !equal(got, []int{1}) {
		t.Errorf("other ride touched: %v", got)
	}
}

func TestSession_AdjustUsesMultiplier(t *testing.T) {
	s, _ := newSession(newPark(t), &State{})
	s.Open()

	s.SetMultiplier(1)
	s.Adjust(editor.AttrMass, 3)
	if got := s.Editor().Mass().Get(); got != 130 {
		t.Errorf("mass = %d, want 130", got)
	}

	s.SetMultiplier(99)
	if got := s.Multiplier().Get(); got != 100 {
		t.Errorf("multiplier = %d, want 100", got)
	}
	s.Adjust(editor.AttrSeats, 1)
	if got := s.Editor().Seats().Get(); got != editor.MaxSeats {
		t.Errorf("seats = %d, want %d", got, editor.MaxSeats)
	}

	s.Adjust(editor.AttrSoundRange, -1)
	if got := s.Editor().SoundRange().Get(); got != editor.SoundScreams1And8 {
		t.Errorf("sound range = %d", got)
	}
	s.Adjust(editor.AttrSoundRange, 10)
	if got := s.Editor().SoundRange().Get(); got != editor.SoundNone {
		t.Errorf("sound range = %d, want none", got)
	}
}

func TestSession_PickerSelectsClickedVehicle(t *testing.T) {
	p := newPark(t)
	s, tool := newSession(p, &State{})
	s.Open()

	target := p.Vehicles(2, 1)[0]
	s.StartPicker()
	if !s.Picking().Get() {
		t.Fatal("picking not reported")
	}

	if !tool.Click(target.EntityID()) {
		t.Fatal("click not delivered")
	}
	if s.Picking().Get() || tool.Active() {
		t.Error("picker still active after a pick")
	}
	v := s.Selector().Vehicle().Get()
	if v == nil || v.EntityID() != target.EntityID() {
		t.Fatalf("selected %v, want %d", v, target.EntityID())
	}
}

func TestSession_PickerIgnoresUnknownEntity(t *testing.T) {
	s, tool := newSession(newPark(t), &State{})
	s.Open()
	s.StartPicker()

	tool.Click(world.EntityID(9999))
	if !tool.Active() {
		t.Error("picker ended on a click that hit nothing")
	}

	s.Close()
	if tool.Active() || s.Picking().Get() {
		t.Error("close left the picker running")
	}
}

func TestState_Reset(t *testing.T) {
	id := 3
	state := &State{LastRideID: &id, LastTrainIndex: 1, Copied: &editor.Settings{Seats: 2}}
	state.Reset()
	if state.LastRideID != nil || state.Copied != nil || state.LastTrainIndex != 0 {
		t.Errorf("state not reset: %+v", state)
	}
}
