package editor

import (
	"errors"

	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/observable"
	"github.com/san-kum/rve/internal/world"
)

// Attribute names, used for logging and metrics labels.
const (
	AttrRideType            = "ride_type"
	AttrVariant             = "variant"
	AttrTrackProgress       = "track_progress"
	AttrSeats               = "seats"
	AttrMass                = "mass"
	AttrPoweredAcceleration = "powered_acceleration"
	AttrPoweredMaxSpeed     = "powered_max_speed"
	AttrSoundRange          = "sound_range"
)

// Propagation scopes.
const (
	ScopeVehicle = "vehicle"
	ScopeTrain   = "train"
	ScopeRide    = "ride"
)

// Selection is the part of the selector the editor follows.
type Selection interface {
	Ride() observable.Readable[*world.RideSummary]
	VehiclesOnTrain() observable.Readable[[]world.Vehicle]
	Vehicle() observable.Readable[*world.Vehicle]
	Revalidate()
	Sync() bool
}

// Recorder receives editing outcomes.
type Recorder interface {
	VehicleWrite(attribute string)
	SettingsApply(scope string, applied, skipped int)
}

type nopRecorder struct{}

func (nopRecorder) VehicleWrite(string)            {}
func (nopRecorder) SettingsApply(string, int, int) {}

// Result counts the targets of a propagation.
type Result struct {
	Applied int
	Skipped int
}

// Editor tracks the attributes of the selected vehicle and writes changes
// back to it. Every setter republishes the value the simulation stored.
type Editor struct {
	sel   Selection
	world world.Query
	log   logging.Logger
	rec   Recorder

	vehicle *world.Vehicle

	rideTypes           *observable.Value[[]world.RideType]
	rideTypeIndex       *observable.Value[int]
	variant             *observable.Value[int]
	trackProgress       *observable.Value[int32]
	seats               *observable.Value[int]
	mass                *observable.Value[int]
	poweredAcceleration *observable.Value[int]
	poweredMaxSpeed     *observable.Value[int]
	soundRange          *observable.Value[int]
	isPowered           *observable.Value[bool]

	unsubscribe func()
}

// Option configures an Editor.
type Option func(*Editor)

func WithLogger(l logging.Logger) Option {
	return func(e *Editor) { e.log = logging.OrNoop(l).With(logging.String("component", "editor")) }
}

func WithRecorder(r Recorder) Option {
	return func(e *Editor) {
		if r != nil {
			e.rec = r
		}
	}
}

// New creates an editor following the vehicle selected in sel.
func New(sel Selection, q world.Query, opts ...Option) *Editor {
	e := &Editor{
		sel:   sel,
		world: q,
		log:   logging.Noop(),
		rec:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	onPanic := func(r any) { e.log.Error("subscriber panicked", logging.Any("panic", r)) }

	e.rideTypes = observable.New(q.RideTypes()).OnPanic(onPanic)
	e.rideTypeIndex = observable.New(0).OnPanic(onPanic)
	e.variant = observable.New(0).OnPanic(onPanic)
	e.trackProgress = observable.New[int32](0).OnPanic(onPanic)
	e.seats = observable.New(0).OnPanic(onPanic)
	e.mass = observable.New(0).OnPanic(onPanic)
	e.poweredAcceleration = observable.New(0).OnPanic(onPanic)
	e.poweredMaxSpeed = observable.New(0).OnPanic(onPanic)
	e.soundRange = observable.New(0).OnPanic(onPanic)
	e.isPowered = observable.New(false).OnPanic(onPanic)

	e.unsubscribe = sel.Vehicle().Subscribe(e.onVehicle)
	return e
}

// Close stops following the selector.
func (e *Editor) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

func (e *Editor) RideTypes() observable.Readable[[]world.RideType] { return e.rideTypes }
func (e *Editor) RideTypeIndex() observable.Readable[int]          { return e.rideTypeIndex }
func (e *Editor) Variant() observable.Readable[int]                { return e.variant }
func (e *Editor) TrackProgress() observable.Readable[int32]        { return e.trackProgress }
func (e *Editor) Seats() observable.Readable[int]                  { return e.seats }
func (e *Editor) Mass() observable.Readable[int]                   { return e.mass }
func (e *Editor) PoweredAcceleration() observable.Readable[int]    { return e.poweredAcceleration }
func (e *Editor) PoweredMaxSpeed() observable.Readable[int]        { return e.poweredMaxSpeed }
func (e *Editor) SoundRange() observable.Readable[int]             { return e.soundRange }
func (e *Editor) IsPowered() observable.Readable[bool]             { return e.isPowered }

// RideType returns the catalogue entry of the selected vehicle.
func (e *Editor) RideType() (world.RideType, bool) {
	types := e.rideTypes.Get()
	idx := e.rideTypeIndex.Get()
	if e.vehicle == nil || idx < 0 || idx >= len(types) {
		return world.RideType{}, false
	}
	return types[idx], true
}

func (e *Editor) onVehicle(v *world.Vehicle) {
	e.vehicle = v
	if v == nil {
		e.log.Debug("no vehicle selected")
		e.reset()
		return
	}
	car, err := v.Car()
	if err != nil {
		e.log.Debug("selected vehicle already gone", logging.Int("entity", int(v.EntityID())))
		e.vehicle = nil
		e.reset()
		return
	}
	e.publish(car)
}

// reset publishes zero values so nothing of the previous vehicle lingers.
// The ride type index is -1, matching no catalogue entry.
func (e *Editor) reset() {
	e.rideTypeIndex.Set(-1)
	e.variant.Set(0)
	e.trackProgress.Set(0)
	e.seats.Set(0)
	e.mass.Set(0)
	e.poweredAcceleration.Set(0)
	e.poweredMaxSpeed.Set(0)
	e.soundRange.Set(0)
	e.isPowered.Set(false)
}

// ReloadRideTypes queries the ride type catalogue again.
func (e *Editor) ReloadRideTypes() {
	e.rideTypes.Set(e.world.RideTypes())
	if e.vehicle != nil {
		if car, err := e.vehicle.Car(); err == nil {
			e.rideTypeIndex.Set(e.rideTypeIndexOf(car.RideType))
		}
	}
}

func (e *Editor) publish(car world.Car) {
	e.rideTypeIndex.Set(e.rideTypeIndexOf(car.RideType))
	e.variant.Set(car.Variant)
	e.trackProgress.Set(car.TrackProgress)
	e.seats.Set(car.Seats)
	e.mass.Set(car.Mass)
	e.poweredAcceleration.Set(car.PoweredAcceleration)
	e.poweredMaxSpeed.Set(car.PoweredMaxSpeed)
	e.soundRange.Set(car.SoundRange)
	e.isPowered.Set(car.Powered)
}

func (e *Editor) rideTypeIndexOf(id int) int {
	for i, rt := range e.rideTypes.Get() {
		if rt.ID == id {
			return i
		}
	}
	return -1
}

// SetRideType switches the vehicle to the ride type at index in RideTypes.
// The variant and powered state are republished since both depend on it.
func (e *Editor) SetRideType(index int) {
	if e.vehicle == nil {
		return
	}
	types := e.rideTypes.Get()
	if len(types) == 0 {
		return
	}
	rt := types[clamp(index, 0, len(types)-1)]
	if _, err := e.vehicle.SetRideType(rt.ID); err != nil {
		e.writeFailed(AttrRideType, err)
		return
	}
	e.rec.VehicleWrite(AttrRideType)
	e.log.Debug("set ride type", logging.Int("ride_type", rt.ID), logging.String("name", rt.Name))
	if car, err := e.vehicle.Car(); err == nil {
		e.rideTypeIndex.Set(e.rideTypeIndexOf(car.RideType))
		e.variant.Set(car.Variant)
		e.isPowered.Set(car.Powered)
	}
}

// SetVariant sets the sprite variant, wrapping around the number of variants
// of the ride type.
func (e *Editor) SetVariant(variant int) {
	if e.vehicle == nil {
		return
	}
	if rt, ok := e.RideType(); ok {
		variant = wrapVariant(variant, rt.VariantCount)
	}
	stored, err := e.vehicle.SetVariant(variant)
	if err != nil {
		e.writeFailed(AttrVariant, err)
		return
	}
	e.rec.VehicleWrite(AttrVariant)
	e.variant.Set(stored)
}

// Move travels the vehicle delta steps along the track. Track progress wraps
// around the int32 range.
func (e *Editor) Move(delta int32) {
	if e.vehicle == nil {
		return
	}
	stored, err := e.vehicle.Move(delta)
	if err != nil {
		e.writeFailed(AttrTrackProgress, err)
		return
	}
	e.rec.VehicleWrite(AttrTrackProgress)
	e.trackProgress.Set(stored)
}

// SetTrackProgress moves the vehicle to an absolute track progress.
func (e *Editor) SetTrackProgress(progress int32) {
	if e.vehicle == nil {
		return
	}
	car, err := e.vehicle.Car()
	if err != nil {
		e.writeFailed(AttrTrackProgress, err)
		return
	}
	e.Move(progress - car.TrackProgress)
}

// SetSeatCount sets the number of seats, clamped to [0, MaxSeats].
func (e *Editor) SetSeatCount(seats int) {
	e.writeInt(AttrSeats, clamp(seats, 0, MaxSeats), e.seats, world.Vehicle.SetSeats)
}

// SetMass sets the total mass, clamped to [0, MaxMass].
func (e *Editor) SetMass(mass int) {
	e.writeInt(AttrMass, clamp(mass, 0, MaxMass), e.mass, world.Vehicle.SetMass)
}

// SetPoweredAcceleration sets the acceleration of powered vehicles, clamped
// to [0, MaxPoweredValue].
func (e *Editor) SetPoweredAcceleration(value int) {
	e.writeInt(AttrPoweredAcceleration, clamp(value, 0, MaxPoweredValue), e.poweredAcceleration, world.Vehicle.SetPoweredAcceleration)
}

// SetPoweredMaximumSpeed sets the maximum speed of powered vehicles, clamped
// to [0, MaxPoweredValue].
func (e *Editor) SetPoweredMaximumSpeed(value int) {
	e.writeInt(AttrPoweredMaxSpeed, clamp(value, 0, MaxPoweredValue), e.poweredMaxSpeed, world.Vehicle.SetPoweredMaxSpeed)
}

// SetSoundRange sets the sound range id. Unsupported ids are normalized
// with NormalizeSoundRange.
func (e *Editor) SetSoundRange(id int) {
	e.writeInt(AttrSoundRange, NormalizeSoundRange(id), e.soundRange, world.Vehicle.SetSoundRange)
}

func (e *Editor) writeInt(attr string, value int, cell *observable.Value[int], write func(world.Vehicle, int) (int, error)) {
	if e.vehicle == nil {
		return
	}
	stored, err := write(*e.vehicle, value)
	if err != nil {
		e.writeFailed(attr, err)
		return
	}
	e.rec.VehicleWrite(attr)
	e.log.Debug("set attribute", logging.String("attribute", attr), logging.Int("requested", value), logging.Int("stored", stored))
	cell.Set(stored)
}

func (e *Editor) writeFailed(attr string, err error) {
	e.log.Debug("write failed", logging.String("attribute", attr), logging.Any("error", err))
	if errors.Is(err, world.ErrVehicleGone) {
		e.sel.Revalidate()
	}
}

// GetSettings captures the settings of the selected vehicle. It reports
// false when no vehicle is selected or it vanished.
func (e *Editor) GetSettings() (Settings, bool) {
	if e.vehicle == nil {
		return Settings{}, false
	}
	s, err := Capture(*e.vehicle)
	if err != nil {
		e.log.Debug("capture failed", logging.Any("error", err))
		return Settings{}, false
	}
	return s, true
}

// ApplySettings writes s onto the selected vehicle only.
func (e *Editor) ApplySettings(s Settings) Result {
	if e.vehicle == nil {
		return Result{}
	}
	res := e.applyAll(ScopeVehicle, []world.Vehicle{*e.vehicle}, s)
	if res.Skipped > 0 {
		e.sel.Revalidate()
	}
	return res
}

// ApplySettingsToCurrentTrain writes s onto every vehicle of the selected
// train whose position lies in [start, end). Bounds are clamped to the train,
// pass ToEnd to reach the last vehicle.
func (e *Editor) ApplySettingsToCurrentTrain(s Settings, start, end int) Result {
	vehicles := e.sel.VehiclesOnTrain().Get()
	start = clamp(start, 0, len(vehicles))
	end = clamp(end, start, len(vehicles))
	e.log.Debug("apply to train", logging.Int("start", start), logging.Int("end", end))
	return e.applyAll(ScopeTrain, vehicles[start:end], s)
}

// ApplySettingsToAllTrains writes s onto every vehicle of every train of the
// selected ride. The selection itself is left alone.
func (e *Editor) ApplySettingsToAllTrains(s Settings) Result {
	ride := e.sel.Ride().Get()
	if ride == nil {
		return Result{}
	}
	var targets []world.Vehicle
	for _, t := range e.world.Trains(ride.RideID) {
		targets = append(targets, e.world.Vehicles(ride.RideID, t.Index)...)
	}
	e.log.Debug("apply to all trains", logging.Int("ride", ride.RideID), logging.Int("vehicles", len(targets)))
	return e.applyAll(ScopeRide, targets, s)
}

// applyAll is best effort: vehicles that vanished are skipped and the rest
// still receive the settings.
func (e *Editor) applyAll(scope string, targets []world.Vehicle, s Settings) Result {
	var res Result
	for _, v := range targets {
		if err := Apply(v, s); err != nil {
			e.log.Debug("skip vehicle", logging.Int("entity", int(v.EntityID())), logging.Any("error", err))
			res.Skipped++
			continue
		}
		res.Applied++
	}
	e.rec.SettingsApply(scope, res.Applied, res.Skipped)

	if e.vehicle != nil {
		if car, err := e.vehicle.Car(); err == nil {
			e.publish(car)
		}
	}
	return res
}

// Refresh republishes the live values of the selected vehicle. It is meant to
// run on every simulation tick. Trains or vehicles added or removed on the
// selected ride make the selector resync, a vanished vehicle makes it
// revalidate.
func (e *Editor) Refresh() {
	if e.sel.Sync() || e.vehicle == nil {
		return
	}
	car, err := e.vehicle.Car()
	if err != nil {
		e.log.Debug("selected vehicle vanished", logging.Int("entity", int(e.vehicle.EntityID())))
		e.sel.Revalidate()
		return
	}
	if car.TrackProgress != e.trackProgress.Get() {
		e.trackProgress.Set(car.TrackProgress)
	}
	if car.Mass != e.mass.Get() {
		e.mass.Set(car.Mass)
	}
}

// Locate returns the position of the selected vehicle.
func (e *Editor) Locate() (world.Position, bool) {
	if e.vehicle == nil {
		return world.Position{}, false
	}
	car, err := e.vehicle.Car()
	if err != nil {
		return world.Position{}, false
	}
	e.log.Debug("locate vehicle", logging.Int("entity", int(car.ID)), logging.Any("position", car.Position))
	return car.Position, true
}

// Vehicle returns the handle of the vehicle being edited.
func (e *Editor) Vehicle() (world.Vehicle, bool) {
	if e.vehicle == nil {
		return world.Vehicle{}, false
	}
	return *e.vehicle, true
}
