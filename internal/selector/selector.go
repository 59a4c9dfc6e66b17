package selector

import (
	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/observable"
	"github.com/san-kum/rve/internal/world"
)

// Hierarchy levels, used for logging and metrics labels.
const (
	LevelRide    = "ride"
	LevelTrain   = "train"
	LevelVehicle = "vehicle"
	LevelEntity  = "entity"
)

const unset = -1

// Recorder receives selection outcomes.
type Recorder interface {
	Selection(level string)
	SelectionMiss(level string)
}

type nopRecorder struct{}

func (nopRecorder) Selection(string)     {}
func (nopRecorder) SelectionMiss(string) {}

// Selector owns the ride -> train -> vehicle selection. Whenever a level
// changes, the lists below it are refreshed and published before the
// dependent selection is, so subscribers never see an index that does not
// fit the list they hold.
type Selector struct {
	world world.Query
	log   logging.Logger
	rec   Recorder

	ridesInPark     *observable.Value[[]world.RideSummary]
	trainsOnRide    *observable.Value[[]world.TrainHandle]
	vehiclesOnTrain *observable.Value[[]world.Vehicle]

	ride    *observable.Value[*world.RideSummary]
	train   *observable.Value[*world.TrainHandle]
	vehicle *observable.Value[*world.Vehicle]

	rideIndex    int
	trainIndex   int
	vehicleIndex int
}

// Option configures a Selector.
type Option func(*Selector)

func WithLogger(l logging.Logger) Option {
	return func(s *Selector) { s.log = logging.OrNoop(l).With(logging.String("component", "selector")) }
}

func WithRecorder(r Recorder) Option {
	return func(s *Selector) {
		if r != nil {
			s.rec = r
		}
	}
}

// New returns a selector with nothing selected. Call ReloadRideList before
// the first selection.
func New(q world.Query, opts ...Option) *Selector {
	s := &Selector{
		world:        q,
		log:          logging.Noop(),
		rec:          nopRecorder{},
		rideIndex:    unset,
		trainIndex:   unset,
		vehicleIndex: unset,
	}
	for _, opt := range opts {
		opt(s)
	}
	onPanic := func(r any) { s.log.Error("subscriber panicked", logging.Any("panic", r)) }

	s.ridesInPark = observable.New[[]world.RideSummary](nil).OnPanic(onPanic)
	s.trainsOnRide = observable.New[[]world.TrainHandle](nil).OnPanic(onPanic)
	s.vehiclesOnTrain = observable.New[[]world.Vehicle](nil).OnPanic(onPanic)
	s.ride = observable.New[*world.RideSummary](nil).OnPanic(onPanic)
	s.train = observable.New[*world.TrainHandle](nil).OnPanic(onPanic)
	s.vehicle = observable.New[*world.Vehicle](nil).OnPanic(onPanic)
	return s
}

func (s *Selector) RidesInPark() observable.Readable[[]world.RideSummary]  { return s.ridesInPark }
func (s *Selector) TrainsOnRide() observable.Readable[[]world.TrainHandle] { return s.trainsOnRide }
func (s *Selector) VehiclesOnTrain() observable.Readable[[]world.Vehicle]  { return s.vehiclesOnTrain }
func (s *Selector) Ride() observable.Readable[*world.RideSummary]          { return s.ride }
func (s *Selector) Train() observable.Readable[*world.TrainHandle]         { return s.train }
func (s *Selector) Vehicle() observable.Readable[*world.Vehicle]           { return s.vehicle }

// RideIndex returns the selected position in the ride list.
func (s *Selector) RideIndex() (int, bool) { return s.rideIndex, s.rideIndex != unset }

// TrainIndex returns the selected position in the train list.
func (s *Selector) TrainIndex() (int, bool) { return s.trainIndex, s.trainIndex != unset }

// VehicleIndex returns the selected position in the vehicle list.
func (s *Selector) VehicleIndex() (int, bool) { return s.vehicleIndex, s.vehicleIndex != unset }

// ReloadRideList queries the park for its rides and publishes them. The
// selection indices are left alone.
func (s *Selector) ReloadRideList() {
	rides := s.world.Rides()
	s.log.Debug("reload ride list", logging.Int("rides", len(rides)))
	s.ridesInPark.Set(rides)
}

// SelectRide selects the ride at rideIdx and cascades into its trains and
// vehicles. Missing train or vehicle indices default to the first entry. An
// out of range rideIdx is ignored.
func (s *Selector) SelectRide(rideIdx int, indices ...int) {
	trainIdx, vehicleIdx := 0, 0
	if len(indices) > 0 {
		trainIdx = indices[0]
	}
	if len(indices) > 1 {
		vehicleIdx = indices[1]
	}

	rides := s.ridesInPark.Get()
	if rideIdx < 0 || rideIdx >= len(rides) {
		s.log.Debug("ride index out of range", logging.Int("index", rideIdx), logging.Int("rides", len(rides)))
		s.rec.SelectionMiss(LevelRide)
		return
	}
	r := rides[rideIdx]
	s.log.Debug("select ride", logging.Int("index", rideIdx), logging.Int("ride", r.RideID), logging.String("name", r.Name))
	s.rec.Selection(LevelRide)

	s.rideIndex = rideIdx
	s.trainIndex = unset
	s.vehicleIndex = unset
	s.ride.Set(&r)
	s.selectTrain(trainIdx, vehicleIdx)
}

// SelectTrain selects a train on the current ride and cascades into its
// vehicles, selecting the first one.
func (s *Selector) SelectTrain(trainIdx int) {
	s.selectTrain(trainIdx, 0)
}

func (s *Selector) selectTrain(trainIdx, vehicleIdx int) {
	r := s.ride.Get()
	if r == nil || s.rideIndex == unset {
		s.log.Debug("select train without ride", logging.Int("index", trainIdx))
		s.rec.SelectionMiss(LevelTrain)
		return
	}
	// the cached list may predate trains being added or removed
	trains := s.world.Trains(r.RideID)
	s.trainIndex = unset
	s.vehicleIndex = unset
	s.trainsOnRide.Set(trains)
	idx, ok := resolve(trainIdx, len(trains))
	if !ok {
		s.log.Debug("no trains on ride", logging.Int("ride", r.RideID))
		s.rec.SelectionMiss(LevelTrain)
		s.vehiclesOnTrain.Set(nil)
		s.train.Set(nil)
		s.vehicle.Set(nil)
		return
	}
	if idx != trainIdx {
		// the requested vehicle belonged to a train that is not there anymore
		s.rec.SelectionMiss(LevelTrain)
		vehicleIdx = 0
	}
	s.rec.Selection(LevelTrain)
	s.log.Debug("select train", logging.Int("index", idx), logging.Int("requested", trainIdx))

	t := trains[idx]
	s.trainIndex = idx
	s.train.Set(&t)
	s.vehiclesOnTrain.Set(s.world.Vehicles(r.RideID, t.Index))
	s.SelectVehicle(vehicleIdx)
}

// SelectVehicle selects a vehicle of the current train.
func (s *Selector) SelectVehicle(vehicleIdx int) {
	if s.train.Get() == nil || s.trainIndex == unset {
		s.log.Debug("select vehicle without train", logging.Int("index", vehicleIdx))
		s.rec.SelectionMiss(LevelVehicle)
		return
	}
	vehicles := s.vehiclesOnTrain.Get()
	idx, ok := resolve(vehicleIdx, len(vehicles))
	if !ok {
		s.log.Debug("no vehicles on train", logging.Int("train", s.trainIndex))
		s.rec.SelectionMiss(LevelVehicle)
		s.vehicleIndex = unset
		s.vehicle.Set(nil)
		return
	}
	if idx != vehicleIdx {
		s.rec.SelectionMiss(LevelVehicle)
	}
	s.rec.Selection(LevelVehicle)
	s.log.Debug("select vehicle", logging.Int("index", idx), logging.Int("entity", int(vehicles[idx].EntityID())))

	v := vehicles[idx]
	s.vehicleIndex = idx
	s.vehicle.Set(&v)
}

// SelectEntity selects the ride, train and vehicle that contain the entity.
// It reports false and leaves the selection untouched when the entity is not
// a vehicle of any known ride.
func (s *Selector) SelectEntity(id world.EntityID) bool {
	loc, ok := s.world.FindEntity(id)
	if !ok {
		s.log.Debug("entity not found", logging.Int("entity", int(id)))
		s.rec.SelectionMiss(LevelEntity)
		return false
	}
	rideIdx, ok := s.findRide(loc.RideID)
	if !ok {
		s.ReloadRideList()
		if rideIdx, ok = s.findRide(loc.RideID); !ok {
			s.log.Debug("entity ride not in park", logging.Int("entity", int(id)), logging.Int("ride", loc.RideID))
			s.rec.SelectionMiss(LevelEntity)
			return false
		}
	}
	s.rec.Selection(LevelEntity)
	s.SelectRide(rideIdx, loc.TrainIndex, loc.VehicleIndex)
	return true
}

// Revalidate re-resolves the current selection against the park. The ride is
// looked up again by id and the cascade re-runs with the previous indices;
// when the ride is gone the whole selection is cleared.
func (s *Selector) Revalidate() {
	current := s.ride.Get()
	s.ReloadRideList()
	if current == nil {
		return
	}
	rideIdx, ok := s.findRide(current.RideID)
	if !ok {
		s.log.Debug("selected ride disappeared", logging.Int("ride", current.RideID))
		s.clear()
		return
	}
	s.SelectRide(rideIdx, orZero(s.trainIndex), orZero(s.vehicleIndex))
}

// Sync compares the cached train and vehicle lists of the selected ride with
// the park. When either changed, the selected vehicle is looked up again and
// reselected where it is now; if it is gone the selection falls back through
// Revalidate. It reports whether the selection was re-resolved.
func (s *Selector) Sync() bool {
	r := s.ride.Get()
	if r == nil {
		return false
	}
	trains := s.world.Trains(r.RideID)
	var vehicles []world.Vehicle
	if s.trainIndex != unset && s.trainIndex < len(trains) {
		vehicles = s.world.Vehicles(r.RideID, trains[s.trainIndex].Index)
	}
	if sameTrains(trains, s.trainsOnRide.Get()) && sameVehicles(vehicles, s.vehiclesOnTrain.Get()) {
		return false
	}
	s.log.Debug("ride layout changed", logging.Int("ride", r.RideID), logging.Int("trains", len(trains)))
	if v := s.vehicle.Get(); v != nil && s.SelectEntity(v.EntityID()) {
		return true
	}
	s.Revalidate()
	return true
}

func sameTrains(a, b []world.TrainHandle) bool {
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

func sameVehicles(a, b []world.Vehicle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].EntityID() != b[i].EntityID() {
			return false
		}
	}
	return true
}

func (s *Selector) clear() {
	s.rideIndex = unset
	s.trainIndex = unset
	s.vehicleIndex = unset
	s.ride.Set(nil)
	s.trainsOnRide.Set(nil)
	s.train.Set(nil)
	s.vehiclesOnTrain.Set(nil)
	s.vehicle.Set(nil)
}

func (s *Selector) findRide(rideID int) (int, bool) {
	for i, r := range s.ridesInPark.Get() {
		if r.RideID == rideID {
			return i, true
		}
	}
	return unset, false
}

// resolve clamps an out of range index to the first entry, or reports false
// when there are no entries at all.
func resolve(idx, length int) (int, bool) {
	if length == 0 {
		return unset, false
	}
	if idx < 0 || idx >= length {
		return 0, true
	}
	return idx, true
}

func orZero(idx int) int {
	if idx == unset {
		return 0
	}
	return idx
}
