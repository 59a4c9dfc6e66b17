package park

import (
	"sort"

	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/world"
)

// Limits the simulation enforces on stored vehicle values.
const (
	MaxSeats        = 255
	MaxMass         = 65535
	MaxPoweredValue = 255
	MaxSoundRange   = 255
)

type car struct {
	world.Car
	rideID int
	speed  int32
}

type train struct {
	cars []world.EntityID
}

type ride struct {
	id     int
	name   string
	trains []*train
}

// Park is an in-memory simulation of rides, trains and vehicles. It
// implements both world.Query and world.Store.
type Park struct {
	Name string

	rideTypes []world.RideType
	rides     []*ride
	cars      map[world.EntityID]*car
	nextID    world.EntityID
	log       logging.Logger
}

var _ world.World = (*Park)(nil)

// New returns an empty park.
func New(name string, log logging.Logger) *Park {
	return &Park{
		Name:   name,
		cars:   make(map[world.EntityID]*car),
		nextID: 1,
		log:    logging.OrNoop(log).With(logging.String("component", "park")),
	}
}

func (p *Park) Rides() []world.RideSummary {
	out := make([]world.RideSummary, 0, len(p.rides))
	for _, r := range p.rides {
		out = append(out, world.RideSummary{RideID: r.id, Name: r.name})
	}
	return out
}

func (p *Park) Trains(rideID int) []world.TrainHandle {
	r := p.ride(rideID)
	if r == nil {
		return nil
	}
	out := make([]world.TrainHandle, len(r.trains))
	for i := range r.trains {
		out[i] = world.TrainHandle{Index: i}
	}
	return out
}

func (p *Park) Vehicles(rideID, trainIndex int) []world.Vehicle {
	r := p.ride(rideID)
	if r == nil || trainIndex < 0 || trainIndex >= len(r.trains) {
		return nil
	}
	ids := r.trains[trainIndex].cars
	out := make([]world.Vehicle, len(ids))
	for i, id := range ids {
		out[i] = world.NewVehicle(id, p)
	}
	return out
}

func (p *Park) FindEntity(id world.EntityID) (world.Location, bool) {
	c, ok := p.cars[id]
	if !ok {
		return world.Location{}, false
	}
	r := p.ride(c.rideID)
	if r == nil {
		return world.Location{}, false
	}
	for ti, t := range r.trains {
		for vi, cid := range t.cars {
			if cid == id {
				return world.Location{RideID: r.id, TrainIndex: ti, VehicleIndex: vi}, true
			}
		}
	}
	return world.Location{}, false
}

func (p *Park) RideTypes() []world.RideType {
	out := make([]world.RideType, len(p.rideTypes))
	copy(out, p.rideTypes)
	return out
}

// RideType looks up a catalogue entry by id.
func (p *Park) RideType(id int) (world.RideType, bool) {
	for _, rt := range p.rideTypes {
		if rt.ID == id {
			return rt, true
		}
	}
	return world.RideType{}, false
}

// AddRideType registers or replaces a catalogue entry.
func (p *Park) AddRideType(rt world.RideType) {
	for i, existing := range p.rideTypes {
		if existing.ID == rt.ID {
			p.rideTypes[i] = rt
			return
		}
	}
	p.rideTypes = append(p.rideTypes, rt)
	sort.Slice(p.rideTypes, func(i, j int) bool { return p.rideTypes[i].ID < p.rideTypes[j].ID })
}

func (p *Park) Car(id world.EntityID) (world.Car, bool) {
	c, ok := p.cars[id]
	if !ok {
		return world.Car{}, false
	}
	out := c.Car
	out.Position = p.position(c)
	return out, true
}

func (p *Park) SetRideType(id world.EntityID, rideType int) (int, error) {
	c, ok := p.cars[id]
	if !ok {
		return 0, world.ErrVehicleGone
	}
	rt, ok := p.RideType(rideType)
	if !ok {
		return c.RideType, world.ErrUnknownRideType
	}
	c.RideType = rt.ID
	c.Powered = rt.Powered
	c.Variant = clampVariant(c.Variant, rt)
	p.log.Debug("set ride type", logging.Int("entity", int(id)), logging.Int("ride_type", rt.ID))
	return c.RideType, nil
}

func (p *Park) SetVariant(id world.EntityID, variant int) (int, error) {
	c, ok := p.cars[id]
	if !ok {
		return 0, world.ErrVehicleGone
	}
	rt, _ := p.RideType(c.RideType)
	c.Variant = clampVariant(variant, rt)
	return c.Variant, nil
}

func (p *Park) Move(id world.EntityID, delta int32) (int32, error) {
	c, ok := p.cars[id]
	if !ok {
		return 0, world.ErrVehicleGone
	}
	c.TrackProgress += delta
	return c.TrackProgress, nil
}

func (p *Park) SetSeats(id world.EntityID, seats int) (int, error) {
	c, ok := p.cars[id]
	if !ok {
		return 0, world.ErrVehicleGone
	}
	c.Seats = clamp(seats, 0, MaxSeats)
	return c.Seats, nil
}

func (p *Park) SetMass(id world.EntityID, mass int) (int, error) {
	c, ok := p.cars[id]
	if !ok {
		return 0, world.ErrVehicleGone
	}
	c.Mass = clamp(mass, 0, MaxMass)
	return c.Mass, nil
}

func (p *Park) SetPoweredAcceleration(id world.EntityID, value int) (int, error) {
	c, ok := p.cars[id]
	if !ok {
		return 0, world.ErrVehicleGone
	}
	c.PoweredAcceleration = clamp(value, 0, MaxPoweredValue)
	return c.PoweredAcceleration, nil
}

func (p *Park) SetPoweredMaxSpeed(id world.EntityID, value int) (int, error) {
	c, ok := p.cars[id]
	if !ok {
		return 0, world.ErrVehicleGone
	}
	c.PoweredMaxSpeed = clamp(value, 0, MaxPoweredValue)
	return c.PoweredMaxSpeed, nil
}

func (p *Park) SetSoundRange(id world.EntityID, soundRange int) (int, error) {
	c, ok := p.cars[id]
	if !ok {
		return 0, world.ErrVehicleGone
	}
	c.SoundRange = clamp(soundRange, 0, MaxSoundRange)
	return c.SoundRange, nil
}

func (p *Park) ride(id int) *ride {
	for _, r := range p.rides {
		if r.id == id {
			return r
		}
	}
	return nil
}

// position places rides on separate rows and spreads cars along x by their
// track progress.
func (p *Park) position(c *car) world.Position {
	return world.Position{
		X: int(c.TrackProgress) / 32,
		Y: c.rideID * 64,
		Z: 14,
	}
}

func clampVariant(variant int, rt world.RideType) int {
	if rt.VariantCount <= 0 {
		return 0
	}
	return clamp(variant, 0, rt.VariantCount-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
