package tui

import (
	"github.com/san-kum/rve/internal/observable"
	"github.com/san-kum/rve/internal/session"
	"github.com/san-kum/rve/internal/world"
)

// bindings mirrors the session's observables into plain fields the view
// reads. Every field is written from a subscription, never by the model.
type bindings struct {
	rides    []world.RideSummary
	trains   []world.TrainHandle
	vehicles []world.Vehicle
	ride     *world.RideSummary
	train    *world.TrainHandle
	vehicle  *world.Vehicle

	rideTypes     []world.RideType
	rideTypeIndex int
	variant       int
	trackProgress int32
	seats         int
	mass          int
	acceleration  int
	maxSpeed      int
	soundRange    int
	powered       bool

	canPaste   bool
	picking    bool
	multiplier int

	// progress history of the vehicle the editor follows, newest last
	history   []float64
	historyOf world.EntityID

	unsubscribe []func()
}

const historyLen = 48

func bind[T any](b *bindings, r observable.Readable[T], fn func(T)) {
	b.unsubscribe = append(b.unsubscribe, r.Subscribe(fn))
}

func newBindings(s *session.Session) *bindings {
	b := &bindings{}
	sel, ed := s.Selector(), s.Editor()

	bind(b, sel.RidesInPark(), func(v []world.RideSummary) { b.rides = v })
	bind(b, sel.TrainsOnRide(), func(v []world.TrainHandle) { b.trains = v })
	bind(b, sel.VehiclesOnTrain(), func(v []world.Vehicle) { b.vehicles = v })
	bind(b, sel.Ride(), func(v *world.RideSummary) { b.ride = v })
	bind(b, sel.Train(), func(v *world.TrainHandle) { b.train = v })
	bind(b, sel.Vehicle(), func(v *world.Vehicle) { b.vehicle = v })

	bind(b, ed.RideTypes(), func(v []world.RideType) { b.rideTypes = v })
	bind(b, ed.RideTypeIndex(), func(v int) { b.rideTypeIndex = v })
	bind(b, ed.Variant(), func(v int) { b.variant = v })
	// The editor publishes before the selector's other subscribers run, so
	// the vehicle is taken from the editor rather than from b.vehicle.
	bind(b, ed.TrackProgress(), func(v int32) {
		b.trackProgress = v
		cur, ok := ed.Vehicle()
		if !ok {
			b.history, b.historyOf = b.history[:0], 0
			return
		}
		if cur.EntityID() != b.historyOf {
			b.history, b.historyOf = b.history[:0], cur.EntityID()
		}
		b.history = append(b.history, float64(v))
		if len(b.history) > historyLen {
			b.history = b.history[1:]
		}
	})
	bind(b, ed.Seats(), func(v int) { b.seats = v })
	bind(b, ed.Mass(), func(v int) { b.mass = v })
	bind(b, ed.PoweredAcceleration(), func(v int) { b.acceleration = v })
	bind(b, ed.PoweredMaxSpeed(), func(v int) { b.maxSpeed = v })
	bind(b, ed.SoundRange(), func(v int) { b.soundRange = v })
	bind(b, ed.IsPowered(), func(v bool) { b.powered = v })

	bind(b, s.CanPaste(), func(v bool) { b.canPaste = v })
	bind(b, s.Picking(), func(v bool) { b.picking = v })
	bind(b, s.Multiplier(), func(v int) { b.multiplier = v })
	return b
}

func (b *bindings) close() {
	for _, fn := range b.unsubscribe {
		fn()
	}
	b.unsubscribe = nil
}
