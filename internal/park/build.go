package park

import (
	"fmt"

	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/world"
)

// CarSpec describes a vehicle to be created. Values are clamped the same way
// the Store setters clamp them.
type CarSpec struct {
	RideType            int
	Variant             int
	TrackProgress       int32
	Seats               int
	Mass                int
	PoweredAcceleration int
	PoweredMaxSpeed     int
	SoundRange          int
}

// AddRide appends a ride and returns its id. A non-positive id picks the next
// free one.
func (p *Park) AddRide(id int, name string) int {
	if id <= 0 || p.ride(id) != nil {
		id = 1
		for _, r := range p.rides {
			if r.id >= id {
				id = r.id + 1
			}
		}
	}
	p.rides = append(p.rides, &ride{id: id, name: name})
	p.log.Debug("add ride", logging.Int("ride", id), logging.String("name", name))
	return id
}

// AddTrain appends a train built from specs to the ride and returns its index.
func (p *Park) AddTrain(rideID int, specs ...CarSpec) (int, error) {
	r := p.ride(rideID)
	if r == nil {
		return 0, fmt.Errorf("add train to ride %d: %w", rideID, world.ErrUnknownRide)
	}
	t := &train{}
	for _, s := range specs {
		rt, ok := p.RideType(s.RideType)
		if !ok {
			return 0, fmt.Errorf("add train to ride %d: ride type %d: %w", rideID, s.RideType, world.ErrUnknownRideType)
		}
		id := p.nextID
		p.nextID++
		p.cars[id] = &car{
			Car: world.Car{
				ID:                  id,
				RideType:            rt.ID,
				Variant:             clampVariant(s.Variant, rt),
				TrackProgress:       s.TrackProgress,
				Seats:               clamp(s.Seats, 0, MaxSeats),
				Mass:                clamp(s.Mass, 0, MaxMass),
				PoweredAcceleration: clamp(s.PoweredAcceleration, 0, MaxPoweredValue),
				PoweredMaxSpeed:     clamp(s.PoweredMaxSpeed, 0, MaxPoweredValue),
				SoundRange:          clamp(s.SoundRange, 0, MaxSoundRange),
				Powered:             rt.Powered,
			},
			rideID: r.id,
		}
		t.cars = append(t.cars, id)
	}
	r.trains = append(r.trains, t)
	return len(r.trains) - 1, nil
}

// RemoveVehicle deletes a single vehicle. A train left without vehicles is
// removed as well. It reports whether the vehicle existed.
func (p *Park) RemoveVehicle(id world.EntityID) bool {
	loc, ok := p.FindEntity(id)
	if !ok {
		return false
	}
	r := p.ride(loc.RideID)
	t := r.trains[loc.TrainIndex]
	t.cars = append(t.cars[:loc.VehicleIndex:loc.VehicleIndex], t.cars[loc.VehicleIndex+1:]...)
	delete(p.cars, id)
	if len(t.cars) == 0 {
		r.trains = append(r.trains[:loc.TrainIndex:loc.TrainIndex], r.trains[loc.TrainIndex+1:]...)
	}
	p.log.Debug("remove vehicle", logging.Int("entity", int(id)))
	return true
}

// RemoveTrain deletes the train at index together with its vehicles.
func (p *Park) RemoveTrain(rideID, index int) error {
	r := p.ride(rideID)
	if r == nil {
		return fmt.Errorf("remove train from ride %d: %w", rideID, world.ErrUnknownRide)
	}
	if index < 0 || index >= len(r.trains) {
		return fmt.Errorf("remove train %d from ride %d: %w", index, rideID, world.ErrUnknownTrain)
	}
	for _, id := range r.trains[index].cars {
		delete(p.cars, id)
	}
	r.trains = append(r.trains[:index:index], r.trains[index+1:]...)
	p.log.Debug("remove train", logging.Int("ride", rideID), logging.Int("train", index))
	return nil
}

// RemoveRide demolishes a ride and everything on it.
func (p *Park) RemoveRide(rideID int) error {
	for i, r := range p.rides {
		if r.id != rideID {
			continue
		}
		for _, t := range r.trains {
			for _, id := range t.cars {
				delete(p.cars, id)
			}
		}
		p.rides = append(p.rides[:i:i], p.rides[i+1:]...)
		p.log.Debug("remove ride", logging.Int("ride", rideID))
		return nil
	}
	return fmt.Errorf("remove ride %d: %w", rideID, world.ErrUnknownRide)
}

// VehicleCount returns the number of vehicles in the park.
func (p *Park) VehicleCount() int {
	return len(p.cars)
}
