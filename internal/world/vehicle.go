package world

// Vehicle is a weak handle to one car: an entity id plus the store that can
// resolve it. Holding a Vehicle never keeps the entity alive; every accessor
// re-validates existence first.
type Vehicle struct {
	id    EntityID
	store Store
}

// NewVehicle binds id to store.
func NewVehicle(id EntityID, store Store) Vehicle {
	return Vehicle{id: id, store: store}
}

func (v Vehicle) EntityID() EntityID { return v.id }

// IsZero reports whether v is the empty handle.
func (v Vehicle) IsZero() bool { return v.store == nil }

// Exists reports whether the entity is still part of the simulation.
func (v Vehicle) Exists() bool {
	if v.store == nil {
		return false
	}
	_, ok := v.store.Car(v.id)
	return ok
}

// Car reads the current state of the vehicle.
func (v Vehicle) Car() (Car, error) {
	if v.store == nil {
		return Car{}, ErrVehicleGone
	}
	car, ok := v.store.Car(v.id)
	if !ok {
		return Car{}, ErrVehicleGone
	}
	return car, nil
}

// IsPowered reports whether the vehicle drives itself. A vanished vehicle is
// never powered.
func (v Vehicle) IsPowered() bool {
	car, err := v.Car()
	return err == nil && car.Powered
}

func (v Vehicle) SetRideType(rideType int) (int, error) {
	if v.store == nil {
		return 0, ErrVehicleGone
	}
	return v.store.SetRideType(v.id, rideType)
}

func (v Vehicle) SetVariant(variant int) (int, error) {
	if v.store == nil {
		return 0, ErrVehicleGone
	}
	return v.store.SetVariant(v.id, variant)
}

// Move travels the vehicle delta steps along the track and returns its new
// track progress.
func (v Vehicle) Move(delta int32) (int32, error) {
	if v.store == nil {
		return 0, ErrVehicleGone
	}
	return v.store.Move(v.id, delta)
}

func (v Vehicle) SetSeats(seats int) (int, error) {
	if v.store == nil {
		return 0, ErrVehicleGone
	}
	return v.store.SetSeats(v.id, seats)
}

func (v Vehicle) SetMass(mass int) (int, error) {
	if v.store == nil {
		return 0, ErrVehicleGone
	}
	return v.store.SetMass(v.id, mass)
}

func (v Vehicle) SetPoweredAcceleration(value int) (int, error) {
	if v.store == nil {
		return 0, ErrVehicleGone
	}
	return v.store.SetPoweredAcceleration(v.id, value)
}

func (v Vehicle) SetPoweredMaxSpeed(value int) (int, error) {
	if v.store == nil {
		return 0, ErrVehicleGone
	}
	return v.store.SetPoweredMaxSpeed(v.id, value)
}

func (v Vehicle) SetSoundRange(soundRange int) (int, error) {
	if v.store == nil {
		return 0, ErrVehicleGone
	}
	return v.store.SetSoundRange(v.id, soundRange)
}
