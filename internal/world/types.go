package world

import "fmt"

// EntityID identifies one simulation entity. Ids are never reused while the
// park is loaded.
type EntityID int

// RideSummary is a snapshot of one ride, valid until the next ride list refresh.
type RideSummary struct {
	RideID int
	Name   string
}

// TrainHandle identifies a train by its position in the ride's current train list.
type TrainHandle struct {
	Index int
}

// Location is the ride/train/vehicle triple an entity was found at.
type Location struct {
	RideID       int
	TrainIndex   int
	VehicleIndex int
}

// RideType is one entry of the ride type catalogue.
type RideType struct {
	ID           int
	Name         string
	VariantCount int
	Powered      bool
}

type Position struct {
	X, Y, Z int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Car is the read model of a single vehicle.
type Car struct {
	ID                  EntityID
	RideType            int
	Variant             int
	TrackProgress       int32
	Seats               int
	Mass                int
	PoweredAcceleration int
	PoweredMaxSpeed     int
	SoundRange          int
	Powered             bool
	Position            Position
}

// Query is the read-only view on the running park.
type Query interface {
	Rides() []RideSummary
	Trains(rideID int) []TrainHandle
	Vehicles(rideID, trainIndex int) []Vehicle
	FindEntity(id EntityID) (Location, bool)
	RideTypes() []RideType
}

// Store reads and writes individual vehicles. Every write returns the value
// the simulation actually stored, which may be clamped further than asked.
type Store interface {
	Car(id EntityID) (Car, bool)

	SetRideType(id EntityID, rideType int) (int, error)
	SetVariant(id EntityID, variant int) (int, error)
	Move(id EntityID, delta int32) (int32, error)
	SetSeats(id EntityID, seats int) (int, error)
	SetMass(id EntityID, mass int) (int, error)
	SetPoweredAcceleration(id EntityID, value int) (int, error)
	SetPoweredMaxSpeed(id EntityID, value int) (int, error)
	SetSoundRange(id EntityID, soundRange int) (int, error)
}

// World is a park that can be both queried and mutated.
type World interface {
	Query
	Store
}
