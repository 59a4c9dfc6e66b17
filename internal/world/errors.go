package world

import "errors"

// Domain errors returned by Store implementations.
var (
	// ErrVehicleGone indicates the entity behind a vehicle handle no longer exists.
	ErrVehicleGone = errors.New("world: vehicle no longer exists")

	// ErrUnknownRide indicates a ride id that is not part of the park.
	ErrUnknownRide = errors.New("world: unknown ride")

	// ErrUnknownTrain indicates a train index outside the ride's train list.
	ErrUnknownTrain = errors.New("world: unknown train")

	// ErrUnknownRideType indicates a ride type id missing from the catalogue.
	ErrUnknownRideType = errors.New("world: unknown ride type")
)
