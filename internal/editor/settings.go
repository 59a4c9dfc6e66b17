package editor

import (
	"errors"

	"github.com/san-kum/rve/internal/world"
)

// Settings is a snapshot of every editable attribute of one vehicle. It is a
// plain value; copies never alias the vehicle it was captured from.
type Settings struct {
	RideType            int   `json:"ride_type" yaml:"ride_type"`
	Variant             int   `json:"variant" yaml:"variant"`
	TrackProgress       int32 `json:"track_progress" yaml:"track_progress"`
	Seats               int   `json:"seats" yaml:"seats"`
	Mass                int   `json:"mass" yaml:"mass"`
	PoweredAcceleration int   `json:"powered_acceleration" yaml:"powered_acceleration"`
	PoweredMaxSpeed     int   `json:"powered_max_speed" yaml:"powered_max_speed"`
	SoundRange          int   `json:"sound_range" yaml:"sound_range"`
}

// Capture reads the settings of a vehicle.
func Capture(v world.Vehicle) (Settings, error) {
	car, err := v.Car()
	if err != nil {
		return Settings{}, err
	}
	return FromCar(car), nil
}

// FromCar converts the read model of a vehicle into settings.
func FromCar(c world.Car) Settings {
	return Settings{
		RideType:            c.RideType,
		Variant:             c.Variant,
		TrackProgress:       c.TrackProgress,
		Seats:               c.Seats,
		Mass:                c.Mass,
		PoweredAcceleration: c.PoweredAcceleration,
		PoweredMaxSpeed:     c.PoweredMaxSpeed,
		SoundRange:          c.SoundRange,
	}
}

// Apply writes s onto v as captured; only the simulation's own limits apply,
// not the tighter bounds of the setters. The ride type goes first because it
// decides how many variants are valid. An unknown ride type is skipped; a
// vanished vehicle aborts with world.ErrVehicleGone.
func Apply(v world.Vehicle, s Settings) error {
	car, err := v.Car()
	if err != nil {
		return err
	}
	if _, err := v.SetRideType(s.RideType); err != nil && !errors.Is(err, world.ErrUnknownRideType) {
		return err
	}
	if _, err := v.SetVariant(s.Variant); err != nil {
		return err
	}
	if _, err := v.Move(s.TrackProgress - car.TrackProgress); err != nil {
		return err
	}
	if _, err := v.SetSeats(s.Seats); err != nil {
		return err
	}
	if _, err := v.SetMass(s.Mass); err != nil {
		return err
	}
	if _, err := v.SetPoweredAcceleration(s.PoweredAcceleration); err != nil {
		return err
	}
	if _, err := v.SetPoweredMaxSpeed(s.PoweredMaxSpeed); err != nil {
		return err
	}
	if _, err := v.SetSoundRange(s.SoundRange); err != nil {
		return err
	}
	return nil
}
