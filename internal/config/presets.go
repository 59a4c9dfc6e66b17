package config

import (
	"sort"

	"github.com/san-kum/rve/internal/park"
)

var rideTypes = []park.RideTypeFile{
	{ID: 0, Name: "Wooden Roller Coaster", Variants: 3},
	{ID: 1, Name: "Steel Twister", Variants: 2},
	{ID: 2, Name: "Go Karts", Variants: 4, Powered: true},
	{ID: 3, Name: "Miniature Railway", Variants: 3, Powered: true},
	{ID: 4, Name: "Log Flume", Variants: 1},
}

func coach(rideType, variant, seats, mass int) park.VehicleFile {
	return park.VehicleFile{RideType: rideType, Variant: variant, Seats: seats, Mass: mass}
}

func engine(rideType, variant, seats, mass, acceleration, maxSpeed int) park.VehicleFile {
	return park.VehicleFile{
		RideType: rideType, Variant: variant, Seats: seats, Mass: mass,
		PoweredAcceleration: acceleration, PoweredMaxSpeed: maxSpeed,
	}
}

var Presets = map[string]*park.File{
	"demo": {
		Name:      "Demo Park",
		RideTypes: rideTypes,
		Rides: []park.RideFile{
			{ID: 1, Name: "Wooden Roller Coaster 1", Trains: []park.TrainFile{
				{Vehicles: []park.VehicleFile{coach(0, 0, 4, 320)}, Repeat: 6},
				{Vehicles: []park.VehicleFile{coach(0, 1, 4, 320)}, Repeat: 6},
			}},
			{ID: 2, Name: "Go Karts 1", Trains: []park.TrainFile{
				{Vehicles: []park.VehicleFile{engine(2, 0, 1, 90, 48, 36)}},
				{Vehicles: []park.VehicleFile{engine(2, 1, 1, 90, 48, 36)}},
				{Vehicles: []park.VehicleFile{engine(2, 2, 1, 90, 48, 36)}},
			}},
			{ID: 3, Name: "Miniature Railway 1", Trains: []park.TrainFile{
				{Vehicles: []park.VehicleFile{
					engine(3, 0, 0, 800, 20, 12),
					coach(3, 1, 6, 400),
					coach(3, 1, 6, 400),
					coach(3, 2, 6, 400),
				}},
			}},
			{ID: 4, Name: "Log Flume 1", Trains: []park.TrainFile{
				{Vehicles: []park.VehicleFile{coach(4, 0, 2, 150)}},
				{Vehicles: []park.VehicleFile{coach(4, 0, 2, 150)}},
			}},
		},
	},
	"empty": {
		Name:      "Empty Park",
		RideTypes: rideTypes,
	},
	"coasters": {
		Name:      "Coaster Valley",
		RideTypes: rideTypes,
		Rides: []park.RideFile{
			{ID: 1, Name: "Wooden Roller Coaster 1", Trains: []park.TrainFile{
				{Vehicles: []park.VehicleFile{coach(0, 0, 4, 320)}, Repeat: 8},
			}},
			{ID: 2, Name: "Steel Twister 1", Trains: []park.TrainFile{
				{Vehicles: []park.VehicleFile{coach(1, 0, 4, 280)}, Repeat: 7},
				{Vehicles: []park.VehicleFile{coach(1, 1, 4, 280)}, Repeat: 7},
				{Vehicles: []park.VehicleFile{coach(1, 0, 4, 280)}, Repeat: 7},
			}},
			{ID: 3, Name: "Steel Twister 2", Trains: []park.TrainFile{
				{Vehicles: []park.VehicleFile{coach(1, 1, 2, 200)}, Repeat: 5},
			}},
		},
	},
}

func GetPreset(name string) *park.File {
	f, ok := Presets[name]
	if !ok {
		return nil
	}
	return f
}

// ListPresets returns the preset names in alphabetical order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
