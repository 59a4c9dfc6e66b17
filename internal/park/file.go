package park

import (
	"fmt"
	"os"

	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/world"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a park.
type File struct {
	Name      string         `yaml:"name"`
	RideTypes []RideTypeFile `yaml:"ride_types"`
	Rides     []RideFile     `yaml:"rides"`
}

type RideTypeFile struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Variants int    `yaml:"variants"`
	Powered  bool   `yaml:"powered"`
}

type RideFile struct {
	ID     int         `yaml:"id"`
	Name   string      `yaml:"name"`
	Trains []TrainFile `yaml:"trains"`
}

type TrainFile struct {
	Vehicles []VehicleFile `yaml:"vehicles"`
	// Repeat duplicates the vehicle list that many times, 0 and 1 mean once.
	Repeat int `yaml:"repeat,omitempty"`
}

type VehicleFile struct {
	RideType            int   `yaml:"ride_type"`
	Variant             int   `yaml:"variant"`
	TrackProgress       int32 `yaml:"track_progress"`
	Seats               int   `yaml:"seats"`
	Mass                int   `yaml:"mass"`
	PoweredAcceleration int   `yaml:"powered_acceleration,omitempty"`
	PoweredMaxSpeed     int   `yaml:"powered_max_speed,omitempty"`
	SoundRange          int   `yaml:"sound_range"`
}

// Load reads a park from a YAML file.
func Load(path string, log logging.Logger) (*Park, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, log)
}

// Parse builds a park from YAML.
func Parse(data []byte, log logging.Logger) (*Park, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse park: %w", err)
	}
	return Build(f, log)
}

// Build creates a park from its file description.
func Build(f File, log logging.Logger) (*Park, error) {
	p := New(f.Name, log)
	for _, rt := range f.RideTypes {
		p.AddRideType(world.RideType{ID: rt.ID, Name: rt.Name, VariantCount: rt.Variants, Powered: rt.Powered})
	}
	for _, rf := range f.Rides {
		id := p.AddRide(rf.ID, rf.Name)
		for ti, tf := range rf.Trains {
			repeat := tf.Repeat
			if repeat < 1 {
				repeat = 1
			}
			specs := make([]CarSpec, 0, len(tf.Vehicles)*repeat)
			for n := 0; n < repeat; n++ {
				for _, vf := range tf.Vehicles {
					specs = append(specs, CarSpec(vf))
				}
			}
			if _, err := p.AddTrain(id, specs...); err != nil {
				return nil, fmt.Errorf("ride %q train %d: %w", rf.Name, ti, err)
			}
		}
	}
	return p, nil
}

// Snapshot describes the current state of the park as a File.
func (p *Park) Snapshot() File {
	f := File{Name: p.Name}
	for _, rt := range p.rideTypes {
		f.RideTypes = append(f.RideTypes, RideTypeFile{ID: rt.ID, Name: rt.Name, Variants: rt.VariantCount, Powered: rt.Powered})
	}
	for _, r := range p.rides {
		rf := RideFile{ID: r.id, Name: r.name}
		for _, t := range r.trains {
			var tf TrainFile
			for _, id := range t.cars {
				c := p.cars[id]
				tf.Vehicles = append(tf.Vehicles, VehicleFile{
					RideType:            c.RideType,
					Variant:             c.Variant,
					TrackProgress:       c.TrackProgress,
					Seats:               c.Seats,
					Mass:                c.Mass,
					PoweredAcceleration: c.PoweredAcceleration,
					PoweredMaxSpeed:     c.PoweredMaxSpeed,
					SoundRange:          c.SoundRange,
				})
			}
			rf.Trains = append(rf.Trains, tf)
		}
		f.Rides = append(f.Rides, rf)
	}
	return f
}

// Save writes the current state of the park to path.
func (p *Park) Save(path string) error {
	data, err := yaml.Marshal(p.Snapshot())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
