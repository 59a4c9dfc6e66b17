package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/rve/internal/world"
)

// Row is one vehicle in an export.
type Row struct {
	RideID              int    `json:"ride_id"`
	Ride                string `json:"ride"`
	Train               int    `json:"train"`
	Vehicle             int    `json:"vehicle"`
	EntityID            int    `json:"entity_id"`
	RideType            int    `json:"ride_type"`
	Variant             int    `json:"variant"`
	TrackProgress       int32  `json:"track_progress"`
	Seats               int    `json:"seats"`
	Mass                int    `json:"mass"`
	PoweredAcceleration int    `json:"powered_acceleration"`
	PoweredMaxSpeed     int    `json:"powered_max_speed"`
	SoundRange          int    `json:"sound_range"`
}

var header = []string{
	"ride_id", "ride", "train", "vehicle", "entity_id", "ride_type", "variant",
	"track_progress", "seats", "mass", "powered_acceleration", "powered_max_speed", "sound_range",
}

// Collect walks every vehicle of the park in ride, train, vehicle order. With
// rideID > 0 only that ride is exported.
func Collect(q world.Query, rideID int) []Row {
	var rows []Row
	for _, r := range q.Rides() {
		if rideID > 0 && r.RideID != rideID {
			continue
		}
		for _, t := range q.Trains(r.RideID) {
			for i, v := range q.Vehicles(r.RideID, t.Index) {
				c, err := v.Car()
				if err != nil {
					continue
				}
				rows = append(rows, Row{
					RideID:              r.RideID,
					Ride:                r.Name,
					Train:               t.Index,
					Vehicle:             i,
					EntityID:            int(c.ID),
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
		}
	}
	return rows
}

type ExportData struct {
	Park     string `json:"park"`
	Vehicles int    `json:"vehicles"`
	Rows     []Row  `json:"rows"`
}

func ExportJSON(w io.Writer, parkName string, rows []Row) error {
	data := ExportData{
		Park:     parkName,
		Vehicles: len(rows),
		Rows:     rows,
	}
	if data.Rows == nil {
		data.Rows = []Row{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.RideID),
			r.Ride,
			strconv.Itoa(r.Train),
			strconv.Itoa(r.Vehicle),
			strconv.Itoa(r.EntityID),
			strconv.Itoa(r.RideType),
			strconv.Itoa(r.Variant),
			strconv.FormatInt(int64(r.TrackProgress), 10),
			strconv.Itoa(r.Seats),
			strconv.Itoa(r.Mass),
			strconv.Itoa(r.PoweredAcceleration),
			strconv.Itoa(r.PoweredMaxSpeed),
			strconv.Itoa(r.SoundRange),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by ExportCSV.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		var ints [12]int
		for i, j := 0, 0; i < len(rec); i++ {
			if i == 1 {
				continue
			}
			v, err := strconv.Atoi(rec[i])
			if err != nil {
				return nil, err
			}
			ints[j] = v
			j++
		}
		rows = append(rows, Row{
			RideID:              ints[0],
			Ride:                rec[1],
			Train:               ints[1],
			Vehicle:             ints[2],
			EntityID:            ints[3],
			RideType:            ints[4],
			Variant:             ints[5],
			TrackProgress:       int32(ints[6]),
			Seats:               ints[7],
			Mass:                ints[8],
			PoweredAcceleration: ints[9],
			PoweredMaxSpeed:     ints[10],
			SoundRange:          ints[11],
		})
	}
	return rows, nil
}
