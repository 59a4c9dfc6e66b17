package session

import "github.com/san-kum/rve/internal/editor"

// State outlives a single editor session: the selection to restore when the
// editor is opened again and the copied settings. One State is shared by
// every session of a process; tests create their own.
type State struct {
	LastRideID       *int
	LastTrainIndex   int
	LastVehicleIndex int
	Copied           *editor.Settings
}

// Reset forgets the remembered selection and the copy buffer.
func (s *State) Reset() {
	*s = State{}
}

func (s *State) remember(rideID *int, trainIndex, vehicleIndex int) {
	s.LastRideID = rideID
	s.LastTrainIndex = trainIndex
	s.LastVehicleIndex = vehicleIndex
}
