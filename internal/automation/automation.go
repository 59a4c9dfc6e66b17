package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/rve/internal/editor"
	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/session"
	"github.com/san-kum/rve/internal/world"
	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpOpen           = "open"
	OpClose          = "close"
	OpSelectRide     = "select_ride"
	OpSelectTrain    = "select_train"
	OpSelectVehicle  = "select_vehicle"
	OpSelectEntity   = "select_entity"
	OpSet            = "set"
	OpMove           = "move"
	OpCopy           = "copy"
	OpUncopy         = "uncopy"
	OpPaste          = "paste"
	OpApplyAll       = "apply_all"
	OpApplyFollowing = "apply_following"
	OpApplyPreceding = "apply_preceding"
	OpApplyTrains    = "apply_trains"
	OpRemoveVehicle  = "remove_vehicle"
	OpRemoveTrain    = "remove_train"
	OpTick           = "tick"
)

var ErrUnknownOp = errors.New("automation: unknown op")

// Script is a scripted edit session.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Park names a preset or a park file. Callers decide how to open it.
	Park  string `yaml:"park"`
	Steps []Step `yaml:"steps"`
}

// Step is a single command in a script. Which fields are read depends on Op.
type Step struct {
	Op        string `yaml:"op"`
	Index     int    `yaml:"index"`
	Train     *int   `yaml:"train,omitempty"`
	Vehicle   *int   `yaml:"vehicle,omitempty"`
	Entity    int    `yaml:"entity"`
	Attribute string `yaml:"attribute"`
	Value     int    `yaml:"value"`
	Count     int    `yaml:"count"`
}

// Outcome reports what a step did. OK is false when the step found nothing
// to act on, which is not an error.
type Outcome struct {
	Step    int
	Op      string
	OK      bool
	Applied int
	Skipped int
}

// Simulation is the part of the park a script can act on outside the editor.
type Simulation interface {
	RemoveVehicle(id world.EntityID) bool
	RemoveTrain(rideID, index int) error
	Tick()
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, step := range script.Steps {
		if !knownOps[step.Op] {
			return nil, fmt.Errorf("step %d: %w %q", i+1, ErrUnknownOp, step.Op)
		}
	}
	return &script, nil
}

var knownOps = map[string]bool{
	OpOpen: true, OpClose: true, OpSelectRide: true, OpSelectTrain: true, OpSelectVehicle: true,
	OpSelectEntity: true, OpSet: true, OpMove: true, OpCopy: true, OpUncopy: true, OpPaste: true,
	OpApplyAll: true, OpApplyFollowing: true, OpApplyPreceding: true, OpApplyTrains: true,
	OpRemoveVehicle: true, OpRemoveTrain: true, OpTick: true,
}

// Run executes every step of the script against the session. The session is
// opened first if the script does not open it itself. Run stops at the first
// step that fails or when ctx is done.
func Run(ctx context.Context, script *Script, s *session.Session, sim Simulation, log logging.Logger) ([]Outcome, error) {
	log = logging.OrNoop(log).With(logging.String("script", script.Name))
	results := make([]Outcome, 0, len(script.Steps))

	if !s.IsOpen() {
		s.Open()
	}
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		log.Debug("step", logging.Int("n", i+1), logging.String("op", step.Op))

		out, err := runStep(s, sim, step)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		out.Step, out.Op = i+1, step.Op
		results = append(results, out)
	}
	return results, nil
}

func runStep(s *session.Session, sim Simulation, step Step) (Outcome, error) {
	sel, ed := s.Selector(), s.Editor()
	switch step.Op {
	case OpOpen:
		s.Open()
	case OpClose:
		s.Close()
	case OpSelectRide:
		var indices []int
		if step.Train != nil {
			indices = append(indices, *step.Train)
			if step.Vehicle != nil {
				indices = append(indices, *step.Vehicle)
			}
		}
		sel.SelectRide(step.Index, indices...)
		_, ok := sel.RideIndex()
		return Outcome{OK: ok && sel.Ride().Get() != nil}, nil
	case OpSelectTrain:
		sel.SelectTrain(step.Index)
		return Outcome{OK: sel.Train().Get() != nil}, nil
	case OpSelectVehicle:
		sel.SelectVehicle(step.Index)
		return Outcome{OK: sel.Vehicle().Get() != nil}, nil
	case OpSelectEntity:
		return Outcome{OK: sel.SelectEntity(world.EntityID(step.Entity))}, nil
	case OpSet:
		if _, ok := ed.Vehicle(); !ok {
			return Outcome{}, nil
		}
		if err := set(ed, step.Attribute, step.Value); err != nil {
			return Outcome{}, err
		}
	case OpMove:
		if _, ok := ed.Vehicle(); !ok {
			return Outcome{}, nil
		}
		ed.Move(int32(step.Value))
	case OpCopy:
		return Outcome{OK: s.Copy()}, nil
	case OpUncopy:
		s.Uncopy()
	case OpPaste:
		res, ok := s.Paste()
		return outcome(res, ok), nil
	case OpApplyAll:
		return outcome(s.ApplyToAllVehicles(), true), nil
	case OpApplyFollowing:
		return outcome(s.ApplyToFollowingVehicles(), true), nil
	case OpApplyPreceding:
		return outcome(s.ApplyToPrecedingVehicles(), true), nil
	case OpApplyTrains:
		return outcome(s.ApplyToAllTrains(), true), nil
	case OpRemoveVehicle:
		id := world.EntityID(step.Entity)
		if id == 0 {
			v, ok := ed.Vehicle()
			if !ok {
				return Outcome{}, nil
			}
			id = v.EntityID()
		}
		return Outcome{OK: sim.RemoveVehicle(id)}, nil
	case OpRemoveTrain:
		ride := sel.Ride().Get()
		if ride == nil {
			return Outcome{}, nil
		}
		idx := step.Index
		if step.Train == nil {
			if cur, ok := sel.TrainIndex(); ok {
				idx = cur
			}
		} else {
			idx = *step.Train
		}
		if err := sim.RemoveTrain(ride.RideID, idx); err != nil {
			if errors.Is(err, world.ErrUnknownTrain) {
				return Outcome{}, nil
			}
			return Outcome{}, err
		}
	case OpTick:
		for i, n := 0, max(step.Count, 1); i < n; i++ {
			sim.Tick()
			s.Update()
		}
	default:
		return Outcome{}, fmt.Errorf("%w %q", ErrUnknownOp, step.Op)
	}
	return Outcome{OK: true}, nil
}

func set(ed *editor.Editor, attribute string, value int) error {
	switch attribute {
	case editor.AttrRideType:
		for i, rt := range ed.RideTypes().Get() {
			if rt.ID == value {
				ed.SetRideType(i)
				return nil
			}
		}
		return fmt.Errorf("ride type %d: %w", value, world.ErrUnknownRideType)
	case editor.AttrVariant:
		ed.SetVariant(value)
	case editor.AttrTrackProgress:
		ed.SetTrackProgress(int32(value))
	case editor.AttrSeats:
		ed.SetSeatCount(value)
	case editor.AttrMass:
		ed.SetMass(value)
	case editor.AttrPoweredAcceleration:
		ed.SetPoweredAcceleration(value)
	case editor.AttrPoweredMaxSpeed:
		ed.SetPoweredMaximumSpeed(value)
	case editor.AttrSoundRange:
		ed.SetSoundRange(value)
	default:
		return fmt.Errorf("unknown attribute %q", attribute)
	}
	return nil
}

func outcome(res editor.Result, ok bool) Outcome {
	return Outcome{OK: ok && res.Applied > 0, Applied: res.Applied, Skipped: res.Skipped}
}

// Summary counts the steps that acted and the vehicles written.
func Summary(results []Outcome) (ok, applied, skipped int) {
	for _, r := range results {
		if r.OK {
			ok++
		}
		applied += r.Applied
		skipped += r.Skipped
	}
	return
}
