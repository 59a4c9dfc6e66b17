package picker

import (
	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/world"
)

// Host is a modal input mode that reports the entity the operator clicked.
// The cancelled callback runs whenever the mode ends, after a successful
// pick as well.
type Host interface {
	Activate(onEntityClicked func(world.EntityID), onCancelled func())
	Cancel()
	Active() bool
}

// Tool is an in-process Host. The presentation layer feeds it clicks.
type Tool struct {
	log      logging.Logger
	active   bool
	onClick  func(world.EntityID)
	onCancel func()
}

var _ Host = (*Tool)(nil)

func NewTool(log logging.Logger) *Tool {
	return &Tool{log: logging.OrNoop(log).With(logging.String("component", "picker"))}
}

// Activate starts picking. A pick that is already running is cancelled
// first.
func (t *Tool) Activate(onEntityClicked func(world.EntityID), onCancelled func()) {
	if t.active {
		t.Cancel()
	}
	t.log.Debug("activate")
	t.active = true
	t.onClick = onEntityClicked
	t.onCancel = onCancelled
}

// Cancel ends the pick. It is safe to call when nothing is active.
func (t *Tool) Cancel() {
	if !t.active {
		return
	}
	t.log.Debug("cancel")
	t.active = false
	onCancel := t.onCancel
	t.onClick = nil
	t.onCancel = nil
	if onCancel != nil {
		onCancel()
	}
}

func (t *Tool) Active() bool { return t.active }

// Click delivers a click on an entity. It reports whether a pick was running
// to receive it.
func (t *Tool) Click(id world.EntityID) bool {
	if !t.active || t.onClick == nil {
		return false
	}
	t.log.Debug("click", logging.Int("entity", int(id)))
	t.onClick(id)
	return true
}
