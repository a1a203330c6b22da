// internal/state/state.go
package state

import (
	"fmt"

	"go-tower-defense-sim/pkg/logger"

	"github.com/hajimehoshi/ebiten/v2"
)

// State is one screen of the viewer: menu, running game or pause overlay.
type State interface {
	Enter()
	Update(deltaTime float64)
	Draw(screen *ebiten.Image)
	Exit()
}

// StateMachine owns the current screen and forwards frames to it.
type StateMachine struct {
	current State
}

func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// SetState exits the current screen, if any, and enters the new one. nil is allowed.
func (sm *StateMachine) SetState(next State) {
	if sm.current != nil {
		sm.current.Exit()
	}
	logger.Component("viewer").WithField("state", stateName(next)).Debug("State changed")
	sm.current = next
	if sm.current != nil {
		sm.current.Enter()
	}
}

func (sm *StateMachine) Current() State { return sm.current }

func (sm *StateMachine) Update(deltaTime float64) {
	if sm.current != nil {
		sm.current.Update(deltaTime)
	}
}

func (sm *StateMachine) Draw(screen *ebiten.Image) {
	if sm.current != nil {
		sm.current.Draw(screen)
	}
}

func stateName(s State) string {
	if s == nil {
		return "none"
	}
	return fmt.Sprintf("%T", s)
}
