// internal/system/result.go
package system

import "errors"

// Reason explains why a mutator was refused.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInsufficientGold
	ReasonBlocked
	ReasonNotReady
	ReasonInvalidCell
	ReasonUnknownTower
	ReasonMaxLevel
	ReasonNotCapable
	ReasonBusy
	ReasonNoTarget
	ReasonGameOver
)

var (
	ErrInsufficientGold = errors.New("insufficient gold")
	ErrBlocked          = errors.New("path blocked")
	ErrNotReady         = errors.New("not ready")
	ErrInvalidCell      = errors.New("invalid cell")
	ErrUnknownTower     = errors.New("unknown tower")
	ErrMaxLevel         = errors.New("max level reached")
	ErrNotCapable       = errors.New("tower cannot do that")
	ErrBusy             = errors.New("tower is upgrading or being sold")
	ErrNoTarget         = errors.New("no target in range")
	ErrGameOver         = errors.New("game is over")
)

var reasonErrors = map[Reason]error{
	ReasonInsufficientGold: ErrInsufficientGold,
	ReasonBlocked:          ErrBlocked,
	ReasonNotReady:         ErrNotReady,
	ReasonInvalidCell:      ErrInvalidCell,
	ReasonUnknownTower:     ErrUnknownTower,
	ReasonMaxLevel:         ErrMaxLevel,
	ReasonNotCapable:       ErrNotCapable,
	ReasonBusy:             ErrBusy,
	ReasonNoTarget:         ErrNoTarget,
	ReasonGameOver:         ErrGameOver,
}

func (r Reason) String() string {
	if r == ReasonNone {
		return "ok"
	}
	if err, ok := reasonErrors[r]; ok {
		return err.Error()
	}
	return "unknown"
}

// Result is what every public mutator returns. Refusals are values, never panics.
type Result struct {
	OK     bool
	Reason Reason
}

// Ok is the successful result.
func Ok() Result { return Result{OK: true} }

// Fail builds a refused result.
func Fail(r Reason) Result { return Result{Reason: r} }

// Err maps a refusal onto its sentinel error, nil on success.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return reasonErrors[r.Reason]
}

func (r Result) String() string {
	return r.Reason.String()
}
