// internal/score/ledger.go
package score

import (
	"sync"

	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Ledger is the default Economy: gold, lives and the final outcome.
// It is safe for concurrent reads from a front-end while the game ticks.
type Ledger struct {
	mu       sync.RWMutex
	gold     int
	lives    int
	over     bool
	won      bool
	earned   int
	spent    int
	leaked   int
	onFinish func(won bool)
}

func NewLedger(gold, lives int) *Ledger {
	return &Ledger{gold: gold, lives: lives}
}

// OnFinish registers a callback run once when the game ends.
func (l *Ledger) OnFinish(fn func(won bool)) {
	l.mu.Lock()
	l.onFinish = fn
	l.mu.Unlock()
}

func (l *Ledger) Gold() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.gold
}

func (l *Ledger) GrantGold(amount int) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	l.gold += amount
	l.earned += amount
	l.mu.Unlock()
}

func (l *Ledger) SpendGold(amount int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount < 0 || amount > l.gold {
		return false
	}
	l.gold -= amount
	l.spent += amount
	return true
}

func (l *Ledger) LoseLife() {
	l.mu.Lock()
	if l.lives > 0 {
		l.lives--
	}
	l.leaked++
	l.mu.Unlock()
}

func (l *Ledger) Lives() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lives
}

// GameOver records the outcome. Only the first call counts.
func (l *Ledger) GameOver(won bool) {
	l.mu.Lock()
	if l.over {
		l.mu.Unlock()
		return
	}
	l.over = true
	l.won = won
	fn := l.onFinish
	earned, spent := l.earned, l.spent
	l.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"component": "score",
		"won":       won,
		"earned":    earned,
		"spent":     spent,
	}).Info("Game over")
	if fn != nil {
		fn(won)
	}
}

// Over reports whether the game ended and how.
func (l *Ledger) Over() (over, won bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.over, l.won
}

// Set overwrites gold and lives, used when restoring a save.
func (l *Ledger) Set(gold, lives int) {
	l.mu.Lock()
	l.gold, l.lives = gold, lives
	l.mu.Unlock()
}

// Totals returns lifetime counters for the HUD.
func (l *Ledger) Totals() (earned, spent, leaked int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.earned, l.spent, l.leaked
}
