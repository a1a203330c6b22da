package component

// GameState — компонент для хранения состояния игры
type GameState int

const (
	BuildState GameState = iota // отсчёт до первой волны
	WaveState
	WonState
	LostState
)

func (s GameState) String() string {
	switch s {
	case BuildState:
		return "build"
	case WaveState:
		return "wave"
	case WonState:
		return "won"
	case LostState:
		return "lost"
	}
	return "unknown"
}

// Wave tracks one started wave until it is cleared.
type Wave struct {
	Number        int
	MobID         string
	ToSpawn       int // стай осталось выпустить
	SpawnTimer    float64
	SpawnInterval float64
	Alive         int // выпущенные и ещё живые, включая потомство
	NextStart     int // round-robin по стартам
}

// Cleared reports whether every mob of the wave has been spawned and removed.
func (w *Wave) Cleared() bool {
	return w.ToSpawn == 0 && w.Alive == 0
}
