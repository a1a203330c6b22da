package component

// Health — компонент здоровья.
// Pool резервируется при выборе цели, Value уменьшается при попадании.
type Health struct {
	Value int
	Max   int
	Pool  int
}

// Reserve takes dmg from the pool ahead of impact.
func (h *Health) Reserve(dmg int) {
	h.Pool -= dmg
}

// Combat — таймер цикла выстрела башни
type Combat struct {
	Cooldown float64 // оставшееся время до конца цикла
	Angle    float64 // угол последнего выстрела, градусы
	Shots    int
}
