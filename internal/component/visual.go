// internal/component/visual.go
package component

import "image/color"

// DamageFlash — короткая подсветка моба или места попадания. Симуляция её не
// создаёт, только презентер.
type DamageFlash struct {
	Timer    float64
	Duration float64
}

// Fraction is how much of the flash has elapsed, in [0, 1].
func (f DamageFlash) Fraction() float64 {
	if f.Duration <= 0 || f.Timer >= f.Duration {
		return 1
	}
	return f.Timer / f.Duration
}

// Laser — луч мгновенного выстрела от центра башни к цели, в пикселях поля.
type Laser struct {
	FromX, FromY float64
	ToX, ToY     float64
	Color        color.RGBA
	DamageFlash
}
