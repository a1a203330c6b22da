// internal/utils/math.go
package utils

import putils "go-tower-defense-sim/pkg/utils"

// LerpDegrees поворачивает from к to по кратчайшей дуге на долю t, результат в [0, 360).
func LerpDegrees(from, to, t float64) float64 {
	from = putils.NormalizeDegrees(from)
	diff := putils.NormalizeDegrees(to) - from
	if diff > 180 {
		diff -= 360
	} else if diff < -180 {
		diff += 360
	}
	return putils.NormalizeDegrees(from + diff*t)
}
