// internal/utils/prng.go
package utils

import (
	"math/rand"
	"time"

	"go-tower-defense-sim/internal/defs"
)

// PRNGService — обертка над стандартным генератором случайных чисел Go,
// чтобы весь рандом симуляции (шанс оглушения, потомство) был воспроизводим по сиду.
type PRNGService struct {
	rng  *rand.Rand
	seed int64
}

// NewPRNGService создает новый экземпляр сервиса с указанным сидом.
// Если сид равен 0, используется текущее время.
func NewPRNGService(seed int64) *PRNGService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PRNGService{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the generator was created with.
func (s *PRNGService) Seed() int64 { return s.seed }

// Intn возвращает случайное целое число в диапазоне [0, n).
func (s *PRNGService) Intn(n int) int {
	return s.rng.Intn(n)
}

// Float64 возвращает случайное число с плавающей точкой в диапазоне [0.0, 1.0).
func (s *PRNGService) Float64() float64 {
	return s.rng.Float64()
}

// Chance reports true with probability p. p <= 0 means "always".
func (s *PRNGService) Chance(p float64) bool {
	if p <= 0 || p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// ChooseWeighted выполняет взвешенный случайный выбор из таблицы потомства.
func (s *PRNGService) ChooseWeighted(entries []defs.OffspringEntry) string {
	if len(entries) == 0 {
		return ""
	}

	totalWeight := 0
	for _, entry := range entries {
		totalWeight += entry.Weight
	}
	if totalWeight <= 0 {
		return entries[0].MobID
	}

	r := s.Intn(totalWeight)
	upto := 0
	for _, entry := range entries {
		if upto+entry.Weight > r {
			return entry.MobID
		}
		upto += entry.Weight
	}
	return entries[len(entries)-1].MobID
}
