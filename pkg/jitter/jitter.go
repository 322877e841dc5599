// Package jitter добавляет случайный разброс к интервалам повторных попыток,
// чтобы переподключения нескольких воркеров не совпадали по времени.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
	rngMu sync.Mutex
)

// Duration возвращает d с джиттером в диапазоне [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}

	rngMu.Lock()
	j := rng.Float64() * factor * float64(d)
	rngMu.Unlock()

	return d + time.Duration(j)
}

// ExponentialBackoff возвращает base*2^attempt, ограниченное limit, с джиттером.
// attempt считается с нуля.
func ExponentialBackoff(base, limit time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt && backoff < limit; i++ {
		backoff *= 2
	}

	return Duration(min(backoff, limit), factor)
}
