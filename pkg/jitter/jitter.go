// Package jitter добавляет случайную долю к задержкам повторов, чтобы клиенты
// не приходили к Redis, MinIO, Kafka и платежному шлюзу одновременно.
package jitter

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultJitter задержка увеличивается не более чем на половину.
const DefaultJitter = 0.5

// Duration возвращает d плюс случайную добавку из [0, d*factor).
func Duration(d time.Duration, factor float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}
	return d + time.Duration(rand.Float64()*factor*float64(d))
}

// Backoff экспоненциальная задержка Base*2^attempt, ограниченная Max, с jitter.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

func NewBackoff(base, max time.Duration) Backoff {
	return Backoff{Base: base, Max: max, Factor: DefaultJitter}
}

// Delay задержка перед попыткой attempt (с нуля) без случайной добавки.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt && (b.Max <= 0 || d < b.Max); i++ {
		d *= 2
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}

func (b Backoff) Next(attempt int) time.Duration {
	return Duration(b.Delay(attempt), b.Factor)
}

// Wait ждет Next(attempt); возвращает ошибку ctx, если он отменен раньше.
func (b Backoff) Wait(ctx context.Context, attempt int) error {
	t := time.NewTimer(b.Next(attempt))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
