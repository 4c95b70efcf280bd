package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Checkout counts outcomes of order placement in this process.
type Checkout struct {
	Placed           Counter
	Rejected         Counter
	StockAdjustFails Counter
}

type CheckoutSnapshot struct {
	Placed           uint64 `json:"placed"`
	Rejected         uint64 `json:"rejected"`
	StockAdjustFails uint64 `json:"stockAdjustFailures"`
}

func (c *Checkout) Snapshot() CheckoutSnapshot {
	return CheckoutSnapshot{
		Placed:           c.Placed.Load(),
		Rejected:         c.Rejected.Load(),
		StockAdjustFails: c.StockAdjustFails.Load(),
	}
}
