package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(100), c.Load())
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), time.Millisecond)
}

func TestCheckout_Snapshot(t *testing.T) {
	var c Checkout
	c.Placed.Inc()
	c.Placed.Inc()
	c.Rejected.Inc()

	assert.Equal(t, CheckoutSnapshot{Placed: 2, Rejected: 1}, c.Snapshot())
}
