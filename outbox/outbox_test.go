package outbox

import (
	"testing"
	"time"
)

func TestBackoffDelayDoubles(t *testing.T) {
	want := []time.Duration{
		time.Minute,
		2 * time.Minute,
		4 * time.Minute,
		8 * time.Minute,
		16 * time.Minute,
	}
	for i, w := range want {
		if got := backoffDelay(i + 1); got != w {
			t.Errorf("attempt %d: expected %s, got %s", i+1, w, got)
		}
	}
}
