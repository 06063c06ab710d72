package carousel_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/jharkhand/internal/carousel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		index int
		dir   carousel.Direction
		want  int
	}{
		{"next in the middle", 3, 1, carousel.Next, 2},
		{"next past last wraps to first", 3, 2, carousel.Next, 0},
		{"prev before first wraps to last", 3, 0, carousel.Prev, 2},
		{"prev in the middle", 3, 2, carousel.Prev, 1},
		{"single image stays", 1, 0, carousel.Next, 0},
		{"empty gallery", 0, 5, carousel.Next, 0},
		{"out of range index is normalised", 4, 9, "", 1},
		{"negative index is normalised", 4, -1, "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, carousel.Step(tt.size, tt.index, tt.dir))
		})
	}
}

func TestCarousel_FullCycle(t *testing.T) {
	car := carousel.New(3)

	assert.Equal(t, 1, car.Next())
	assert.Equal(t, 2, car.Next())
	assert.Equal(t, 0, car.Next())
	assert.Equal(t, 2, car.Prev())
	assert.Equal(t, 2, car.Index())
	assert.Equal(t, 1, car.Set(7))
	assert.Equal(t, 2, car.Set(-1))
}

func TestCarousel_Autoplay(t *testing.T) {
	car := carousel.New(2)
	ctx, cancel := context.WithCancel(t.Context())

	var advances atomic.Int32
	done := make(chan struct{})
	go func() {
		car.Autoplay(ctx, 5*time.Millisecond, func(int) {
			if advances.Add(1) == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("autoplay did not stop after cancellation")
	}

	require.GreaterOrEqual(t, advances.Load(), int32(3))
	count := advances.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, count, advances.Load(), "no advances after teardown")
}
