// Package carousel tracks the visible image of a gallery and advances it on a timer.
package carousel

import (
	"context"
	"sync"
	"time"
)

// Direction is the way a carousel moves.
type Direction string

const (
	Next Direction = "next"
	Prev Direction = "prev"
)

// Step returns the index reached from index when moving one image in dir within a
// gallery of size images. Moving past either end wraps around. Unknown directions
// and empty galleries leave the index normalised but unmoved.
func Step(size, index int, dir Direction) int {
	if size <= 0 {
		return 0
	}

	switch dir {
	case Next:
		index++
	case Prev:
		index--
	}

	return wrap(size, index)
}

func wrap(size, index int) int {
	index %= size
	if index < 0 {
		index += size
	}

	return index
}

// Carousel is a gallery position safe for use from several goroutines.
type Carousel struct {
	mu    sync.Mutex
	size  int
	index int
}

// New creates a carousel over size images positioned on the first one.
func New(size int) *Carousel {
	return &Carousel{size: size}
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.index
}

// Next advances one image, wrapping to the first after the last.
func (c *Carousel) Next() int {
	return c.move(Next)
}

// Prev goes back one image, wrapping to the last before the first.
func (c *Carousel) Prev() int {
	return c.move(Prev)
}

// Set jumps to index, taken modulo the gallery size.
func (c *Carousel) Set(index int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.size > 0 {
		c.index = wrap(c.size, index)
	}

	return c.index
}

func (c *Carousel) move(dir Direction) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = Step(c.size, c.index, dir)

	return c.index
}

// Autoplay advances the carousel every interval and reports the new index to onAdvance.
// It blocks until ctx is cancelled, which is how the owner tears the timer down.
func (c *Carousel) Autoplay(ctx context.Context, interval time.Duration, onAdvance func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			index := c.Next()
			if onAdvance != nil {
				onAdvance(index)
			}
		}
	}
}
