package stats

import (
	"errors"
	"sort"
)

// ErrNoData is returned when a statistic is undefined because there are no
// values to aggregate.
var ErrNoData = errors.New("no data")

// Count is one entry of a frequency table.
type Count[T comparable] struct {
	Value T   `json:"value"`
	Count int `json:"count"`
}

// counter tallies values and remembers first-seen order.
type counter[T comparable] struct {
	idx   map[T]int
	items []Count[T]
}

func newCounter[T comparable]() *counter[T] {
	return &counter[T]{idx: make(map[T]int)}
}

func (c *counter[T]) add(v T) {
	if i, ok := c.idx[v]; ok {
		c.items[i].Count++
		return
	}
	c.idx[v] = len(c.items)
	c.items = append(c.items, Count[T]{Value: v, Count: 1})
}

// sorted returns counts, most frequent first; equal counts keep first-seen
// order.
func (c *counter[T]) sorted() []Count[T] {
	out := make([]Count[T], len(c.items))
	copy(out, c.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// mode returns the most frequent value; ties go to the value seen first.
func (c *counter[T]) mode() (Count[T], error) {
	if len(c.items) == 0 {
		return Count[T]{}, ErrNoData
	}
	best := c.items[0]
	for _, it := range c.items[1:] {
		if it.Count > best.Count {
			best = it
		}
	}
	return best, nil
}
