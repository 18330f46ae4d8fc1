package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrNegativeCount is returned when a count is below zero.
var ErrNegativeCount = errors.New("count must be non-negative")

// ErrNotInteger is returned when a count is not a whole number.
var ErrNotInteger = errors.New("count must be an integer")

// ErrCountRange is returned when a count does not fit in an int.
var ErrCountRange = errors.New("count out of range")

// Entry is a single key/count pair.
type Entry struct {
	Key   string
	Count int
}

// Counts is a string-keyed count table that remembers the order in which
// keys appeared in the source document.
type Counts struct {
	keys   []string
	values map[string]int
}

// NewCounts builds a Counts from entries, keeping their order. A repeated key
// keeps its first position and takes the last value.
func NewCounts(entries ...Entry) Counts {
	c := Counts{values: make(map[string]int, len(entries))}

	for _, e := range entries {
		c.set(e.Key, e.Count)
	}

	return c
}

func (c *Counts) set(key string, count int) {
	if c.values == nil {
		c.values = make(map[string]int)
	}

	if _, seen := c.values[key]; !seen {
		c.keys = append(c.keys, key)
	}

	c.values[key] = count
}

// Len returns the number of keys.
func (c Counts) Len() int {
	return len(c.keys)
}

// Keys returns the keys in document order.
func (c Counts) Keys() []string {
	return slices.Clone(c.keys)
}

// Get returns the count stored for key.
func (c Counts) Get(key string) (int, bool) {
	v, ok := c.values[key]

	return v, ok
}

// Values returns the counts in document order.
func (c Counts) Values() []int {
	out := make([]int, len(c.keys))

	for i, k := range c.keys {
		out[i] = c.values[k]
	}

	return out
}

// Floats returns the counts in document order as float64.
func (c Counts) Floats() []float64 {
	out := make([]float64, len(c.keys))

	for i, k := range c.keys {
		out[i] = float64(c.values[k])
	}

	return out
}

// Entries returns the key/count pairs in document order.
func (c Counts) Entries() []Entry {
	out := make([]Entry, len(c.keys))

	for i, k := range c.keys {
		out[i] = Entry{Key: k, Count: c.values[k]}
	}

	return out
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0

	for _, v := range c.values {
		total += v
	}

	return total
}

// UnmarshalJSON decodes a JSON object of non-negative integers, preserving key order.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read counts: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected object, got %v", ErrMalformed, tok)
	}

	*c = Counts{values: make(map[string]int)}

	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return fmt.Errorf("read key: %w", keyErr)
		}

		key, _ := keyTok.(string)

		var num json.Number

		valErr := dec.Decode(&num)
		if valErr != nil {
			return fmt.Errorf("%w: %q: %w", ErrMalformed, key, valErr)
		}

		count, convErr := toCount(num)
		if convErr != nil {
			return fmt.Errorf("%q: %w", key, convErr)
		}

		c.set(key, count)
	}

	_, err = dec.Token()
	if err != nil {
		return fmt.Errorf("read counts end: %w", err)
	}

	return nil
}

func toCount(num json.Number) (int, error) {
	f, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotInteger, num)
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s", ErrNotInteger, num)
	}

	if f < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNegativeCount, num)
	}

	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
	if f >= float64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %s", ErrCountRange, num)
	}

	return int(f), nil
}
