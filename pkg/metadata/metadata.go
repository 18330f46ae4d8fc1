// Package metadata loads the contribution statistics document that drives chart rendering.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMalformed is returned when the metadata document cannot be parsed or
// does not have the expected structure.
var ErrMalformed = errors.New("malformed metadata")

// ErrMissingBucket is returned when a scale bucket is absent from by_scale.
var ErrMissingBucket = errors.New("missing scale bucket")

// Scale bucket keys that every document must carry.
const (
	ScaleMega   = "mega"
	ScaleLarge  = "large"
	ScaleMedium = "medium"
	ScaleSmall  = "small"
)

// ScaleBuckets lists the required scale buckets from most to least popular.
var ScaleBuckets = []string{ScaleMega, ScaleLarge, ScaleMedium, ScaleSmall}

// Record is the root of the metadata document.
type Record struct {
	Statistics Statistics `json:"statistics"`
}

// Statistics holds the aggregate contribution counts.
type Statistics struct {
	ByYear     Counts `json:"by_year"`
	ByDomain   Counts `json:"by_domain"`
	ByLanguage Counts `json:"by_language"`
	ByScale    Counts `json:"by_scale"`
}

// ScaleCount returns the count for a scale bucket.
func (s Statistics) ScaleCount(bucket string) (int, error) {
	v, ok := s.ByScale.Get(bucket)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingBucket, bucket)
	}

	return v, nil
}

// Load reads and parses the metadata file at path. A missing file yields an
// error wrapping fs.ErrNotExist; structural problems wrap ErrMalformed.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	return Parse(data)
}

// Parse decodes a metadata document and checks it against the embedded schema.
func Parse(data []byte) (*Record, error) {
	violations, err := Validate(data)
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		msgs := make([]string, len(violations))
		for i, v := range violations {
			msgs[i] = v.String()
		}

		return nil, fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
	}

	var rec Record

	decodeErr := json.Unmarshal(data, &rec)
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, decodeErr)
	}

	for _, bucket := range ScaleBuckets {
		_, bucketErr := rec.Statistics.ScaleCount(bucket)
		if bucketErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, bucketErr)
		}
	}

	return &rec, nil
}
