package db

// Pool defaults applied when the environment leaves the knobs unset.
// The write load here is a single stylist's device, so the pool stays
// small.
const (
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25
)
