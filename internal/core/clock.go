package core

import "time"

// Clock supplies the current time to services.
type Clock func() time.Time

// Option configures a service constructor.
type Option func(*serviceOptions)

type serviceOptions struct {
	clock Clock
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(c Clock) Option {
	return func(o *serviceOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

func applyOptions(opts []Option) serviceOptions {
	o := serviceOptions{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
