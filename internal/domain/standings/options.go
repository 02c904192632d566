package standings

// Option applies a configuration option to an aggregation pass.
type Option func(*policy)

type policy struct {
	classifiedOnly bool
}

// WithClassifiedOnly restricts win and podium counting to Finished results.
// By default wins and podiums count by position alone, so a DNF recorded in
// first place still counts as a win.
func WithClassifiedOnly(enabled bool) Option {
	return func(p *policy) {
		p.classifiedOnly = enabled
	}
}

func newPolicy(opts []Option) policy {
	var p policy
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
