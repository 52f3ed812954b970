package exchange

// MaxCount is the largest page size the exchange serves.
const MaxCount = 100

type Option func(*Options)

// Options are per-call paging parameters. Zero means "let the exchange decide".
type Options struct {
	Page  int
	Count int
}

// WithPage selects the page to fetch, starting at 1.
func WithPage(page int) Option {
	return func(o *Options) {
		o.Page = page
	}
}

// WithCount sets the page size, between 1 and MaxCount.
func WithCount(count int) Option {
	return func(o *Options) {
		o.Count = count
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
