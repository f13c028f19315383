package errshape

// DefaultTitle is the toast title used when nothing better is found.
const DefaultTitle = "Operation Failed"

// Option configures a Parse call.
type Option func(*parseOptions)

type parseOptions struct {
	defaultTitle string
	resource     string
}

// WithDefaultTitle sets the fallback toast title. Empty keeps DefaultTitle.
func WithDefaultTitle(title string) Option {
	return func(o *parseOptions) {
		if title != "" {
			o.defaultTitle = title
		}
	}
}

// WithResourceName sets the resource that qualifies canonical field paths.
// Empty keeps DefaultResourceName.
func WithResourceName(resource string) Option {
	return func(o *parseOptions) {
		if resource != "" {
			o.resource = resource
		}
	}
}

func newParseOptions(opts []Option) parseOptions {
	o := parseOptions{defaultTitle: DefaultTitle, resource: DefaultResourceName}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
