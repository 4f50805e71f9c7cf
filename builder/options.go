package builder

import "github.com/npillmayer/querycurve"

// Option customizes a Builder by mutating its configuration before the
// curve is loaded.
type Option func(*config)

// config holds the observers of a builder. Observers are called
// synchronously, after the mutation they report has been applied.
// Clones of a builder share its config.
type config struct {
	onPointAdd    func(curve querycurve.Curve, index int)
	onPointRemove func(curve querycurve.Curve, index int)
	onPointChange func(curve querycurve.Curve, index int, isNew bool)
}

func newConfig(opts ...Option) config {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// OnPointAdd registers an observer for points inserted by AddPoint.
// The observer receives a snapshot of the curve and the index of the new point.
func OnPointAdd(fn func(curve querycurve.Curve, index int)) Option {
	return func(c *config) {
		c.onPointAdd = fn
	}
}

// OnPointRemove registers an observer for removed points.
// The observer receives a snapshot of the curve after removal and the index
// the point had.
func OnPointRemove(fn func(curve querycurve.Curve, index int)) Option {
	return func(c *config) {
		c.onPointRemove = fn
	}
}

// OnPointChange registers an observer for changed points. isNew is set for
// the notification following an insertion.
func OnPointChange(fn func(curve querycurve.Curve, index int, isNew bool)) Option {
	return func(c *config) {
		c.onPointChange = fn
	}
}

func (b *Builder) pointAdded(i int) {
	if b.conf.onPointAdd != nil {
		b.conf.onPointAdd(b.curve.Clone(), i)
	}
}

func (b *Builder) pointRemoved(i int) {
	if b.conf.onPointRemove != nil {
		b.conf.onPointRemove(b.curve.Clone(), i)
	}
}

func (b *Builder) pointChanged(i int, isNew bool) {
	if b.conf.onPointChange != nil {
		b.conf.onPointChange(b.curve.Clone(), i, isNew)
	}
}
