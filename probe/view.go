package probe

import (
	"context"
	"fmt"

	"github.com/jkeller-io/appweave/view"
)

// Resolver captures the subset of *view.View used for readiness checks.
type Resolver interface {
	Name() string
	Resolve() error
}

// NewViewProbe creates a Func that resolves each view, so a deploy missing
// template files or engine registrations fails readiness instead of erroring
// on the first render.
func NewViewProbe(views ...Resolver) Func {
	return func(ctx context.Context) error {
		for _, v := range views {
			if v == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := v.Resolve(); err != nil {
				return fmt.Errorf("view probe %q failed: %w", v.Name(), err)
			}
		}
		return nil
	}
}

var _ Resolver = (*view.View)(nil)
