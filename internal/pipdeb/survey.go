package pipdeb

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Status holds every probe result for a single registry package.
type Status struct {
	Package      Package
	Runnable     bool
	DebInstalled bool
	PipInstalled bool
}

// Survey probes every registry package and returns one Status per
// package, in registry order. Packages are probed concurrently; each
// probe is independent and mutates nothing.
func (a *Auditor) Survey(ctx context.Context) ([]Status, error) {
	statuses := make([]Status, len(a.Registry))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range a.Registry {
		i, p := i, p
		g.Go(func() error {
			pip, err := a.isPackagePipInstalled(gctx, p.Name)
			if err != nil {
				return err
			}
			statuses[i] = Status{
				Package:      p,
				Runnable:     a.runnable(p.Name),
				DebInstalled: a.isDebPackageInstalled(gctx, p.Deb),
				PipInstalled: pip,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}
