package topology

import (
	"context"

	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/future"
)

// create asks eng for kind/name and classifies engine failures as
// ProvisioningError. Failures inherited from props pass through as is.
func create(ctx context.Context, eng engine.Engine, kind engine.Kind, name, region string, props *future.Future[engine.Properties], opts engine.Options) *future.Future[*engine.Resource] {
	return future.Catch(eng.Create(ctx, kind, name, props, opts), func(err error) error {
		if isGraphError(err) {
			return err
		}
		return &ProvisioningError{Op: "create", Kind: kind, Name: name, Region: region, Cause: err}
	})
}

// query asks eng to run a named query, classifying failures like create.
func query(ctx context.Context, eng engine.Engine, name string, params *future.Future[engine.Properties]) *future.Future[engine.Properties] {
	return future.Catch(eng.Query(ctx, name, params), func(err error) error {
		if isGraphError(err) {
			return err
		}
		return &ProvisioningError{Op: "query", Name: name, Cause: err}
	})
}
