package topology

import (
	"errors"

	"github.com/opmodel/geodeploy/internal/core"
	"github.com/opmodel/geodeploy/internal/future"
)

// Aggregate joins the endpoints of regions into one Future holding every
// endpoint in region order. The first endpoint to fail fails the aggregate
// with an AggregationError; no partial aggregate is ever exposed.
func Aggregate(regions []*Region) *future.Future[[]core.RegionalEndpoint] {
	endpoints := make([]*future.Future[core.RegionalEndpoint], len(regions))
	for i, r := range regions {
		endpoints[i] = r.Endpoint
	}

	return future.Catch(future.All(endpoints), func(err error) error {
		aggErr := &AggregationError{Index: -1, Cause: err}
		var joinErr *future.JoinError
		if errors.As(err, &joinErr) {
			aggErr.Index = joinErr.Index
			aggErr.Cause = joinErr.Err
			if joinErr.Index >= 0 && joinErr.Index < len(regions) {
				aggErr.Region = regions[joinErr.Index].Name
			}
		}
		return aggErr
	})
}
