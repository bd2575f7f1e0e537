package topology

import (
	"errors"
	"fmt"

	"github.com/opmodel/geodeploy/internal/engine"
	oerrors "github.com/opmodel/geodeploy/internal/errors"
)

// ErrMissingOutput indicates the engine did not report an output the graph
// depends on.
var ErrMissingOutput = errors.New("missing output")

// ProvisioningError reports a failed remote create or query.
type ProvisioningError struct {
	// Op is "create" or "query".
	Op string

	// Kind is the resource kind, empty for queries.
	Kind engine.Kind

	// Name is the resource or query name.
	Name string

	// Region is the region of a regional resource, empty for shared ones.
	Region string

	Cause error
}

func (e *ProvisioningError) Error() string {
	target := e.Name
	if e.Kind != "" {
		target = fmt.Sprintf("%s %q", e.Kind, e.Name)
	}
	if e.Region != "" {
		return fmt.Sprintf("%s %s in %s: %v", e.Op, target, e.Region, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, target, e.Cause)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Cause
}

// Is matches oerrors.ErrProvisioning.
func (e *ProvisioningError) Is(target error) bool {
	return target == oerrors.ErrProvisioning
}

// AggregationError reports that a regional endpoint failed, failing the join.
type AggregationError struct {
	// Index is the position of the failed region in the declared region order.
	Index int

	// Region is the failed region, when known.
	Region string

	Cause error
}

func (e *AggregationError) Error() string {
	if e.Region != "" {
		return fmt.Sprintf("endpoint of region %s: %v", e.Region, e.Cause)
	}
	return fmt.Sprintf("endpoint %d: %v", e.Index, e.Cause)
}

func (e *AggregationError) Unwrap() error {
	return e.Cause
}

// Is matches oerrors.ErrAggregation.
func (e *AggregationError) Is(target error) bool {
	return target == oerrors.ErrAggregation
}

// RouterSynthesisError reports that the router could not be specified
// because the endpoint aggregate failed.
type RouterSynthesisError struct {
	// Name is the router resource name.
	Name string

	Cause error
}

func (e *RouterSynthesisError) Error() string {
	return fmt.Sprintf("router %q: %v", e.Name, e.Cause)
}

func (e *RouterSynthesisError) Unwrap() error {
	return e.Cause
}

// Is matches oerrors.ErrRouterSynthesis.
func (e *RouterSynthesisError) Is(target error) bool {
	return target == oerrors.ErrRouterSynthesis
}

// isGraphError reports whether err was already classified by this package.
// Such errors reach a resource through its inputs and pass through unchanged.
func isGraphError(err error) bool {
	var pe *ProvisioningError
	var ae *AggregationError
	var re *RouterSynthesisError
	return errors.As(err, &pe) || errors.As(err, &ae) || errors.As(err, &re)
}
