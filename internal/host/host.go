// Package host defines the contract to the application that owns the
// parameters. The session layer is a client of this interface and nothing
// else: evaluation, unit handling and dependency tracking all live behind it.
package host

import (
	"context"

	"github.com/paramedit/paramedit/pkg/types"
)

// Host is the narrow surface of the parameter-owning application consumed by
// the editor. Implementations: memhost (bundled in-process host) and remote
// (HTTP bridge to an external application).
//
// Every mutating call recomputes dependent parameters before returning, so a
// successful return means the returned record carries the freshly resolved
// value. Calls are synchronous; the caller blocks for the recompute.
type Host interface {
	// List returns the current parameters in the host's display order.
	List(ctx context.Context) (*types.ParameterSet, error)

	// SetExpression replaces a parameter's formula and recomputes. Rejections
	// (unparsable formula, unknown reference, cycle) unwrap to
	// ErrInvalidExpression or ErrCycle.
	SetExpression(ctx context.Context, name, expr string) (*types.Parameter, error)

	// SetUnit changes a parameter's unit and recomputes.
	SetUnit(ctx context.Context, name, unit string) (*types.Parameter, error)

	// SetComment changes a parameter's comment. No recompute happens.
	SetComment(ctx context.Context, name, comment string) (*types.Parameter, error)

	// Create adds a parameter. Fails with ErrDuplicate on a name collision.
	Create(ctx context.Context, name, expr, unit, comment string) (*types.Parameter, error)

	// Delete removes a parameter. The host may or may not refuse to delete a
	// referenced parameter; callers must not rely on it doing so.
	Delete(ctx context.Context, name string) error

	// Dependents returns the names of parameters whose expressions reference
	// name, as currently known to the host.
	Dependents(ctx context.Context, name string) ([]string, error)
}
