// Package store persists computed plans so the HTTP server can serve
// previously submitted requests by ID.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/geometry"
	"github.com/boxlogic/stowplan/pkg/scene"
)

// Plan is a stored planning run: the request that produced it, the
// visualization-ready scene, and bookkeeping fields.
type Plan struct {
	ID          string                 `json:"id" bson:"_id"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
	Container   geometry.ContainerSpec `json:"container" bson:"container"`
	Items       []geometry.ItemSpec    `json:"items" bson:"items"`
	Scene       scene.Scene            `json:"scene" bson:"scene"`
	Utilization string                 `json:"utilization,omitempty" bson:"utilization,omitempty"`
}

// NewPlan builds a Plan with a fresh ID and timestamp.
func NewPlan(container geometry.ContainerSpec, items []geometry.ItemSpec, sc scene.Scene, utilization string) Plan {
	return Plan{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Container:   container,
		Items:       items,
		Scene:       sc,
		Utilization: utilization,
	}
}

// Summary is the listing form of a Plan, without the scene payload.
type Summary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Solids      int       `json:"solids"`
	Utilization string    `json:"utilization,omitempty"`
}

// Summarize strips a Plan down to its listing form.
func Summarize(p Plan) Summary {
	return Summary{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt,
		Solids:      len(p.Scene.Solids),
		Utilization: p.Utilization,
	}
}

// Store keeps Plans. Implementations must be safe for concurrent use.
type Store interface {
	// Put saves a plan, overwriting any existing plan with the same ID.
	Put(ctx context.Context, p Plan) error
	// Get returns the plan with the given ID, or a PLAN_NOT_FOUND error.
	Get(ctx context.Context, id string) (Plan, error)
	// List returns summaries of all stored plans, newest first.
	List(ctx context.Context) ([]Summary, error)
	// Close releases backing resources.
	Close(ctx context.Context) error
}

// notFound is the shared miss error across backends.
func notFound(id string) error {
	return errors.New(errors.ErrCodePlanNotFound, "plan %q not found", id)
}
