package session

import (
	"context"

	"github.com/meltforce/trailmark/internal/workout"
)

// Locator resolves the user's current position once per session start.
type Locator interface {
	CurrentPosition(ctx context.Context) (workout.Coordinates, error)
}

// Map draws the session map.
type Map interface {
	CenterOn(c workout.Coordinates, zoom int)
	PlaceMarker(c workout.Coordinates, label, styleClass string)
	PanTo(c workout.Coordinates, zoom int, animate bool)
}

// Form is the workout entry form.
type Form interface {
	Show()
	HideAndClear()
	// ShowVariantFields toggles between the cadence and elevation inputs.
	ShowVariantFields(kind workout.Kind)
}

// List renders the workout list beside the map.
type List interface {
	RenderItem(r workout.Record)
}

// Notifier shows a message to the user.
type Notifier interface {
	Alert(message string)
}

// Persister saves and restores the workout collection.
type Persister interface {
	Save(ctx context.Context, records []workout.Record) error
	Load(ctx context.Context) ([]workout.Record, error)
	Clear(ctx context.Context) error
}

// Collaborators bundles the capabilities a Controller drives.
type Collaborators struct {
	Locator  Locator
	Map      Map
	Form     Form
	List     List
	Notifier Notifier
}
