// Package ui turns controller render requests into commands a browser client
// replays against its map, form and list.
package ui

import (
	"sync"

	"github.com/meltforce/trailmark/internal/session"
	"github.com/meltforce/trailmark/internal/workout"
)

// Command operations.
const (
	OpCenterOn          = "center_on"
	OpPlaceMarker       = "place_marker"
	OpPanTo             = "pan_to"
	OpShowForm          = "show_form"
	OpHideForm          = "hide_form"
	OpShowVariantFields = "show_variant_fields"
	OpRenderListItem    = "render_list_item"
	OpAlert             = "alert"
)

// Command is one render instruction for the client.
type Command struct {
	Op          string               `json:"op"`
	Coordinates *workout.Coordinates `json:"coordinates,omitempty"`
	Zoom        int                  `json:"zoom,omitempty"`
	Animate     bool                 `json:"animate,omitempty"`
	Label       string               `json:"label,omitempty"`
	StyleClass  string               `json:"styleClass,omitempty"`
	Kind        workout.Kind         `json:"kind,omitempty"`
	Item        *ListItemView        `json:"item,omitempty"`
	Message     string               `json:"message,omitempty"`
}

// Recorder buffers commands until they are drained into a response.
type Recorder struct {
	mu   sync.Mutex
	cmds []Command
}

var (
	_ session.Map      = (*Recorder)(nil)
	_ session.Form     = (*Recorder)(nil)
	_ session.List     = (*Recorder)(nil)
	_ session.Notifier = (*Recorder)(nil)
)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(c Command) {
	r.mu.Lock()
	r.cmds = append(r.cmds, c)
	r.mu.Unlock()
}

// Drain returns the buffered commands and empties the buffer.
func (r *Recorder) Drain() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.cmds
	r.cmds = nil
	if out == nil {
		out = []Command{}
	}
	return out
}

// Collaborators wires the recorder and a locator into a controller's dependencies.
func (r *Recorder) Collaborators(loc session.Locator) session.Collaborators {
	return session.Collaborators{Locator: loc, Map: r, Form: r, List: r, Notifier: r}
}

func (r *Recorder) CenterOn(c workout.Coordinates, zoom int) {
	r.push(Command{Op: OpCenterOn, Coordinates: &c, Zoom: zoom})
}

func (r *Recorder) PlaceMarker(c workout.Coordinates, label, styleClass string) {
	r.push(Command{Op: OpPlaceMarker, Coordinates: &c, Label: label, StyleClass: styleClass})
}

func (r *Recorder) PanTo(c workout.Coordinates, zoom int, animate bool) {
	r.push(Command{Op: OpPanTo, Coordinates: &c, Zoom: zoom, Animate: animate})
}

func (r *Recorder) Show() {
	r.push(Command{Op: OpShowForm})
}

func (r *Recorder) HideAndClear() {
	r.push(Command{Op: OpHideForm})
}

func (r *Recorder) ShowVariantFields(kind workout.Kind) {
	r.push(Command{Op: OpShowVariantFields, Kind: kind})
}

func (r *Recorder) RenderItem(rec workout.Record) {
	item := NewListItemView(rec)
	r.push(Command{Op: OpRenderListItem, Item: &item})
}

func (r *Recorder) Alert(message string) {
	r.push(Command{Op: OpAlert, Message: message})
}
