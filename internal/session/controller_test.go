package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/trailmark/internal/kvstore"
	"github.com/meltforce/trailmark/internal/observability"
	"github.com/meltforce/trailmark/internal/persistence"
	"github.com/meltforce/trailmark/internal/workout"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUI records every collaborator call as a short string.
type fakeUI struct {
	pos    workout.Coordinates
	posErr error
	calls  []string
	alerts []string
}

func (f *fakeUI) CurrentPosition(context.Context) (workout.Coordinates, error) {
	f.calls = append(f.calls, "locate")
	return f.pos, f.posErr
}

func (f *fakeUI) CenterOn(c workout.Coordinates, zoom int) {
	f.calls = append(f.calls, fmt.Sprintf("center %s z%d", c, zoom))
}

func (f *fakeUI) PlaceMarker(c workout.Coordinates, label, styleClass string) {
	f.calls = append(f.calls, fmt.Sprintf("marker %s %s %s", c, styleClass, label))
}

func (f *fakeUI) PanTo(c workout.Coordinates, zoom int, animate bool) {
	f.calls = append(f.calls, fmt.Sprintf("pan %s z%d %t", c, zoom, animate))
}

func (f *fakeUI) Show()         { f.calls = append(f.calls, "form show") }
func (f *fakeUI) HideAndClear() { f.calls = append(f.calls, "form hide") }

func (f *fakeUI) ShowVariantFields(kind workout.Kind) {
	f.calls = append(f.calls, "form fields "+string(kind))
}

func (f *fakeUI) RenderItem(r workout.Record) {
	f.calls = append(f.calls, "list "+r.ID())
}

func (f *fakeUI) Alert(message string) {
	f.alerts = append(f.alerts, message)
	f.calls = append(f.calls, "alert")
}

func (f *fakeUI) collaborators() Collaborators {
	return Collaborators{Locator: f, Map: f, Form: f, List: f, Notifier: f}
}

func (f *fakeUI) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func testFactory() *workout.Factory {
	return prefixedFactory("w")
}

func prefixedFactory(prefix string) *workout.Factory {
	n := 0
	return workout.NewFactory(
		workout.WithClock(func() time.Time { return time.Date(2026, time.April, 3, 7, 0, 0, 0, time.UTC) }),
		workout.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("%s%d", prefix, n)
		}),
	)
}

// flakyKV fails the first failGets reads, then behaves like its Memory.
type flakyKV struct {
	*kvstore.Memory
	failGets int
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGets > 0 {
		f.failGets--
		return "", false, errors.New("read timeout")
	}
	return f.Memory.Get(ctx, key)
}

// ctxKV fails every call made with a done context, like a network store.
type ctxKV struct {
	*kvstore.Memory
}

func (c ctxKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return c.Memory.Get(ctx, key)
}

func (c ctxKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Memory.Set(ctx, key, value)
}

func (c ctxKV) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Memory.Remove(ctx, key)
}

// seed stores n running workouts through a controller of its own.
func seed(t *testing.T, kv kvstore.Store, n int) {
	t.Helper()
	ctx := context.Background()
	c, _ := newTestController(&fakeUI{pos: home}, kv)
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		_ = c.LocationPicked(home)
		if _, err := c.Submit(ctx, validRun()); err != nil {
			t.Fatal(err)
		}
	}
}

func persistedIDs(t *testing.T, kv kvstore.Store) []string {
	t.Helper()
	records, err := persistence.New(kv, "", discardLogger()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID()
	}
	return ids
}

func newTestController(ui *fakeUI, kv kvstore.Store) (*Controller, *persistence.Adapter) {
	p := persistence.New(kv, "", discardLogger())
	return New(ui.collaborators(), p, Options{Factory: testFactory()}, discardLogger()), p
}

var home = workout.Coordinates{Lat: 40.7, Lng: -74.0}

func validRun() FormFields {
	return FormFields{Type: "running", Distance: "5", Duration: "24", Cadence: "178"}
}

// TestStartEmpty verifies a fresh session centers the map at the reported
// position with the default zoom and waits for input.
func TestStartEmpty(t *testing.T) {
	ui := &fakeUI{pos: home}
	c, _ := newTestController(ui, kvstore.NewMemory())

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.State() != AwaitingInput {
		t.Errorf("state = %s, want awaiting_input", c.State())
	}
	if !c.MapReady() {
		t.Error("MapReady() = false after successful start")
	}
	want := []string{"locate", "center 40.70000,-74.00000 z13"}
	if strings.Join(ui.calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %q, want %q", ui.calls, want)
	}
}

// TestSubmitFlow verifies pick, submit: the record is stored, rendered,
// persisted, and the form closes, in that order.
func TestSubmitFlow(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{pos: home}
	kv := kvstore.NewMemory()
	c, p := newTestController(ui, kv)
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}

	pick := workout.Coordinates{Lat: 40.71, Lng: -74.02}
	if err := c.LocationPicked(pick); err != nil {
		t.Fatalf("LocationPicked: %v", err)
	}
	if c.State() != FormOpen {
		t.Fatalf("state = %s, want form_open", c.State())
	}

	ui.calls = nil
	r, err := c.Submit(ctx, validRun())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if r.Coordinates() != pick {
		t.Errorf("coords = %v, want %v", r.Coordinates(), pick)
	}
	want := []string{
		"marker 40.71000,-74.02000 running-popup 🏃‍♂️ Running on April 3",
		"list w1",
		"form hide",
	}
	if strings.Join(ui.calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %q, want %q", ui.calls, want)
	}
	if c.State() != AwaitingInput {
		t.Errorf("state = %s, want awaiting_input", c.State())
	}

	saved, err := p.Load(ctx)
	if err != nil || len(saved) != 1 || !saved[0].Equal(r) {
		t.Errorf("persisted = %d records, %v; want the submitted record", len(saved), err)
	}
}

// TestSubmitValidationFailures verifies each rejected input alerts, leaves
// the form open and the store untouched.
func TestSubmitValidationFailures(t *testing.T) {
	cases := map[string]FormFields{
		"distance=0":     {Type: "running", Distance: "0", Duration: "24", Cadence: "178"},
		"distance=-5":    {Type: "running", Distance: "-5", Duration: "24", Cadence: "178"},
		"duration=abc":   {Type: "running", Distance: "5", Duration: "abc", Cadence: "178"},
		"cadence=0":      {Type: "running", Distance: "5", Duration: "24", Cadence: "0"},
		"empty duration": {Type: "cycling", Distance: "5", Duration: " ", Elevation: "10"},
		"bad elevation":  {Type: "cycling", Distance: "5", Duration: "20", Elevation: "-3"},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ui := &fakeUI{pos: home}
			kv := kvstore.NewMemory()
			c, _ := newTestController(ui, kv)
			_ = c.Start(ctx)
			_ = c.LocationPicked(home)

			_, err := c.Submit(ctx, fields)
			if !errors.Is(err, workout.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if len(c.Workouts()) != 0 {
				t.Errorf("store has %d records after rejected submit", len(c.Workouts()))
			}
			if c.State() != FormOpen {
				t.Errorf("state = %s, want form_open", c.State())
			}
			if len(ui.alerts) != 1 || !strings.HasPrefix(ui.alerts[0], AlertInvalidInput) {
				t.Errorf("alerts = %q", ui.alerts)
			}
			if ui.count("form hide") != 0 {
				t.Error("form was hidden after a rejected submit")
			}
			if _, ok, _ := kv.Get(ctx, persistence.DefaultKey); ok {
				t.Error("rejected submit was persisted")
			}
		})
	}
}

// TestStartRendersPersisted verifies a restart lists and marks every stored
// workout in creation order with its variant intact.
func TestStartRendersPersisted(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	first := &fakeUI{pos: home}
	c1, _ := newTestController(first, kv)
	_ = c1.Start(ctx)
	_ = c1.LocationPicked(home)
	if _, err := c1.Submit(ctx, validRun()); err != nil {
		t.Fatal(err)
	}
	_ = c1.LocationPicked(home)
	if _, err := c1.Submit(ctx, FormFields{Type: "cycling", Distance: "27", Duration: "95", Elevation: "523"}); err != nil {
		t.Fatal(err)
	}

	second := &fakeUI{pos: home}
	c2, _ := newTestController(second, kv)
	if err := c2.Start(ctx); err != nil {
		t.Fatal(err)
	}
	got := c2.Workouts()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Kind() != workout.KindRunning || got[1].Kind() != workout.KindCycling {
		t.Errorf("kinds = [%s %s], want [running cycling]", got[0].Kind(), got[1].Kind())
	}
	want := []string{
		"list w1",
		"list w2",
		"locate",
		"center 40.70000,-74.00000 z13",
		"marker 40.70000,-74.00000 running-popup 🏃‍♂️ Running on April 3",
		"marker 40.70000,-74.00000 cycling-popup 🚴‍♀️ Cycling on April 3",
	}
	if strings.Join(second.calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %q, want %q", second.calls, want)
	}
}

// TestStartCorruptState verifies a corrupt blob yields an empty session that
// still starts normally.
func TestStartCorruptState(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	_ = kv.Set(ctx, persistence.DefaultKey, "not json at all")

	ui := &fakeUI{pos: home}
	c, _ := newTestController(ui, kv)
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(c.Workouts()) != 0 {
		t.Errorf("store has %d records, want 0", len(c.Workouts()))
	}
	if c.State() != AwaitingInput {
		t.Errorf("state = %s, want awaiting_input", c.State())
	}
}

// TestStartWithoutLocation verifies a denied position alerts the user,
// disables map features, and still lists persisted workouts.
func TestStartWithoutLocation(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	seed := &fakeUI{pos: home}
	c0, _ := newTestController(seed, kv)
	_ = c0.Start(ctx)
	_ = c0.LocationPicked(home)
	if _, err := c0.Submit(ctx, validRun()); err != nil {
		t.Fatal(err)
	}

	ui := &fakeUI{posErr: errors.New("permission denied")}
	c, _ := newTestController(ui, kv)
	err := c.Start(ctx)
	if !errors.Is(err, ErrLocationUnavailable) {
		t.Fatalf("Start error = %v, want ErrLocationUnavailable", err)
	}
	if len(ui.alerts) != 1 || ui.alerts[0] != AlertNoPosition {
		t.Errorf("alerts = %q, want %q", ui.alerts, AlertNoPosition)
	}
	if ui.count("list ") != 1 {
		t.Errorf("list renders = %d, want 1", ui.count("list "))
	}
	if ui.count("center") != 0 || ui.count("marker") != 0 {
		t.Errorf("map calls made without a position: %q", ui.calls)
	}
	if c.MapReady() {
		t.Error("MapReady() = true without a position")
	}

	if err := c.LocationPicked(home); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("LocationPicked error = %v, want ErrInvalidEvent", err)
	}
	if c.ItemClicked("w1") {
		t.Error("ItemClicked panned without a map")
	}
}

// TestSaveFailureKeepsMemory verifies an unavailable byte store does not
// block logging workouts.
func TestSaveFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{pos: home}
	c, _ := newTestController(ui, kvstore.Unavailable{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_ = c.LocationPicked(home)
	r, err := c.Submit(ctx, validRun())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := c.Workouts(); len(got) != 1 || got[0].ID() != r.ID() {
		t.Errorf("workouts = %d, want the submitted record", len(got))
	}
	if ui.count("form hide") != 1 {
		t.Error("form not hidden after submit with failed save")
	}
}

// TestUnreadableLoadMergesBeforeSave verifies a workout logged after a failed
// load is saved alongside the earlier workouts once the store reads again.
func TestUnreadableLoadMergesBeforeSave(t *testing.T) {
	ctx := context.Background()
	mem := kvstore.NewMemory()
	seed(t, mem, 2)

	ui := &fakeUI{pos: home}
	kv := &flakyKV{Memory: mem, failGets: 1}
	c := New(ui.collaborators(), persistence.New(kv, "", discardLogger()), Options{Factory: prefixedFactory("n")}, discardLogger())
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(c.Workouts()) != 0 {
		t.Fatalf("workouts after failed load = %d, want 0", len(c.Workouts()))
	}

	_ = c.LocationPicked(home)
	if _, err := c.Submit(ctx, validRun()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	want := "w1,w2,n1"
	if got := strings.Join(persistedIDs(t, mem), ","); got != want {
		t.Errorf("persisted = %s, want %s", got, want)
	}
	if got := len(c.Workouts()); got != 3 {
		t.Errorf("workouts in memory = %d, want 3", got)
	}
	if ui.count("list w") != 2 || ui.count("marker") != 3 {
		t.Errorf("recovered workouts not rendered: %q", ui.calls)
	}
}

// TestUnreadableLoadSkipsSave verifies nothing is written while the persisted
// workouts stay unreadable, and that reset lifts the restriction.
func TestUnreadableLoadSkipsSave(t *testing.T) {
	ctx := context.Background()
	mem := kvstore.NewMemory()
	seed(t, mem, 2)

	ui := &fakeUI{pos: home}
	kv := &flakyKV{Memory: mem, failGets: 2}
	c := New(ui.collaborators(), persistence.New(kv, "", discardLogger()), Options{Factory: prefixedFactory("n")}, discardLogger())
	_ = c.Start(ctx)

	skipped := testutil.ToFloat64(observability.SavesSkipped)
	_ = c.LocationPicked(home)
	if _, err := c.Submit(ctx, validRun()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := strings.Join(persistedIDs(t, mem), ","); got != "w1,w2" {
		t.Errorf("persisted = %s, want w1,w2 untouched", got)
	}
	if got := testutil.ToFloat64(observability.SavesSkipped) - skipped; got != 1 {
		t.Errorf("saves skipped = %v, want 1", got)
	}
	if len(c.Workouts()) != 1 {
		t.Errorf("workouts in memory = %d, want 1", len(c.Workouts()))
	}

	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	_ = c.LocationPicked(home)
	if _, err := c.Submit(ctx, validRun()); err != nil {
		t.Fatalf("Submit after reset: %v", err)
	}
	if got := strings.Join(persistedIDs(t, mem), ","); got != "n2" {
		t.Errorf("persisted after reset = %s, want n2", got)
	}
}

// TestCancelledContextStillPersists verifies an accepted event finishes its
// storage work even when the caller has gone away.
func TestCancelledContextStillPersists(t *testing.T) {
	mem := kvstore.NewMemory()
	seed(t, mem, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui := &fakeUI{pos: home}
	kv := ctxKV{Memory: mem}
	c := New(ui.collaborators(), persistence.New(kv, "", discardLogger()), Options{Factory: prefixedFactory("n")}, discardLogger())
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(c.Workouts()) != 1 {
		t.Fatalf("workouts loaded = %d, want 1", len(c.Workouts()))
	}
	_ = c.LocationPicked(home)
	if _, err := c.Submit(ctx, validRun()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := strings.Join(persistedIDs(t, mem), ","); got != "w1,n1" {
		t.Errorf("persisted = %s, want w1,n1", got)
	}
}

// TestLogLeavesFormAlone verifies a workout logged for another caller does
// not disturb the user's open form, pick or alerts.
func TestLogLeavesFormAlone(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{pos: home}
	kv := kvstore.NewMemory()
	c, _ := newTestController(ui, kv)

	remote := workout.Coordinates{Lat: 1, Lng: 1}
	if _, err := c.Log(ctx, remote, validRun()); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("Log before start error = %v, want ErrInvalidEvent", err)
	}
	_ = c.Start(ctx)

	pick := workout.Coordinates{Lat: 48.2, Lng: 16.37}
	_ = c.LocationPicked(pick)
	ui.calls = nil

	bad := FormFields{Type: "running", Distance: "0", Duration: "24", Cadence: "178"}
	if _, err := c.Log(ctx, remote, bad); !errors.Is(err, workout.ErrValidation) {
		t.Fatalf("Log error = %v, want ErrValidation", err)
	}
	logged, err := c.Log(ctx, remote, FormFields{Type: "cycling", Distance: "27", Duration: "95", Elevation: "523"})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if logged.Coordinates() != remote {
		t.Errorf("logged at %v, want %v", logged.Coordinates(), remote)
	}
	if len(ui.alerts) != 0 {
		t.Errorf("alerts = %q, want none", ui.alerts)
	}
	if ui.count("form") != 0 {
		t.Errorf("form touched: %q", ui.calls)
	}
	if c.State() != FormOpen {
		t.Errorf("state = %s, want form_open", c.State())
	}

	mine, err := c.Submit(ctx, validRun())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if mine.Coordinates() != pick {
		t.Errorf("user's workout at %v, want %v", mine.Coordinates(), pick)
	}
	if got := strings.Join(persistedIDs(t, kv), ","); got != "w1,w2" {
		t.Errorf("persisted = %s, want w1,w2", got)
	}
}

// TestItemClicked verifies clicking a listed workout pans with animation and
// unknown ids are silently ignored.
func TestItemClicked(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{pos: home}
	c, _ := newTestController(ui, kvstore.NewMemory())
	_ = c.Start(ctx)
	pick := workout.Coordinates{Lat: 48.2, Lng: 16.37}
	_ = c.LocationPicked(pick)
	r, _ := c.Submit(ctx, validRun())

	ui.calls = nil
	if !c.ItemClicked(r.ID()) {
		t.Fatal("ItemClicked returned false for a stored id")
	}
	if c.ItemClicked("nope") {
		t.Error("ItemClicked returned true for an unknown id")
	}
	want := []string{"pan 48.20000,16.37000 z13 true"}
	if strings.Join(ui.calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %q, want %q", ui.calls, want)
	}
}

// TestTypeChanged verifies variant field toggling only applies to an open form.
func TestTypeChanged(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{pos: home}
	c, _ := newTestController(ui, kvstore.NewMemory())
	_ = c.Start(ctx)

	if err := c.TypeChanged(workout.KindCycling); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("TypeChanged with closed form error = %v, want ErrInvalidEvent", err)
	}
	_ = c.LocationPicked(home)
	if err := c.TypeChanged(workout.KindCycling); err != nil {
		t.Fatalf("TypeChanged: %v", err)
	}
	if err := c.TypeChanged("rowing"); err == nil {
		t.Error("TypeChanged(rowing): expected error")
	}
	if ui.count("form fields cycling") != 1 {
		t.Errorf("calls = %q", ui.calls)
	}
}

// TestSubmitRequiresOpenForm verifies a submit without a picked location is refused.
func TestSubmitRequiresOpenForm(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{pos: home}
	c, _ := newTestController(ui, kvstore.NewMemory())
	_ = c.Start(ctx)
	if _, err := c.Submit(ctx, validRun()); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Submit error = %v, want ErrInvalidEvent", err)
	}
}

// TestReset verifies reset clears persisted data and restarts from empty.
func TestReset(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{pos: home}
	kv := kvstore.NewMemory()
	c, _ := newTestController(ui, kv)
	_ = c.Start(ctx)
	_ = c.LocationPicked(home)
	if _, err := c.Submit(ctx, validRun()); err != nil {
		t.Fatal(err)
	}

	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(c.Workouts()) != 0 {
		t.Errorf("workouts after reset = %d, want 0", len(c.Workouts()))
	}
	if _, ok, _ := kv.Get(ctx, persistence.DefaultKey); ok {
		t.Error("persisted key survived reset")
	}
	if c.State() != AwaitingInput {
		t.Errorf("state = %s, want awaiting_input", c.State())
	}
	if ui.count("locate") != 2 {
		t.Errorf("locate calls = %d, want 2", ui.count("locate"))
	}
}

// TestStartTwice verifies Start is only accepted from Initializing.
func TestStartTwice(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(&fakeUI{pos: home}, kvstore.NewMemory())
	_ = c.Start(ctx)
	if err := c.Start(ctx); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("second Start error = %v, want ErrInvalidEvent", err)
	}
}

// TestReplay verifies a reconnecting client gets the map, list, markers and
// open form back.
func TestReplay(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{pos: home}
	c, _ := newTestController(ui, kvstore.NewMemory())
	_ = c.Start(ctx)
	_ = c.LocationPicked(home)
	_, _ = c.Submit(ctx, validRun())
	_ = c.LocationPicked(home)

	ui.calls = nil
	c.Replay()
	want := []string{
		"center 40.70000,-74.00000 z13",
		"list w1",
		"marker 40.70000,-74.00000 running-popup 🏃‍♂️ Running on April 3",
		"form show",
	}
	if strings.Join(ui.calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %q, want %q", ui.calls, want)
	}
}

// TestTransitions spot-checks the transition table.
func TestTransitions(t *testing.T) {
	cases := []struct {
		from, to State
		ok       bool
	}{
		{Initializing, AwaitingLocation, true},
		{Initializing, FormOpen, false},
		{AwaitingLocation, MapReady, true},
		{AwaitingLocation, FormOpen, false},
		{MapReady, FormOpen, true},
		{AwaitingInput, FormOpen, true},
		{FormOpen, AwaitingInput, true},
		{FormOpen, MapReady, false},
		{FormOpen, Initializing, true},
		{AwaitingLocation, Initializing, true},
	}
	for _, tc := range cases {
		if got := isAllowedTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("%s -> %s allowed = %t, want %t", tc.from, tc.to, got, tc.ok)
		}
	}
}
