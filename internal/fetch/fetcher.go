package fetch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/orbitviz/core"
	"github.com/signalsfoundry/orbitviz/internal/logging"
	"github.com/signalsfoundry/orbitviz/internal/observability"
	"github.com/signalsfoundry/orbitviz/kb"
	"github.com/signalsfoundry/orbitviz/model"
)

// FetchError wraps a failed trajectory acquisition. The cause is surfaced
// verbatim for a user-visible retry; the fetcher never retries on its own.
type FetchError struct {
	ObjectID string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("trajectory fetch for %q failed: %v", e.ObjectID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher acquires trajectories for tracked objects and installs them in
// the session. It is the asynchronous boundary of the system: the engine
// only ever reads trajectories the fetcher has marked fully present.
// Supersession is abandon-and-replace, enforced by the session's fetch
// generations; a stale result is dropped, never merged.
type Fetcher struct {
	session *kb.Session
	log     logging.Logger
	metrics *observability.EngineCollector

	// Step is the sample spacing for TLE propagation.
	Step time.Duration
	// Window is how far past the element epoch to propagate.
	Window time.Duration
}

// NewFetcher constructs a fetcher sampling once per minute over one day
// past the element epoch.
func NewFetcher(session *kb.Session, log logging.Logger, metrics *observability.EngineCollector) *Fetcher {
	if log == nil {
		log = logging.Noop()
	}
	return &Fetcher{
		session: session,
		log:     log,
		metrics: metrics,
		Step:    time.Minute,
		Window:  24 * time.Hour,
	}
}

// FetchTLE builds a trajectory for a TLE-sourced object by SGP4 propagation
// across the fetch window and installs it atomically. Failures leave the
// previous trajectory (or its absence) untouched.
func (f *Fetcher) FetchTLE(ctx context.Context, objectID string) error {
	obj := f.session.GetObject(objectID)
	if obj == nil {
		return &FetchError{ObjectID: objectID, Err: fmt.Errorf("unknown tracked object")}
	}

	ctx, log := logging.WithFetchLogger(ctx, f.log, objectID)
	ctx, span := otel.Tracer("orbitviz/fetch").Start(ctx, "Fetcher.FetchTLE")
	span.SetAttributes(attribute.String("object_id", objectID))
	defer span.End()

	gen, err := f.session.BeginFetch(objectID)
	if err != nil {
		return &FetchError{ObjectID: objectID, Err: err}
	}

	traj, err := f.propagate(obj)
	if err != nil {
		return f.fail(ctx, log, objectID, gen, err)
	}

	if err := f.session.CompleteFetch(objectID, gen, traj); err != nil {
		return &FetchError{ObjectID: objectID, Err: err}
	}
	log.Info(ctx, "trajectory installed",
		logging.Int("samples", len(traj.Samples)),
		logging.Float64("start_mjd", float64(traj.Start)),
		logging.Float64("end_mjd", float64(traj.End)),
	)
	return nil
}

func (f *Fetcher) propagate(obj *model.TrackedObject) (*model.Trajectory, error) {
	if obj.Source != model.OrbitSourceTLE {
		return nil, fmt.Errorf("object is not TLE-sourced")
	}
	if err := ValidateTLE(obj.TLELine1, obj.TLELine2); err != nil {
		return nil, err
	}

	epoch, err := core.EpochFromTLE(obj.TLELine1)
	if err != nil {
		return nil, err
	}
	start, err := core.ToMissionTime(epoch)
	if err != nil {
		return nil, err
	}
	end := core.MissionTimeAdd(start, f.Window)

	prop := core.NewTLEPropagator(obj.TLELine1, obj.TLELine2)
	return prop.SampleTrajectory(start, end, f.Step)
}

// Deliver installs a pre-computed sample list for an upload-sourced object.
// Samples must already be ascending by time; the bounds default to the
// first and last sample when zero.
func (f *Fetcher) Deliver(ctx context.Context, objectID string, samples []model.TrajectorySample, start, end model.MissionTime) error {
	ctx, log := logging.WithFetchLogger(ctx, f.log, objectID)

	gen, err := f.session.BeginFetch(objectID)
	if err != nil {
		return &FetchError{ObjectID: objectID, Err: err}
	}

	if len(samples) == 0 {
		return f.fail(ctx, log, objectID, gen, fmt.Errorf("no samples delivered"))
	}
	if !sort.SliceIsSorted(samples, func(i, j int) bool { return samples[i].Time < samples[j].Time }) {
		return f.fail(ctx, log, objectID, gen, fmt.Errorf("samples not ascending by time"))
	}
	if start == 0 {
		start = samples[0].Time
	}
	if end == 0 {
		end = samples[len(samples)-1].Time
	}

	traj := &model.Trajectory{Samples: samples, Start: start, End: end}
	if err := f.session.CompleteFetch(objectID, gen, traj); err != nil {
		return &FetchError{ObjectID: objectID, Err: err}
	}
	log.Info(ctx, "uploaded trajectory installed", logging.Int("samples", len(samples)))
	return nil
}

func (f *Fetcher) fail(ctx context.Context, log logging.Logger, objectID string, gen uint64, cause error) error {
	ferr := &FetchError{ObjectID: objectID, Err: cause}
	_ = f.session.FailFetch(objectID, gen, ferr)
	f.metrics.RecordFetchFailure(objectID)
	log.Warn(ctx, "trajectory fetch failed", logging.String("error", cause.Error()))
	return ferr
}
