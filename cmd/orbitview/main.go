package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/signalsfoundry/orbitviz/core"
	"github.com/signalsfoundry/orbitviz/internal/fetch"
	"github.com/signalsfoundry/orbitviz/internal/logging"
	"github.com/signalsfoundry/orbitviz/internal/observability"
	"github.com/signalsfoundry/orbitviz/kb"
	"github.com/signalsfoundry/orbitviz/model"
	"github.com/signalsfoundry/orbitviz/timectrl"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to a JSON catalog of tracked objects (optional)")
	duration := flag.Duration("duration", 60*time.Second, "total playback duration (wall clock)")
	tick := flag.Duration("tick", 1*time.Second, "tick interval")
	rate := flag.Float64("rate", 60, "mission seconds per wall-clock second")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics")
	planeWidth := flag.Float64("plane-width", 360, "map plane width in scene units")
	aspect := flag.Float64("aspect", 2, "map plane width/height ratio")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	playback, err := observability.NewPlaybackCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise playback metrics", logging.String("error", err.Error()))
		os.Exit(1)
	}
	playback.SetPlaybackRate(*rate)
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	session := kb.NewSession(kb.WithMetricsRecorder(collector))
	loadCatalog(ctx, log, session, *catalogPath)

	fetcher := fetch.NewFetcher(session, log, collector)
	for _, obj := range session.ListObjects() {
		if obj.Source != model.OrbitSourceTLE {
			continue
		}
		if err := fetcher.FetchTLE(ctx, obj.ID); err != nil {
			log.Warn(ctx, "fetch failed; object left without trajectory",
				logging.String("object_id", obj.ID),
				logging.String("error", err.Error()),
			)
		}
	}

	queries := core.NewQueryService(session, core.PrecessionAlignment{}, collector)
	queries.PlaneWidth = *planeWidth
	queries.AspectRatio = *aspect

	start := playbackStart(session)
	clock := timectrl.NewMissionClock(start, *tick, *rate)

	clock.AddListener(func(now model.MissionTime) {
		tickStart := time.Now()
		defer func() { playback.ObserveTick(float64(now), time.Since(tickStart)) }()

		c, err := core.ToCalendar(now)
		if err != nil {
			log.Error(ctx, "invalid mission time", logging.Float64("mjd", float64(now)))
			return
		}
		rot, err := queries.FrameAt(c)
		if err != nil {
			log.Error(ctx, "frame composition failed", logging.String("error", err.Error()))
			return
		}

		for _, obj := range session.ListObjects() {
			g, err := queries.GeodeticAt(obj.ID, now)
			if err != nil {
				continue
			}
			p, err := queries.PlaneAt(obj.ID, now)
			if err != nil {
				continue
			}
			fmt.Printf("[%s | MJD %.5f] %-12s lon=%8.3f lat=%7.3f plane=(%7.2f,%6.2f) gmst=%.4f rad\n",
				c.Format(time.RFC3339), float64(now), obj.ID,
				g.Longitude, g.Latitude, p.X, p.Y, rot.SpinAngle(),
			)
		}
	})

	log.Info(ctx, "starting playback",
		logging.Float64("start_mjd", float64(start)),
		logging.Float64("rate", *rate),
	)
	done := clock.Start(*duration)
	<-done

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	log.Info(ctx, "playback complete")
}

// playbackStart picks the earliest present trajectory start, falling back
// to the current wall clock when nothing loaded.
func playbackStart(session *kb.Session) model.MissionTime {
	var start model.MissionTime
	for _, obj := range session.ListObjects() {
		traj, status := session.Trajectory(obj.ID)
		if status != model.TrackPresent || traj.Empty() {
			continue
		}
		if start == 0 || traj.Start < start {
			start = traj.Start
		}
	}
	if start != 0 {
		return start
	}
	now, err := core.ToMissionTime(time.Now().UTC())
	if err != nil {
		return 0
	}
	return now
}

func loadCatalog(ctx context.Context, log logging.Logger, session *kb.Session, path string) {
	if path == "" {
		// Built-in ISS elements so the demo runs without a catalog file.
		_ = session.AddObject(&model.TrackedObject{
			ID:       "iss",
			Name:     "ISS (ZARYA)",
			Source:   model.OrbitSourceTLE,
			TLELine1: "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990",
			TLELine2: "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760",
			NoradID:  25544,
		})
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Error(ctx, "failed to open catalog", logging.String("path", path), logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	catalog, err := kb.LoadCatalog(session, f)
	if err != nil {
		log.Error(ctx, "failed to load catalog", logging.String("path", path), logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "loaded catalog",
		logging.String("path", path),
		logging.Int("objects", len(catalog.ObjectIDs)),
	)
}

func serveMetrics(addr string, collector *observability.EngineCollector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
