// Package processing chains the simulation stages into one pipeline run.
package processing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing/drs"
	"github.com/mpapenbr/rsim/pkg/processing/interpolate"
	"github.com/mpapenbr/rsim/pkg/processing/race"
	"github.com/mpapenbr/rsim/pkg/season"
	"github.com/mpapenbr/rsim/pkg/speedprofile"
)

const instrumentationName = "github.com/mpapenbr/rsim/pkg/processing"

type Processor struct {
	cal      model.Calibration
	profiles *speedprofile.Set
	drsCfg   *drs.Config
	log      *log.Logger
	tracer   trace.Tracer
	rows     metric.Int64Counter
}

type ProcessorOption func(proc *Processor)

func WithCalibration(cal model.Calibration) ProcessorOption {
	return func(proc *Processor) {
		proc.cal = cal
	}
}

// WithProfiles replaces the embedded speed profiles.
func WithProfiles(profiles *speedprofile.Set) ProcessorOption {
	return func(proc *Processor) {
		proc.profiles = profiles
	}
}

func WithDRSConfig(cfg drs.Config) ProcessorOption {
	return func(proc *Processor) {
		proc.drsCfg = &cfg
	}
}

func WithLogger(l *log.Logger) ProcessorOption {
	return func(proc *Processor) {
		proc.log = l
	}
}

func NewProcessor(opts ...ProcessorOption) (*Processor, error) {
	ret := &Processor{
		cal:    model.DefaultCalibration(),
		log:    log.Default().Named("pipeline"),
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.drsCfg == nil {
		cfg := drs.ConfigFor(ret.cal)
		ret.drsCfg = &cfg
	}
	if ret.profiles == nil {
		profiles, err := speedprofile.Default(ret.cal.LapLengthM())
		if err != nil {
			return nil, err
		}
		ret.profiles = profiles
	}
	rows, err := otel.Meter(instrumentationName).Int64Counter("rsim.rows",
		metric.WithDescription("number of rows produced per artifact"))
	if err != nil {
		return nil, err
	}
	ret.rows = rows
	return ret, nil
}

// Output holds the artifacts of one pipeline run.
type Output struct {
	RunID         uuid.UUID
	Season        string
	Snapshots     []model.Snapshot
	Interpolation *interpolate.Result
	Events        []model.DRSEvent
}

// Process runs simulate, interpolate and the DRS scan for the season.
func (p *Processor) Process(ctx context.Context, s *model.Season) (*Output, error) {
	if err := season.Validate(s, p.cal); err != nil {
		return nil, err
	}
	ret := &Output{RunID: uuid.New(), Season: s.Name}
	logger := p.log.With(log.String("runId", ret.RunID.String()))
	ctx, span := p.tracer.Start(ctx, "pipeline",
		trace.WithAttributes(attribute.String("run.id", ret.RunID.String())))
	defer span.End()

	ret.Snapshots = p.simulate(ctx, s, logger)
	p.count(ctx, "race", len(ret.Snapshots))

	res, err := p.interpolate(ctx, ret.Snapshots)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("interpolate: %w", err)
	}
	ret.Interpolation = res
	p.count(ctx, "frames", len(res.Frames))

	events, err := p.scan(ctx, res.Frames)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("drs: %w", err)
	}
	ret.Events = events
	p.count(ctx, "drs", len(events))

	logger.Info("pipeline done",
		log.Int("snapshots", len(ret.Snapshots)),
		log.Int("frames", len(res.Frames)),
		log.Int("events", len(events)))
	return ret, nil
}

func (p *Processor) simulate(
	ctx context.Context,
	s *model.Season,
	logger *log.Logger,
) []model.Snapshot {
	_, span := p.tracer.Start(ctx, "simulate")
	defer span.End()
	return race.NewSimulation(p.cal, s, race.WithLogger(logger.Named("race"))).Simulate()
}

func (p *Processor) interpolate(
	ctx context.Context,
	snapshots []model.Snapshot,
) (*interpolate.Result, error) {
	_, span := p.tracer.Start(ctx, "interpolate")
	defer span.End()
	return interpolate.NewInterpolator(interpolate.DefaultConfig(p.cal, p.profiles)).
		Run(snapshots)
}

func (p *Processor) scan(ctx context.Context, frames []model.Frame) (
	[]model.DRSEvent, error,
) {
	_, span := p.tracer.Start(ctx, "drs")
	defer span.End()
	return drs.NewScanner(*p.drsCfg).Scan(frames)
}

func (p *Processor) count(ctx context.Context, artifact string, n int) {
	p.rows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("artifact", artifact)))
}
