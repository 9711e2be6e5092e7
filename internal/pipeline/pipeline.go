package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/brainviz/connectome-core/internal/metrics"
	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/internal/wavelet"
	"github.com/brainviz/connectome-core/pkg/logger"
)

// Runner executes the signal-to-frames pipeline for one request: windowed
// correlation (or precomputed leadership), optional Fisher transform,
// optional interpolation and smoothing, then graph frame assembly. The
// wavelet dataset handle is injected at construction and only ever read,
// so a single Runner is safe for concurrent requests.
type Runner struct {
	log       logger.Logger
	tracer    trace.Tracer
	dataset   *wavelet.Dataset
	labels    []string
	fullNames []string
	workers   int
}

// NewRunner wires a pipeline runner. dataset may be nil when no wavelet
// phase data is available; wavelet requests then fail with
// ErrDatasetUnavailable. workers caps per-request window parallelism.
func NewRunner(log logger.Logger, dataset *wavelet.Dataset, labels, fullNames []string, workers int) *Runner {
	return &Runner{
		log:       log,
		tracer:    otel.Tracer("connectome-core/pipeline"),
		dataset:   dataset,
		labels:    labels,
		fullNames: fullNames,
		workers:   workers,
	}
}

// Run executes the full pipeline. signals carries the subject's time series
// for correlation methods and may be nil for wavelet; subjectID is consulted
// only by the wavelet method.
func (r *Runner) Run(ctx context.Context, req models.GraphRequest, signals *SignalMatrix, subjectID int64) (*models.GraphResponse, error) {
	method, err := ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status := "error"
	defer func() {
		metrics.PipelineRunsTotal.WithLabelValues(string(method), status).Inc()
		metrics.PipelineRunDuration.WithLabelValues(string(method)).Observe(time.Since(start).Seconds())
	}()

	ctx, span := r.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("pipeline.method", string(method)),
		attribute.Int("pipeline.window_size", req.WindowSize),
		attribute.Int("pipeline.step", req.Step),
	))
	defer span.End()

	seq, err := r.correlate(ctx, method, req, signals, subjectID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if req.FisherTransform {
		if method == MethodWavelet {
			return nil, errors.New("fisher_transform applies only to correlation methods")
		}
		FisherZ(seq)
	}

	if req.Interpolation != nil && req.Interpolation.Algorithm != "" {
		seq, err = r.interpolate(ctx, seq, req.Interpolation)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	if req.Smoothing != nil && req.Smoothing.Algorithm != "" {
		seq, err = r.smooth(ctx, seq, req.Smoothing)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	frames, err := BuildFrames(seq, r.labels, r.fullNames, req.Threshold)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	md := map[string]string{
		"source":      "abide",
		"file":        req.FilePath,
		"method":      req.Method,
		"window_size": strconv.Itoa(req.WindowSize),
	}
	for i := range frames {
		frames[i].Metadata = md
	}

	description := fmt.Sprintf("ABIDE data: %s (%s correlation)", req.FilePath, req.Method)
	meta, err := SummarizeFrames(frames, description)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	status = "ok"
	metrics.FramesBuilt.WithLabelValues(string(method)).Observe(float64(len(frames)))
	span.SetAttributes(attribute.Int("pipeline.frames", len(frames)))
	r.log.Info("pipeline run complete",
		"method", string(method),
		"file", req.FilePath,
		"frames", len(frames),
		"duration", time.Since(start).String())

	return &models.GraphResponse{
		Frames:    frames,
		Meta:      meta,
		Symmetric: method.Symmetric(),
	}, nil
}

func (r *Runner) correlate(ctx context.Context, method Method, req models.GraphRequest, signals *SignalMatrix, subjectID int64) (Sequence, error) {
	_, span := r.tracer.Start(ctx, "pipeline.correlate")
	defer span.End()

	if method == MethodWavelet {
		if r.dataset == nil || r.dataset.Len() == 0 {
			return Sequence{}, ErrDatasetUnavailable
		}
		return Leadership(r.dataset, subjectID, len(r.labels), req.WindowSize, req.Step)
	}

	if signals == nil {
		return Sequence{}, errors.New("no signal matrix supplied")
	}
	seq, degenerate, err := Correlate(signals, method, req.WindowSize, req.Step, r.workers)
	if err != nil {
		return Sequence{}, err
	}
	if degenerate > 0 {
		metrics.DegenerateWindowsTotal.Add(float64(degenerate))
		r.log.Warn("zero-variance channels clamped to zero correlation",
			"method", string(method),
			"windows", degenerate,
			"file", req.FilePath)
	}
	return seq, nil
}

func (r *Runner) interpolate(ctx context.Context, seq Sequence, req *models.InterpolationRequest) (Sequence, error) {
	_, span := r.tracer.Start(ctx, "pipeline.interpolate", trace.WithAttributes(
		attribute.String("pipeline.interpolation", req.Algorithm),
		attribute.Int("pipeline.factor", req.Factor),
	))
	defer span.End()

	kernel, err := ParseInterpolationKernel(req.Algorithm)
	if err != nil {
		return Sequence{}, err
	}
	return Interpolate(seq, kernel, req.Factor)
}

func (r *Runner) smooth(ctx context.Context, seq Sequence, req *models.SmoothingRequest) (Sequence, error) {
	_, span := r.tracer.Start(ctx, "pipeline.smooth", trace.WithAttributes(
		attribute.String("pipeline.smoothing", req.Algorithm),
	))
	defer span.End()

	kernel, err := ParseSmoothingKernel(req.Algorithm, req.Window, req.Alpha, req.Sigma)
	if err != nil {
		return Sequence{}, err
	}
	return Smooth(seq, kernel)
}
