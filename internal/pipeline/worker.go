package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/lawgest/internal/lawdoc"
	"github.com/dgallion1/lawgest/internal/parser"
)

// Sink persists a converted document and returns where it was written.
type Sink interface {
	Write(ctx context.Context, set lawdoc.RecordSet) (string, error)
}

// OutcomeStatus summarizes how a document fared.
type OutcomeStatus string

const (
	OutcomeOK      OutcomeStatus = "ok"
	OutcomeWarning OutcomeStatus = "warning"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is the per-document report of a conversion.
type Outcome struct {
	Source      string        `json:"source"`
	Status      OutcomeStatus `json:"status"`
	LawName     string        `json:"law_name,omitempty"`
	LawCode     string        `json:"law_code,omitempty"`
	Slug        string        `json:"slug,omitempty"`
	ContentHash string        `json:"content_hash,omitempty"`
	Records     int           `json:"records"`
	Sections    int           `json:"sections"`
	Output      string        `json:"output,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
	Err         error         `json:"-"`
}

// Worker converts documents and hands the results to its sinks. The first
// sink's location is reported as the outcome's output.
type Worker struct {
	sinks      []Sink
	parserOpts parser.Options
	metrics    *Metrics
	stats      *LatencyStats
	log        *slog.Logger
}

func NewWorker(sinks []Sink, opts parser.Options, metrics *Metrics, stats *LatencyStats, log *slog.Logger) *Worker {
	return &Worker{
		sinks:      sinks,
		parserOpts: opts,
		metrics:    metrics,
		stats:      stats,
		log:        log,
	}
}

// Convert extracts and converts one document.
func (w *Worker) Convert(ctx context.Context, filename string, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	doc, err := Extract(data, filename, w.parserOpts)
	w.observe(StageExtract, start)
	if err != nil {
		return Result{}, err
	}

	start = time.Now()
	res := Convert(doc)
	w.observe(StageConvert, start)
	return res, nil
}

// Complete writes a converted document to every sink, logs and counts the
// outcome. convErr is the error returned by Convert, if any.
func (w *Worker) Complete(ctx context.Context, source string, res Result, convErr error) Outcome {
	log := w.log.With("file", source)
	out := Outcome{Source: source}

	if convErr != nil {
		out.Status = OutcomeFailed
		out.Err = convErr
		log.Error("conversion failed", "error", convErr)
		w.metrics.observeDocument(out)
		return out
	}

	out.LawName = res.Identity.Title
	out.LawCode = res.Identity.Code
	out.Slug = res.Identity.Slug
	out.ContentHash = res.ContentHash
	out.Records = len(res.Records)
	out.Sections = res.Sections
	out.Warnings = res.Warnings
	log = log.With("slug", out.Slug)

	start := time.Now()
	for i, sink := range w.sinks {
		loc, err := w.writeSink(ctx, sink, res.RecordSet)
		if err != nil {
			out.Status = OutcomeFailed
			out.Err = fmt.Errorf("write %s: %w", out.Slug, err)
			log.Error("write failed", "error", err)
			w.metrics.observeDocument(out)
			return out
		}
		if i == 0 {
			out.Output = loc
		}
	}
	w.observe(StageWrite, start)

	for _, warning := range out.Warnings {
		log.Warn(warning)
	}
	out.Status = OutcomeOK
	if len(out.Warnings) > 0 {
		out.Status = OutcomeWarning
	}
	log.Info("converted",
		"law_name", out.LawName,
		"law_code", out.LawCode,
		"records", out.Records,
		"output", out.Output,
	)
	w.metrics.observeDocument(out)
	return out
}

// Process runs the full conversion for an uploaded job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	job.SetStatus(StatusConverting, "converting")
	res, err := w.Convert(ctx, job.Filename, job.FileData())
	if err == nil {
		job.SetStatus(StatusWriting, "writing")
	}
	out := w.Complete(ctx, job.Filename, res, err)
	job.Finish(res.Records, out)
}

// writeSink retries transient sink failures with backoff.
func (w *Worker) writeSink(ctx context.Context, sink Sink, set lawdoc.RecordSet) (string, error) {
	var loc string
	var err error
	for attempt := range MaxRetries {
		loc, err = sink.Write(ctx, set)
		if err == nil || !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		w.log.Warn("retryable sink error", "slug", set.Identity.Slug, "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return loc, ctx.Err()
		}
	}
	return loc, err
}

func (w *Worker) observe(stage string, start time.Time) {
	d := time.Since(start)
	w.stats.Record(stage, d)
	w.metrics.observeStage(stage, d)
}
