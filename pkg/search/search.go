package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/directions"
	"github.com/crowdpredictor/trafficmap/pkg/traffic"
)

// RouteResolver finds a route between two places.
type RouteResolver interface {
	Resolve(ctx context.Context, origin, destination string) (directions.Route, error)
}

// Predictor asks for a traffic prediction.
type Predictor interface {
	Predict(ctx context.Context, sess session.Session, req backend.PredictRequest) (backend.Prediction, error)
}

// HistoryWriter records a search.
type HistoryWriter interface {
	AddHistory(ctx context.Context, sess session.Session, entry backend.NewHistoryEntry) error
}

// Query is one search request.
type Query struct {
	Origin      string
	Destination string
	At          time.Time
}

// Outcome is the result of a search that was not aborted.
// HistoryErr is set when the prediction succeeded but could not be saved.
type Outcome struct {
	Query      Query
	Route      directions.Route
	Prediction backend.Prediction
	Color      traffic.Color
	Stage      Stage
	HistoryErr error
}

// step is one stage of the pipeline.
type step struct {
	name   string
	target Stage
	kind   StepKind
	run    func(ctx context.Context, sess session.Session, o *Outcome) error
}

// Orchestrator runs route resolution, prediction and the history write in order.
type Orchestrator struct {
	routes  RouteResolver
	predict Predictor
	history HistoryWriter
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the time source used for "now".
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an orchestrator.
func New(routes RouteResolver, predict Predictor, history HistoryWriter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		routes:  routes,
		predict: predict,
		history: history,
		now:     time.Now,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search validates the query, resolves the route, predicts traffic and records
// the search in history. Only the history write may fail without failing the
// search. A zero Query.At means now.
func (o *Orchestrator) Search(ctx context.Context, sess session.Session, q Query) (Outcome, error) {
	q, err := o.normalize(q)
	if err != nil {
		return Outcome{Query: q, Stage: Idle}, &AbortError{Stage: Idle, Err: err}
	}
	return o.run(ctx, sess, q, o.resolveStep(), o.predictStep(), o.historyStep())
}

// Repeat runs a past search again for the current time and records it as a
// new history entry. The original entry is left untouched.
func (o *Orchestrator) Repeat(ctx context.Context, sess session.Session, entry backend.SearchHistoryEntry) (Outcome, error) {
	q, err := o.normalize(Query{Origin: entry.Origin, Destination: entry.Destination, At: o.now()})
	if err != nil {
		return Outcome{Query: q, Stage: Idle}, &AbortError{Stage: Idle, Err: err}
	}
	return o.run(ctx, sess, q, o.skipRouteStep(), o.predictStep(), o.historyStep())
}

// Check predicts the current traffic for a route without recording it.
func (o *Orchestrator) Check(ctx context.Context, sess session.Session, origin, destination string) (Outcome, error) {
	q, err := o.normalize(Query{Origin: origin, Destination: destination, At: o.now()})
	if err != nil {
		return Outcome{Query: q, Stage: Idle}, &AbortError{Stage: Idle, Err: err}
	}
	return o.run(ctx, sess, q, o.skipRouteStep(), o.predictStep())
}

func (o *Orchestrator) normalize(q Query) (Query, error) {
	q.Origin = strings.TrimSpace(q.Origin)
	q.Destination = strings.TrimSpace(q.Destination)
	if q.At.IsZero() {
		q.At = o.now()
	}
	if q.Origin == "" || q.Destination == "" {
		return q, ErrValidation
	}
	return q, nil
}

func (o *Orchestrator) run(ctx context.Context, sess session.Session, q Query, steps ...step) (Outcome, error) {
	out := Outcome{Query: q, Stage: Idle}

	for _, s := range steps {
		err := s.run(ctx, sess, &out)
		if err == nil {
			out.Stage = s.target
			continue
		}

		if s.kind == BestEffort {
			o.logger.WarnContext(ctx, "search step failed",
				logger.Component("search"),
				logger.Stage(s.name),
				logger.Error(err),
			)
			if s.target == HistoryPersisted {
				out.HistoryErr = err
			}
			continue
		}

		reached := out.Stage
		out.Stage = Aborted
		return out, &AbortError{Stage: reached, Err: err}
	}
	return out, nil
}

func (o *Orchestrator) resolveStep() step {
	return step{
		name:   "resolve_route",
		target: RouteResolved,
		kind:   Required,
		run: func(ctx context.Context, _ session.Session, out *Outcome) error {
			route, err := o.routes.Resolve(ctx, out.Query.Origin, out.Query.Destination)
			if err != nil {
				return errors.Join(ErrRouteNotFound, err)
			}
			out.Route = route
			return nil
		},
	}
}

// skipRouteStep advances past route resolution for searches that only need
// a prediction.
func (o *Orchestrator) skipRouteStep() step {
	return step{
		name:   "skip_route",
		target: RouteResolved,
		kind:   Required,
		run:    func(context.Context, session.Session, *Outcome) error { return nil },
	}
}

func (o *Orchestrator) predictStep() step {
	return step{
		name:   "predict",
		target: PredictionReceived,
		kind:   Required,
		run: func(ctx context.Context, sess session.Session, out *Outcome) error {
			p, err := o.predict.Predict(ctx, sess, backend.PredictRequest{
				Origin:      out.Query.Origin,
				Destination: out.Query.Destination,
				Datetime:    out.Query.At,
			})
			if err != nil {
				return err
			}
			out.Prediction = p
			out.Color = traffic.ColorOf(p.TrafficLevel)
			return nil
		},
	}
}

func (o *Orchestrator) historyStep() step {
	return step{
		name:   "persist_history",
		target: HistoryPersisted,
		kind:   BestEffort,
		run: func(ctx context.Context, sess session.Session, out *Outcome) error {
			if o.history == nil {
				return nil
			}
			return o.history.AddHistory(ctx, sess, backend.NewHistoryEntry{
				Origin:           out.Query.Origin,
				Destination:      out.Query.Destination,
				Datetime:         out.Query.At,
				PredictionResult: out.Prediction,
			})
		},
	}
}
