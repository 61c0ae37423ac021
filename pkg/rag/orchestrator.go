package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/events"
	"citystyle-be/pkg/imagegen"
	"citystyle-be/pkg/llm"
	"citystyle-be/pkg/rag/prompt"
	"citystyle-be/pkg/search"
	"citystyle-be/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	logModule      = "rag"
	DefaultTimeout = 60 * time.Second
	DefaultCity    = "New York"
)

type Searcher interface {
	Search(ctx context.Context, query string, filters search.Filters) (search.GroundingResult, error)
}

type Completer interface {
	Complete(ctx context.Context, pair llm.PromptPair) (llm.CompletionResult, error)
}

type ImageGenerator interface {
	GenerateImages(ctx context.Context, prompt string, count int, size imagegen.Size) imagegen.ImageSet
}

// Response is the success payload of one run. Which fields are set depends on the intent.
type Response struct {
	Intent    Intent
	Summary   string
	ImageURLs []string
	Message   string
	Trace     Trace
}

// ImagesUnavailable reports whether imaging ran and fell back to the sentinel.
func (r *Response) ImagesUnavailable() bool {
	return r.ImageURLs != nil && !imagegen.ImageSet(r.ImageURLs).Available()
}

// Orchestrator runs the search, completion, filter and imaging stages for a
// Query. It holds no per-run state and is safe for concurrent use.
type Orchestrator struct {
	searcher    Searcher
	completer   Completer
	images      ImageGenerator
	logger      logger.ILogger
	publisher   events.Publisher
	tracer      oteltrace.Tracer
	timeout     time.Duration
	imageSize   imagegen.Size
	defaultCity string
	now         func() time.Time
	newID       func() string
}

type Option func(*Orchestrator)

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithImageSize(size imagegen.Size) Option {
	return func(o *Orchestrator) {
		o.imageSize = size
	}
}

func WithDefaultCity(city string) Option {
	return func(o *Orchestrator) {
		if strings.TrimSpace(city) != "" {
			o.defaultCity = city
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.publisher = p
		}
	}
}

// WithClock overrides the clock used for the recency floor and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func NewOrchestrator(searcher Searcher, completer Completer, images ImageGenerator, log logger.ILogger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		searcher:    searcher,
		completer:   completer,
		images:      images,
		logger:      log,
		publisher:   events.NopPublisher{},
		tracer:      otel.Tracer("citystyle-be/pkg/rag"),
		timeout:     DefaultTimeout,
		imageSize:   imagegen.Size512,
		defaultCity: DefaultCity,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one pipeline invocation. Failures are returned as *StageError.
func (o *Orchestrator) Run(ctx context.Context, q Query) (*Response, error) {
	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	r := &run{o: o, ctx: runCtx, trace: Trace{RunID: o.newID()}}
	r.logFields = map[string]interface{}{"run_id": r.trace.RunID, "intent": string(q.Intent)}

	r.enter(StateValidating)
	if err := q.Validate(); err != nil {
		return nil, r.fail(err)
	}
	plan := intentTable[q.Intent]
	city := strings.TrimSpace(q.Locale)
	if city == "" {
		city = o.defaultCity
	}

	r.enter(StateSearching)
	filters := search.DefaultFilters()
	if plan.needsRecency {
		filters = filters.WithRecency(o.now())
	}
	grounding, err := o.searcher.Search(r.stageCtx, strings.TrimSpace(q.FreeText), filters)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(StateCompleting)
	primary, err := o.completer.Complete(r.stageCtx, plan.prompt.Build(city, grounding.Texts()))
	if err != nil {
		return nil, r.fail(err)
	}
	if !primary.Present() {
		return nil, r.fail(fmt.Errorf("%w: %w", ErrCompletionUnavailable, llm.ErrEmptyResponse))
	}

	resp := &Response{Intent: q.Intent}
	if plan.field == fieldMessage {
		resp.Message = primary.Text
	} else {
		resp.Summary = primary.Text
	}

	if plan.needsFiltering {
		r.enter(StateFiltering)
		filtered, err := o.completer.Complete(r.stageCtx, prompt.Filter(grounding.Texts(), primary.Text))
		if err != nil {
			return nil, r.fail(err)
		}
		if !filtered.Present() {
			return nil, r.fail(fmt.Errorf("%w: %w", ErrCompletionUnavailable, llm.ErrEmptyResponse))
		}

		if plan.needsImaging {
			r.enter(StateImaging)
			count := utils.CountSentences(primary.Text)
			resp.ImageURLs = o.images.GenerateImages(r.stageCtx, prompt.TrendImage(filtered.Text), count, o.imageSize)
			if r.span != nil {
				r.span.SetAttributes(attribute.Int("image.count", count))
			}
		}
	}

	r.enter(StateDone)
	r.close()
	resp.Trace = r.trace

	o.logger.Info(logModule, "pipeline finished", r.with(map[string]interface{}{
		"states":             fmt.Sprint(r.trace.States()),
		"images_unavailable": resp.ImagesUnavailable(),
	}))

	imageCount := 0
	if imagegen.ImageSet(resp.ImageURLs).Available() {
		imageCount = len(resp.ImageURLs)
	}
	o.publish(runCtx, events.NewTrendGenerated(r.trace.RunID, string(q.Intent), city, imageCount, o.now()))

	return resp, nil
}

func (o *Orchestrator) publish(ctx context.Context, evt events.Event) {
	if err := o.publisher.Publish(ctx, evt); err != nil {
		o.logger.Warn(logModule, "failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}

// run tracks the state machine of a single invocation.
type run struct {
	o         *Orchestrator
	ctx       context.Context
	trace     Trace
	logFields map[string]interface{}

	state    State
	entered  time.Time
	stageCtx context.Context
	span     oteltrace.Span
}

func (r *run) with(extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(r.logFields)+len(extra))
	for k, v := range r.logFields {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (r *run) enter(next State) {
	from := r.state
	r.close()
	r.state = next
	r.entered = time.Now()
	r.stageCtx, r.span = r.o.tracer.Start(r.ctx, "rag."+strings.ToLower(string(next)),
		oteltrace.WithAttributes(attribute.String("rag.run_id", r.trace.RunID)))

	r.o.logger.Debug(logModule, "state transition", r.with(map[string]interface{}{
		"from": string(from),
		"to":   string(next),
	}))
}

// close records the time spent in the current state.
func (r *run) close() {
	if r.state == "" {
		return
	}
	r.trace.Steps = append(r.trace.Steps, Step{State: r.state, Duration: time.Since(r.entered)})
	if r.span != nil {
		r.span.End()
	}
	r.state = ""
	r.span = nil
}

func (r *run) fail(err error) error {
	stage := r.state
	if errors.Is(r.ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrDeadlineExceeded) {
		err = fmt.Errorf("%w: %w", ErrDeadlineExceeded, err)
	}
	if r.span != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	}
	r.close()
	r.trace.Steps = append(r.trace.Steps, Step{State: StateFailed})

	r.o.logger.Error(logModule, "pipeline failed", r.with(map[string]interface{}{
		"stage": string(stage),
		"error": err,
	}))
	return &StageError{Stage: stage, Err: err, Trace: r.trace}
}
