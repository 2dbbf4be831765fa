// Package generation turns a transcript into structured podcast assets. Each
// step makes one structured-completion call and always yields a value that
// satisfies its schema: a model answer, a partial fallback built from the
// transcript, or an explicit error fallback.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"podcaster/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// CompletionRequest is a single structured-completion call.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       map[string]any
}

// Completion is the raw model answer.
type Completion struct {
	Content string
	Model   string
}

// Completer is the outbound structured-completion service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// Source records where a step result came from.
type Source string

const (
	SourceModel           Source = "model"
	SourcePartialFallback Source = "partial_fallback"
	SourceErrorFallback   Source = "error_fallback"
)

// Outcome is the typed result of a step.
type Outcome[T any] struct {
	Value  T
	Source Source
	Reason string
}

// Result is the type-erased Outcome returned through the Step interface.
type Result struct {
	Job    domain.Job `json:"job"`
	Value  any        `json:"value"`
	Source Source     `json:"source"`
	Reason string     `json:"reason,omitempty"`
}

// Fallback reports whether the value was not produced by the model.
func (r Result) Fallback() bool {
	return r.Source != SourceModel
}

// Step generates one asset kind. Generate never fails.
type Step interface {
	Job() domain.Job
	Generate(ctx context.Context, transcript domain.Transcript) Result
}

// Options configures every step built by NewSteps.
type Options struct {
	Model  string
	Logger *zerolog.Logger
	// Concurrency bounds Registry.RunAll; zero means one goroutine per job.
	Concurrency int
}

func (o Options) model() string {
	if m := strings.TrimSpace(o.Model); m != "" {
		return m
	}
	return DefaultModel
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// definition describes one asset kind: how to prompt for it, the schema the
// answer must meet and the values used when the model cannot deliver.
type definition[T any] struct {
	job         domain.Job
	schemaName  string
	schema      map[string]any
	system      string
	buildPrompt func(domain.Transcript) string
	partial     func(domain.Transcript) T
	failed      func() T
}

// TypedStep runs a definition against a Completer.
type TypedStep[T any] struct {
	def       definition[T]
	completer Completer
	model     string
	logger    zerolog.Logger
}

func newTypedStep[T any](def definition[T], completer Completer, opts Options) *TypedStep[T] {
	return &TypedStep[T]{
		def:       def,
		completer: completer,
		model:     opts.model(),
		logger:    opts.logger().With().Str("job", string(def.job)).Logger(),
	}
}

func (s *TypedStep[T]) Job() domain.Job {
	return s.def.job
}

// Prompt returns the user prompt the step sends for transcript.
func (s *TypedStep[T]) Prompt(transcript domain.Transcript) string {
	return s.def.buildPrompt(transcript)
}

// Run is Generate with the concrete value type.
func (s *TypedStep[T]) Run(ctx context.Context, transcript domain.Transcript) Outcome[T] {
	return run(ctx, s.completer, s.model, s.logger, s.def, transcript)
}

func (s *TypedStep[T]) Generate(ctx context.Context, transcript domain.Transcript) Result {
	out := s.Run(ctx, transcript)
	return Result{Job: s.def.job, Value: out.Value, Source: out.Source, Reason: out.Reason}
}

func run[T any](ctx context.Context, completer Completer, model string, logger zerolog.Logger, def definition[T], transcript domain.Transcript) (out Outcome[T]) {
	failed := func(reason string, err error) Outcome[T] {
		logger.Error().Err(err).Str("reason", reason).Msg("generation failed, using error fallback")
		return Outcome[T]{Value: def.failed(), Source: SourceErrorFallback, Reason: reason}
	}
	defer func() {
		if rec := recover(); rec != nil {
			out = failed("panic", fmt.Errorf("panic: %v", rec))
		}
	}()

	if completer == nil {
		return failed("completer_unavailable", fmt.Errorf("no completer configured"))
	}
	resp, err := completer.Complete(ctx, CompletionRequest{
		Model:        model,
		SystemPrompt: def.system,
		UserPrompt:   def.buildPrompt(transcript),
		SchemaName:   def.schemaName,
		Schema:       def.schema,
	})
	if err != nil {
		return failed("complete", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		logger.Warn().Str("reason", "empty_response").Msg("model returned no content, using partial fallback")
		return Outcome[T]{Value: def.partial(transcript), Source: SourcePartialFallback, Reason: "empty_response"}
	}
	parsed, err := parseModelPayload[T](resp.Content)
	if err != nil {
		return failed("parse_payload", err)
	}
	if err := validateValue(parsed); err != nil {
		return failed("validate", err)
	}
	return Outcome[T]{Value: parsed, Source: SourceModel}
}
