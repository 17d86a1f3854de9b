package submit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-formblock/pkg/cms"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/slug"
)

// DefaultLoadingDelay defers the loading flag so fast responses never show
// it.
const DefaultLoadingDelay = time.Second

// Default user-visible error messages.
const (
	MessageGeneric             = "Something went wrong."
	MessageInternalServerError = "Internal Server Error"
)

// ErrInFlight is returned when Submit is called while a submission of the
// same session is still running.
var ErrInFlight = errors.New("submit: submission already in flight")

// Transport performs the single network call of a submission.
type Transport interface {
	SubmitForm(ctx context.Context, req cms.SubmissionRequest) (cms.SubmissionResponse, error)
}

// Navigator performs the client-side transition to a redirect target.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string) error

func (f NavigatorFunc) Navigate(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Observer receives a snapshot after every state change. Observers run with
// the session locked and must not call back into the session.
type Observer func(UIState)

// Messages overrides the fallback error texts.
type Messages struct {
	Generic             string
	InternalServerError string
}

// Option configures a Session.
type Option func(*Session)

// WithLoadingDelay overrides DefaultLoadingDelay.
func WithLoadingDelay(delay time.Duration) Option {
	return func(s *Session) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithClock injects the clock scheduling the loading flag.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithNavigator sets the redirect navigator.
func WithNavigator(nav Navigator) Option {
	return func(s *Session) {
		s.navigator = nav
	}
}

// WithSlugFormatter sets the formatter resolving reference redirects.
func WithSlugFormatter(formatter slug.Formatter) Option {
	return func(s *Session) {
		if formatter != nil {
			s.slugs = formatter
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMessages overrides error texts. Empty entries keep their defaults.
func WithMessages(messages Messages) Option {
	return func(s *Session) {
		if strings.TrimSpace(messages.Generic) != "" {
			s.messages.Generic = messages.Generic
		}
		if strings.TrimSpace(messages.InternalServerError) != "" {
			s.messages.InternalServerError = messages.InternalServerError
		}
	}
}

// WithObserver registers an observer.
func WithObserver(observer Observer) Option {
	return func(s *Session) {
		if observer != nil {
			s.observers = append(s.observers, observer)
		}
	}
}

// Session is the submission state machine of one form block mount. State is
// only mutated by Submit.
type Session struct {
	form      model.FormDefinition
	transport Transport
	clock     clockwork.Clock
	delay     time.Duration
	navigator Navigator
	slugs     slug.Formatter
	logger    *slog.Logger
	messages  Messages
	observers []Observer

	mu       sync.Mutex
	state    UIState
	inFlight bool
}

// NewSession creates an idle session for form.
func NewSession(form model.FormDefinition, transport Transport, opts ...Option) *Session {
	s := &Session{
		form:      form,
		transport: transport,
		clock:     clockwork.NewRealClock(),
		delay:     DefaultLoadingDelay,
		slugs:     slug.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		messages: Messages{
			Generic:             MessageGeneric,
			InternalServerError: MessageInternalServerError,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Session) State() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Submit sends one validated payload. The returned state is the terminal
// state of this submission; the only error is ErrInFlight.
func (s *Session) Submit(ctx context.Context, payload model.SubmissionPayload) (UIState, error) {
	s.mu.Lock()
	if s.inFlight {
		snapshot := s.state.clone()
		s.mu.Unlock()
		return snapshot, ErrInFlight
	}
	s.inFlight = true
	s.state.Error = nil
	s.notifyLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if payload == nil {
		payload = model.SubmissionPayload{}
	}

	// completed is guarded by s.mu; once set the timer callback is a no-op.
	completed := false
	timer := s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if completed {
			return
		}
		s.state.Loading = true
		s.notifyLocked()
	})

	resp, err := s.transport.SubmitForm(ctx, cms.SubmissionRequest{
		Form:           s.form.ID,
		SubmissionData: payload,
	})

	s.mu.Lock()
	completed = true
	timer.Stop()

	if err != nil {
		s.logger.Warn("form submission failed",
			slog.String("form", s.form.ID),
			slog.Any("error", err),
		)
		s.state.Loading = false
		s.state.Error = &ErrorState{Message: s.messages.Generic}
		s.notifyLocked()
		snapshot := s.state.clone()
		s.mu.Unlock()
		return snapshot, nil
	}

	if resp.Failed() {
		status := strings.TrimSpace(string(resp.Status))
		if status == "" {
			status = strconv.Itoa(resp.StatusCode)
		}
		message := resp.FirstMessage()
		if message == "" {
			message = s.messages.InternalServerError
		}
		s.logger.Info("form submission rejected",
			slog.String("form", s.form.ID),
			slog.Int("status", resp.StatusCode),
			slog.String("message", message),
		)
		s.state.Loading = false
		s.state.Error = &ErrorState{Status: status, Message: message, Fields: resp.FieldErrors()}
		s.notifyLocked()
		snapshot := s.state.clone()
		s.mu.Unlock()
		return snapshot, nil
	}

	s.state.Loading = false
	s.state.Submitted = true
	s.notifyLocked()
	s.mu.Unlock()

	if s.form.ConfirmationType == model.ConfirmationRedirect && s.form.Redirect != nil {
		s.redirect(ctx)
	}
	return s.State(), nil
}

func (s *Session) redirect(ctx context.Context) {
	target := s.resolveRedirect(ctx, *s.form.Redirect)
	if target == "" {
		s.logger.Debug("redirect target unresolved", slog.String("form", s.form.ID))
		return
	}

	s.mu.Lock()
	s.state.Redirect = target
	s.notifyLocked()
	s.mu.Unlock()

	if s.navigator == nil {
		return
	}
	if err := s.navigator.Navigate(ctx, target); err != nil {
		s.logger.Warn("redirect navigation failed",
			slog.String("form", s.form.ID),
			slog.String("target", target),
			slog.Any("error", err),
		)
	}
}

// resolveRedirect returns the URL for redirect, or "" when none resolves.
func (s *Session) resolveRedirect(ctx context.Context, redirect model.Redirect) string {
	switch redirect.Type {
	case model.RedirectCustom:
		return strings.TrimSpace(redirect.URL)
	case model.RedirectReference:
		if redirect.Reference == nil {
			return ""
		}
		target, err := s.slugs.Format(ctx, *redirect.Reference)
		if err != nil {
			s.logger.Debug("redirect reference not formatted",
				slog.String("form", s.form.ID),
				slog.Any("error", err),
			)
			return ""
		}
		return target
	}
	return ""
}

func (s *Session) notifyLocked() {
	if len(s.observers) == 0 {
		return
	}
	snapshot := s.state.clone()
	for _, observer := range s.observers {
		observer(snapshot)
	}
}
