package usecase

import (
	"context"
	"log/slog"
	"time"

	"restauReserva/internal/modules/appstate/application/port"
)

// Operation names a store operation in the error policy table and in metrics.
type Operation string

const (
	OpLoadRestaurants       Operation = "loadRestaurants"
	OpAddRestaurant         Operation = "addRestaurant"
	OpUpdateRestaurant      Operation = "updateRestaurant"
	OpDeleteRestaurant      Operation = "deleteRestaurant"
	OpLoadReservations      Operation = "loadReservations"
	OpCreateReservation     Operation = "createReservation"
	OpFindReservation       Operation = "findReservationByDniAndCode"
	OpUpdateReservationDate Operation = "updateReservationDate"
	OpDeleteReservation     Operation = "deleteReservation"
)

// Policy decides what a failed operation does with its error.
type Policy int

const (
	// PolicySwallow logs the failure and reports success with an empty result.
	PolicySwallow Policy = iota
	// PolicyPropagate returns the failure to the caller untouched.
	PolicyPropagate
)

func (p Policy) String() string {
	if p == PolicyPropagate {
		return "propagate"
	}
	return "swallow"
}

const (
	OutcomeOK        = "ok"
	OutcomeSwallowed = "swallowed"
	OutcomeFailed    = "failed"
)

// DefaultPolicies is the error policy of the store. Admin-side restaurant operations and the
// customer lookup are best effort; reservation writes surface the server message to the customer.
func DefaultPolicies() map[Operation]Policy {
	return map[Operation]Policy{
		OpLoadRestaurants:       PolicySwallow,
		OpAddRestaurant:         PolicySwallow,
		OpUpdateRestaurant:      PolicySwallow,
		OpDeleteRestaurant:      PolicySwallow,
		OpLoadReservations:      PolicySwallow,
		OpFindReservation:       PolicySwallow,
		OpCreateReservation:     PolicyPropagate,
		OpUpdateReservationDate: PolicyPropagate,
		OpDeleteReservation:     PolicyPropagate,
	}
}

// Option customizes a Store.
type Option func(*Store)

// WithPolicy overrides the policy of one operation.
func WithPolicy(op Operation, policy Policy) Option {
	return func(s *Store) { s.policies[op] = policy }
}

func WithNotifier(notifier port.ChangeNotifier) Option {
	return func(s *Store) { s.notifier = notifier }
}

func WithRecorder(recorder port.OperationRecorder) Option {
	return func(s *Store) { s.recorder = recorder }
}

// WithClock replaces the clock used for event timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Policy returns the policy applied to op.
func (s *Store) Policy(op Operation) Policy {
	if policy, ok := s.policies[op]; ok {
		return policy
	}
	return PolicyPropagate
}

// settle records the outcome of op and applies its policy to err.
func (s *Store) settle(_ context.Context, op Operation, started time.Time, err error) error {
	elapsed := s.now().Sub(started)
	if err == nil {
		s.observe(op, OutcomeOK, elapsed)
		return nil
	}
	if s.Policy(op) == PolicySwallow {
		s.observe(op, OutcomeSwallowed, elapsed)
		slog.Error("store operation failed", slog.String("operation", string(op)), slog.Any("error", err))
		return nil
	}
	s.observe(op, OutcomeFailed, elapsed)
	slog.Warn("store operation failed", slog.String("operation", string(op)), slog.Any("error", err))
	return err
}

func (s *Store) observe(op Operation, outcome string, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveOperation(string(op), outcome, elapsed)
}
