package usage

import (
	"context"
	"log/slog"
)

// Status values reported to callers.
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// Report is the customer-facing view of a ledger.
type Report struct {
	UserID     string `json:"user_id"`
	Used       int64  `json:"used"`
	UsageLimit int64  `json:"usage_limit"`
	Remaining  int64  `json:"remaining"`
	Status     string `json:"status"`
}

// ResetResult is the admin-facing confirmation of a reset.
type ResetResult struct {
	UserID     string `json:"user_id"`
	UsageLimit int64  `json:"usage_limit"`
	Used       int64  `json:"used"`
	Status     string `json:"status"`
}

// Service exposes ledger reads and the admin reset.
type Service struct {
	ledgers Store
	log     *slog.Logger
}

func NewService(ledgers Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{ledgers: ledgers, log: log}
}

// Status returns the current consumption report for a user.
func (s *Service) Status(ctx context.Context, userID string) (*Report, error) {
	ledger, err := s.ledgers.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := StatusActive
	if ledger.Exhausted() {
		status = StatusBlocked
	}
	return &Report{
		UserID:     ledger.UserID,
		Used:       ledger.Used,
		UsageLimit: ledger.UsageLimit,
		Remaining:  ledger.Remaining(),
		Status:     status,
	}, nil
}

// Reset zeroes the used counter and clears the blocked latch. Resetting an
// already-active ledger is a no-op other than re-zeroing used.
func (s *Service) Reset(ctx context.Context, userID string) (*ResetResult, error) {
	ledger, err := s.ledgers.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.ledgers.Reset(ctx, userID); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "usage reset", slog.String("user_id", userID))

	return &ResetResult{
		UserID:     userID,
		UsageLimit: ledger.UsageLimit,
		Used:       0,
		Status:     StatusActive,
	}, nil
}
