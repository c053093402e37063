// Package credits implements the per-user credit ledger: balance reads,
// compare-and-swap deductions, and best-effort transaction records.
package credits

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"brandforge/internal/domain"
	"brandforge/internal/infra"
	"brandforge/internal/infra/geoip"
	"brandforge/internal/sqlinline"
)

const (
	// GenerationCost is charged for every new image.
	GenerationCost = 1
	// EditCost is charged from the second edit onward; the first edit of
	// an image is free.
	EditCost = 1

	// casAttempts bounds the deduct retry loop under concurrent spends.
	casAttempts = 3
)

// ChargeContext annotates the ledger entry for a deduction.
type ChargeContext struct {
	RequestID string
	ClientIP  string
	ImageID   string
}

// Ledger mediates all credit movement for image workflows.
type Ledger struct {
	sql    infra.SQLExecutor
	geo    geoip.CountryResolver
	logger zerolog.Logger
}

func NewLedger(sql infra.SQLExecutor, geo geoip.CountryResolver, logger zerolog.Logger) *Ledger {
	return &Ledger{sql: sql, geo: geo, logger: logger}
}

// Balance returns the user's current credit balance. A user with no ledger
// row has zero credits.
func (l *Ledger) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := l.sql.QueryRow(ctx, sqlinline.QSelectCredits, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// ChargeGeneration deducts the new-image cost.
func (l *Ledger) ChargeGeneration(ctx context.Context, userID string, cc ChargeContext) error {
	return l.deduct(ctx, userID, GenerationCost, "image_generation", cc)
}

// ChargeEdit deducts the edit cost, except that the first edit of any image
// is free. editCount is the number of edits already applied.
func (l *Ledger) ChargeEdit(ctx context.Context, userID string, editCount int, cc ChargeContext) error {
	if editCount == 0 {
		return nil
	}
	return l.deduct(ctx, userID, EditCost, "image_edit", cc)
}

// deduct runs a read-then-conditional-update loop: the update only fires
// when the balance still equals the value just read, so two concurrent
// spends cannot both succeed against the same balance. Losing the race
// re-reads and retries up to casAttempts times before giving up with
// ErrCreditConflict.
func (l *Ledger) deduct(ctx context.Context, userID string, cost int, reason string, cc ChargeContext) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		balance, err := l.Balance(ctx, userID)
		if err != nil {
			return err
		}
		if balance < cost {
			return &domain.InsufficientCreditsError{Balance: balance}
		}

		tag, err := l.sql.Exec(ctx, sqlinline.QDeductCredits, userID, balance, cost)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			l.logger.Debug().Str("user_id", userID).Int("attempt", attempt+1).
				Msg("credits: deduct lost balance race, retrying")
			continue
		}

		l.recordTransaction(ctx, userID, -cost, reason, cc)
		return nil
	}
	return domain.ErrCreditConflict
}

// recordTransaction writes the audit row. Failures are logged and swallowed:
// the deduction already happened and the caller's request must not fail over
// bookkeeping.
func (l *Ledger) recordTransaction(ctx context.Context, userID string, delta int, reason string, cc ChargeContext) {
	props := map[string]string{}
	if cc.RequestID != "" {
		props["request_id"] = cc.RequestID
	}
	if cc.ImageID != "" {
		props["image_id"] = cc.ImageID
	}
	if l.geo != nil && cc.ClientIP != "" {
		if country, err := l.geo.CountryCode(cc.ClientIP); err == nil && country != "" {
			props["country"] = country
		}
	}

	payload, err := json.Marshal(props)
	if err != nil {
		payload = []byte("{}")
	}
	if _, err := l.sql.Exec(ctx, sqlinline.QInsertCreditTransaction,
		uuid.NewString(), userID, delta, reason, string(payload)); err != nil {
		l.logger.Error().Err(err).Str("user_id", userID).Str("reason", reason).
			Msg("credits: transaction record failed")
	}
}
