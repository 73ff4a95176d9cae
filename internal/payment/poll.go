package payment

import (
	"context"
	"log"
	"time"

	"gravity_back_end/internal/models"
)

// PollStatus interroge la passerelle jusqu'à un statut final.
// Après maxAttempts lectures non finales, le dernier statut connu est
// retourné avec ErrPollExhausted.
func PollStatus(ctx context.Context, gw Gateway, id string, interval time.Duration, maxAttempts int) (*models.PaymentStatus, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var (
		last    *models.PaymentStatus
		lastErr error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		st, err := gw.GetPayment(ctx, id)
		if err != nil {
			lastErr = err
			log.Printf("⚠️ Lecture statut %s (tentative %d/%d): %v", id, attempt, maxAttempts, err)
		} else {
			last, lastErr = st, nil
			if IsTerminal(st.Status) {
				return st, nil
			}
		}

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(interval):
		}
	}

	if last == nil && lastErr != nil {
		return nil, lastErr
	}
	return last, ErrPollExhausted
}
