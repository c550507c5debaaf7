package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outrexo/internal/mailer"
	metricsPkg "outrexo/internal/metrics"
	"outrexo/internal/model"
)

// ChannelSender is what EmailService needs from the mailer: one
// two-tier delivery attempt returning the channel used.
type ChannelSender interface {
	Send(ctx context.Context, user *model.User, to, subject, htmlBody string) (string, error)
}

// EmailService performs one per-recipient send attempt and records its
// outcome. The log update and the campaign counter increment happen in
// a single transaction so the two can never drift apart.
type EmailService struct {
	db      *gorm.DB
	sender  ChannelSender
	metrics *metricsPkg.Metrics
}

// NewEmailService creates an email service.
func NewEmailService(db *gorm.DB, sender ChannelSender, metrics *metricsPkg.Metrics) *EmailService {
	return &EmailService{db: db, sender: sender, metrics: metrics}
}

// SendOne attempts delivery to a single recipient and resolves the
// referenced log row. The returned channel is empty when no channel was
// configured. The delivery error is returned for the caller to count;
// it has already been recorded on the log.
func (s *EmailService) SendOne(ctx context.Context, user *model.User, to, subject, htmlBody string, campaignID, logID uint) (string, error) {
	start := time.Now()
	channel, err := s.sender.Send(ctx, user, to, subject, htmlBody)
	s.metrics.SendDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.EmailsFailed.Inc()
		if recErr := s.RecordOutcome(campaignID, logID, model.LogFailed, err.Error()); recErr != nil {
			logrus.Errorf("Failed to record FAILED outcome for log %d: %v", logID, recErr)
		}
		return channel, err
	}

	s.metrics.EmailsSent.WithLabelValues(channel).Inc()
	if recErr := s.RecordOutcome(campaignID, logID, model.LogSent, ""); recErr != nil {
		logrus.Errorf("Failed to record SENT outcome for log %d: %v", logID, recErr)
	}
	return channel, nil
}

// RecordOutcome transitions a QUEUED log to SENT or FAILED and bumps
// the matching campaign counter atomically. A log that has already been
// resolved is left untouched and the counter is not incremented, so a
// retried or replayed attempt cannot double-count.
func (s *EmailService) RecordOutcome(campaignID, logID uint, status, errMsg string) error {
	if status != model.LogSent && status != model.LogFailed {
		return fmt.Errorf("%w: outcome status must be SENT or FAILED", ErrValidation)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status": status,
			"error":  nil,
		}
		if errMsg != "" {
			updates["error"] = errMsg
		}
		if status == model.LogSent {
			updates["sent_at"] = time.Now()
		}

		result := tx.Model(&model.EmailLog{}).
			Where("id = ? AND campaign_id = ? AND status = ?", logID, campaignID, model.LogQueued).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update log: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Already resolved, or the log does not belong to the campaign.
			return nil
		}

		counter := "sent_count"
		if status == model.LogFailed {
			counter = "fail_count"
		}
		if err := tx.Model(&model.Campaign{}).
			Where("id = ?", campaignID).
			UpdateColumn(counter, gorm.Expr(counter+" + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment campaign counter: %w", err)
		}
		return nil
	})
}

// LoadUser fetches the sending user with SMTP fields for a send attempt.
func (s *EmailService) LoadUser(userID uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// IsNoChannelError reports whether the delivery failure was a missing
// configuration rather than a transport error.
func IsNoChannelError(err error) bool {
	return errors.Is(err, mailer.ErrNoChannel)
}
