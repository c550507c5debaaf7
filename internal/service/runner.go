package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	metricsPkg "outrexo/internal/metrics"
	"outrexo/internal/model"
	"outrexo/internal/personalize"
)

// Progress is the live state of one campaign send run. It exists only
// in memory for the duration of the run; the durable truth is always
// the log rows and campaign counters.
type Progress struct {
	mu     sync.Mutex
	total  int
	sent   int
	failed int
	done   bool
}

// ProgressSnapshot is the JSON-friendly view of a run's progress.
type ProgressSnapshot struct {
	Total   int     `json:"total"`
	Sent    int     `json:"sent"`
	Failed  int     `json:"failed"`
	Pending int     `json:"pending"`
	Percent float64 `json:"percent"`
	Done    bool    `json:"done"`
}

// Snapshot returns a consistent copy of the progress counters.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := ProgressSnapshot{
		Total:   p.total,
		Sent:    p.sent,
		Failed:  p.failed,
		Pending: p.total - p.sent - p.failed,
		Done:    p.done,
	}
	if p.total > 0 {
		snap.Percent = float64(p.sent+p.failed) / float64(p.total) * 100
	}
	return snap
}

func (p *Progress) record(sent bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sent {
		p.sent++
	} else {
		p.failed++
	}
}

func (p *Progress) markDone() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
}

// Runner drives a campaign's queued logs to completion. The loop is
// strictly sequential with a uniform random delay before every send, so
// at most one message is in flight per run. Per-recipient failures are
// recorded and the loop continues; there is no retry and no backoff.
type Runner struct {
	db       *gorm.DB
	email    *EmailService
	metrics  *metricsPkg.Metrics
	minDelay time.Duration
	maxDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	active map[uint]*Progress
	wg     sync.WaitGroup
}

// NewRunner creates a campaign runner. Runs outlive the HTTP request
// that starts them, so the runner owns its own lifecycle context.
func NewRunner(db *gorm.DB, email *EmailService, metrics *metricsPkg.Metrics, minDelay, maxDelay time.Duration) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		db:       db,
		email:    email,
		metrics:  metrics,
		minDelay: minDelay,
		maxDelay: maxDelay,
		ctx:      ctx,
		cancel:   cancel,
		active:   make(map[uint]*Progress),
	}
}

// Start launches a run for the campaign in a background goroutine. Only
// one run per campaign may be active at a time. The template and
// contact list travel with the request, mirroring the wizard state that
// owns them; the campaign row never stores either.
func (r *Runner) Start(user *model.User, campaign *model.Campaign, template *model.Template, contacts []personalize.Contact) (*Progress, error) {
	var logs []model.EmailLog
	if err := r.db.Where("campaign_id = ? AND status = ?", campaign.ID, model.LogQueued).
		Order("id ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load queued logs: %w", err)
	}

	r.mu.Lock()
	if existing, ok := r.active[campaign.ID]; ok && !existing.Snapshot().Done {
		r.mu.Unlock()
		return nil, ErrRunInProgress
	}
	progress := &Progress{total: len(logs)}
	r.active[campaign.ID] = progress
	r.mu.Unlock()

	r.metrics.CampaignRuns.Inc()
	r.metrics.ActiveCampaigns.Inc()
	r.wg.Add(1)

	go r.run(r.ctx, user, campaign, template, contacts, logs, progress)

	return progress, nil
}

func (r *Runner) run(ctx context.Context, user *model.User, campaign *model.Campaign, template *model.Template, contacts []personalize.Contact, logs []model.EmailLog, progress *Progress) {
	defer r.wg.Done()
	defer r.metrics.ActiveCampaigns.Dec()
	defer progress.markDone()

	logrus.Infof("Starting send run for campaign %d (%d recipients)", campaign.ID, len(logs))
	start := time.Now()

	for _, log := range logs {
		select {
		case <-ctx.Done():
			// Remaining logs stay QUEUED, same as closing the tab mid-run.
			logrus.Warnf("Send run for campaign %d cancelled with %d logs left", campaign.ID, progress.Snapshot().Pending)
			return
		case <-time.After(r.jitter()):
		}

		contact := personalize.FindContact(contacts, log.Recipient)
		subject := personalize.Render(template.Subject, contact)
		htmlBody := personalize.Render(template.Body, contact)

		if _, err := r.email.SendOne(ctx, user, log.Recipient, subject, htmlBody, campaign.ID, log.ID); err != nil {
			logrus.Warnf("Send to %s failed: %v", log.Recipient, err)
			progress.record(false)
			continue
		}
		progress.record(true)
	}

	if err := r.complete(campaign.ID); err != nil {
		logrus.Errorf("Failed to complete campaign %d: %v", campaign.ID, err)
	}

	snap := progress.Snapshot()
	logrus.Infof("Send run for campaign %d finished in %v: sent=%d failed=%d", campaign.ID, time.Since(start), snap.Sent, snap.Failed)
}

// complete marks the campaign COMPLETED once every log has been visited.
func (r *Runner) complete(campaignID uint) error {
	return r.db.Model(&model.Campaign{}).
		Where("id = ?", campaignID).
		Update("status", model.CampaignCompleted).Error
}

// jitter returns a uniformly distributed delay within the configured
// bounds.
func (r *Runner) jitter() time.Duration {
	if r.maxDelay <= r.minDelay {
		return r.minDelay
	}
	return r.minDelay + time.Duration(rand.Int63n(int64(r.maxDelay-r.minDelay)))
}

// Progress returns the live progress for a campaign run, if one has
// been started this process.
func (r *Runner) Progress(campaignID uint) (ProgressSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.active[campaignID]
	if !ok {
		return ProgressSnapshot{}, false
	}
	return p.Snapshot(), true
}

// Shutdown cancels any in-flight runs and waits for them to exit.
// Unvisited logs stay QUEUED for the reconciler or a later manual run.
func (r *Runner) Shutdown() {
	r.cancel()
	r.wg.Wait()
}

// Wait blocks until all in-flight runs have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
