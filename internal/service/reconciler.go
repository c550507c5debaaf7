package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outrexo/internal/model"
)

// Reconciler periodically re-derives campaign counters and status from
// the log rows. It heals two gaps the send path leaves open: counter
// drift from a crash between writes, and campaigns abandoned mid-run
// that would otherwise stay IN_PROGRESS forever once all their logs are
// resolved.
type Reconciler struct {
	db        *gorm.DB
	cron      *cron.Cron
	entryID   cron.EntryID
	interval  time.Duration
	isRunning bool
	mu        sync.Mutex
}

// NewReconciler creates a reconciler that runs at the given interval.
func NewReconciler(db *gorm.DB, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Reconciler{
		db:       db,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start begins the periodic reconciliation.
func (r *Reconciler) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("reconciler is already running")
	}

	entryID, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), r.runOnce)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.entryID = entryID
	r.cron.Start()
	r.isRunning = true

	logrus.Infof("Campaign reconciler started with interval %s", r.interval)
	return nil
}

// Stop halts the reconciliation schedule.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	<-r.cron.Stop().Done()
	r.isRunning = false
	logrus.Info("Campaign reconciler stopped")
}

// IsRunning reports whether the schedule is active.
func (r *Reconciler) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}

func (r *Reconciler) runOnce() {
	if err := r.Reconcile(); err != nil {
		logrus.Errorf("Campaign reconciliation failed: %v", err)
	}
}

// Reconcile fixes one batch of in-progress campaigns. Exported so a run
// can also be triggered directly.
func (r *Reconciler) Reconcile() error {
	var campaigns []model.Campaign
	if err := r.db.Where("status = ?", model.CampaignInProgress).Find(&campaigns).Error; err != nil {
		return fmt.Errorf("failed to list in-progress campaigns: %w", err)
	}

	for _, campaign := range campaigns {
		if err := r.reconcileOne(campaign); err != nil {
			logrus.Errorf("Failed to reconcile campaign %d: %v", campaign.ID, err)
		}
	}
	return nil
}

func (r *Reconciler) reconcileOne(campaign model.Campaign) error {
	type counts struct {
		Sent   int64
		Failed int64
		Queued int64
	}
	var c counts
	err := r.db.Model(&model.EmailLog{}).
		Select(
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),0) AS sent, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),0) AS failed, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),0) AS queued",
			model.LogSent, model.LogFailed, model.LogQueued).
		Where("campaign_id = ?", campaign.ID).
		Scan(&c).Error
	if err != nil {
		return fmt.Errorf("failed to count logs: %w", err)
	}

	updates := map[string]interface{}{}
	if int(c.Sent) != campaign.SentCount {
		updates["sent_count"] = c.Sent
	}
	if int(c.Failed) != campaign.FailCount {
		updates["fail_count"] = c.Failed
	}
	if c.Queued == 0 && c.Sent+c.Failed > 0 {
		updates["status"] = model.CampaignCompleted
	}

	if len(updates) == 0 {
		return nil
	}

	logrus.Infof("Reconciling campaign %d: %v", campaign.ID, updates)
	return r.db.Model(&model.Campaign{}).Where("id = ?", campaign.ID).Updates(updates).Error
}
