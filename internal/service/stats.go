package service

import (
	"fmt"

	"gorm.io/gorm"

	"outrexo/internal/model"
)

// DashboardStats is the aggregate view for the dashboard landing page.
type DashboardStats struct {
	Campaigns   int64   `json:"campaigns"`
	EmailsSent  int64   `json:"emails_sent"`
	EmailsFail  int64   `json:"emails_failed"`
	Templates   int64   `json:"templates"`
	SuccessRate float64 `json:"success_rate"`
}

// StatsService computes dashboard aggregates from the log and campaign
// tables.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a stats service.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Overview returns the user's headline numbers.
func (s *StatsService) Overview(userID uint) (*DashboardStats, error) {
	var stats DashboardStats

	if err := s.db.Model(&model.Campaign{}).Where("user_id = ?", userID).Count(&stats.Campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to count campaigns: %w", err)
	}
	if err := s.db.Model(&model.Template{}).Where("user_id = ?", userID).Count(&stats.Templates).Error; err != nil {
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}

	type sums struct {
		Sent int64
		Fail int64
	}
	var agg sums
	if err := s.db.Model(&model.Campaign{}).
		Select("COALESCE(SUM(sent_count),0) AS sent, COALESCE(SUM(fail_count),0) AS fail").
		Where("user_id = ?", userID).
		Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("failed to sum campaign counters: %w", err)
	}
	stats.EmailsSent = agg.Sent
	stats.EmailsFail = agg.Fail

	if total := agg.Sent + agg.Fail; total > 0 {
		stats.SuccessRate = float64(agg.Sent) / float64(total) * 100
	}

	return &stats, nil
}

// RecentLogs returns the user's latest resolved log rows for the recent
// activity panel.
func (s *StatsService) RecentLogs(userID uint, limit int) ([]model.EmailLog, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var logs []model.EmailLog
	err := s.db.
		Where("campaign_id IN (?)", s.db.Model(&model.Campaign{}).Select("id").Where("user_id = ?", userID)).
		Where("status <> ?", model.LogQueued).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent logs: %w", err)
	}
	return logs, nil
}
