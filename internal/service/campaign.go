package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"outrexo/internal/model"
)

// CampaignService owns campaign persistence: creation with its batch of
// queued logs, listing, lookup, and deletion, always scoped to the
// owning user.
type CampaignService struct {
	db *gorm.DB
}

// NewCampaignService creates a campaign service.
func NewCampaignService(db *gorm.DB) *CampaignService {
	return &CampaignService{db: db}
}

// CampaignSummary is a campaign row plus its total log count for list
// views.
type CampaignSummary struct {
	model.Campaign
	LogCount int64 `json:"log_count"`
}

// Create persists the draft as a Campaign with one QUEUED log per
// contact, all in a single transaction. The template must exist and
// belong to the caller at creation time; it is referenced transiently
// and never locked.
func (s *CampaignService) Create(userID uint, draft *CampaignDraft) (*model.Campaign, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var template model.Template
	if err := s.db.Where("id = ? AND user_id = ?", draft.TemplateID(), userID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: template %d", ErrNotFound, draft.TemplateID())
		}
		return nil, fmt.Errorf("failed to look up template: %w", err)
	}

	campaign := &model.Campaign{
		UserID: userID,
		Name:   draft.Name(),
		Status: model.CampaignInProgress,
	}
	for _, c := range draft.Contacts() {
		campaign.Logs = append(campaign.Logs, model.EmailLog{
			Recipient: c.Email(),
			Status:    model.LogQueued,
		})
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(campaign).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return campaign, nil
}

// List returns the user's campaigns newest first, each with its log
// count.
func (s *CampaignService) List(userID uint) ([]CampaignSummary, error) {
	var campaigns []model.Campaign
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	type countRow struct {
		CampaignID uint
		N          int64
	}
	var counts []countRow
	if err := s.db.Model(&model.EmailLog{}).
		Select("campaign_id, COUNT(*) AS n").
		Where("campaign_id IN (?)", s.db.Model(&model.Campaign{}).Select("id").Where("user_id = ?", userID)).
		Group("campaign_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count campaign logs: %w", err)
	}

	byID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byID[c.CampaignID] = c.N
	}

	summaries := make([]CampaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		summaries = append(summaries, CampaignSummary{Campaign: c, LogCount: byID[c.ID]})
	}
	return summaries, nil
}

// Get returns one campaign with its logs in insertion order.
func (s *CampaignService) Get(userID, campaignID uint) (*model.Campaign, error) {
	var campaign model.Campaign
	err := s.db.Where("id = ? AND user_id = ?", campaignID, userID).
		Preload("Logs", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: campaign %d", ErrNotFound, campaignID)
		}
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}
	return &campaign, nil
}

// Delete removes a campaign and its logs after an ownership check.
func (s *CampaignService) Delete(userID, campaignID uint) error {
	var campaign model.Campaign
	if err := s.db.Where("id = ? AND user_id = ?", campaignID, userID).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: campaign %d", ErrNotFound, campaignID)
		}
		return fmt.Errorf("failed to fetch campaign: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaign.ID).Delete(&model.EmailLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete campaign logs: %w", err)
		}
		if err := tx.Delete(&campaign).Error; err != nil {
			return fmt.Errorf("failed to delete campaign: %w", err)
		}
		return nil
	})
}
