package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"outrexo/internal/model"
)

// TemplateService owns template CRUD, scoped to the owning user.
type TemplateService struct {
	db *gorm.DB
}

// NewTemplateService creates a template service.
func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// Create persists a new template.
func (s *TemplateService) Create(userID uint, name, subject, body string) (*model.Template, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: name, subject and body are required", ErrValidation)
	}

	template := &model.Template{
		UserID:  userID,
		Name:    name,
		Subject: subject,
		Body:    body,
	}
	if err := s.db.Create(template).Error; err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

// List returns the user's templates, most recently updated first.
func (s *TemplateService) List(userID uint) ([]model.Template, error) {
	var templates []model.Template
	if err := s.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// Get returns one template after an ownership check.
func (s *TemplateService) Get(userID, templateID uint) (*model.Template, error) {
	var template model.Template
	if err := s.db.Where("id = ? AND user_id = ?", templateID, userID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: template %d", ErrNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}
	return &template, nil
}

// Update rewrites a template's fields.
func (s *TemplateService) Update(userID, templateID uint, name, subject, body string) (*model.Template, error) {
	template, err := s.Get(userID, templateID)
	if err != nil {
		return nil, err
	}

	template.Name = name
	template.Subject = subject
	template.Body = body
	if err := s.db.Save(template).Error; err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

// Delete removes a template. Campaigns launched with it keep their
// already-created logs.
func (s *TemplateService) Delete(userID, templateID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", templateID, userID).Delete(&model.Template{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: template %d", ErrNotFound, templateID)
	}
	return nil
}
