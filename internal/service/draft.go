package service

import (
	"fmt"
	"strings"

	"outrexo/internal/personalize"
)

// CampaignDraft carries the state of one campaign-creation session
// through the wizard steps. It is built explicitly per session and
// discarded after Build; there is no shared draft state between
// sessions.
type CampaignDraft struct {
	name       string
	templateID uint
	contacts   []personalize.Contact
}

// NewDraft starts an empty draft.
func NewDraft() *CampaignDraft {
	return &CampaignDraft{}
}

// SetName records the campaign name step.
func (d *CampaignDraft) SetName(name string) *CampaignDraft {
	d.name = strings.TrimSpace(name)
	return d
}

// SetTemplate records the template-selection step.
func (d *CampaignDraft) SetTemplate(templateID uint) *CampaignDraft {
	d.templateID = templateID
	return d
}

// SetContacts records the upload step.
func (d *CampaignDraft) SetContacts(contacts []personalize.Contact) *CampaignDraft {
	d.contacts = contacts
	return d
}

// Validate checks the draft is launchable. Duplicate recipient addresses
// are allowed; only structurally invalid input is rejected.
func (d *CampaignDraft) Validate() error {
	if d.name == "" {
		return fmt.Errorf("%w: campaign name is required", ErrValidation)
	}
	if d.templateID == 0 {
		return fmt.Errorf("%w: template is required", ErrValidation)
	}
	if len(d.contacts) == 0 {
		return fmt.Errorf("%w: at least one contact is required", ErrValidation)
	}
	for i, c := range d.contacts {
		if !strings.Contains(c.Email(), "@") {
			return fmt.Errorf("%w: contact %d has no valid email address", ErrValidation, i+1)
		}
	}
	return nil
}

// Name returns the validated campaign name.
func (d *CampaignDraft) Name() string { return d.name }

// TemplateID returns the selected template id.
func (d *CampaignDraft) TemplateID() uint { return d.templateID }

// Contacts returns the uploaded contact list.
func (d *CampaignDraft) Contacts() []personalize.Contact { return d.contacts }
