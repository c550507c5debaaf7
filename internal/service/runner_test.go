package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"outrexo/internal/model"
	"outrexo/internal/personalize"
)

func newTestRunner(db *gorm.DB, sender *fakeSender) *Runner {
	email := NewEmailService(db, sender, sharedMetrics())
	return NewRunner(db, email, sharedMetrics(), 0, 0)
}

func TestRunnerResolvesEveryLog(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	template := seedTemplate(t, db, user.ID, "Quick intro, {{Name}}", "<p>Hi {{Name}}, greetings from {{Company}}.</p>")
	contacts := []personalize.Contact{
		{"email": "ann@x.com", "name": "Ann", "company": "Acme"},
		{"email": "bob@x.com", "name": "Bob"},
		{"email": "eve@x.com"},
	}
	campaign, err := NewCampaignService(db).Create(user.ID, NewDraft().
		SetName("scenario").SetTemplate(template.ID).SetContacts(contacts))
	require.NoError(t, err)

	sender := &fakeSender{failFor: map[string]error{"bob@x.com": errConnRefused}}
	runner := newTestRunner(db, sender)

	progress, err := runner.Start(user, campaign, template, contacts)
	require.NoError(t, err)
	runner.Wait()

	snap := progress.Snapshot()
	assert.True(t, snap.Done)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 2, snap.Sent)
	assert.Equal(t, 1, snap.Failed)
	assert.Zero(t, snap.Pending)
	assert.InDelta(t, 100, snap.Percent, 0.01)

	var logs []model.EmailLog
	require.NoError(t, db.Where("campaign_id = ?", campaign.ID).Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 3)
	assert.Equal(t, model.LogSent, logs[0].Status)
	assert.Equal(t, model.LogFailed, logs[1].Status)
	assert.Equal(t, model.LogSent, logs[2].Status)
	require.NotNil(t, logs[1].Error)
	assert.NotEmpty(t, *logs[1].Error)

	var got model.Campaign
	require.NoError(t, db.First(&got, campaign.ID).Error)
	assert.Equal(t, 2, got.SentCount)
	assert.Equal(t, 1, got.FailCount)
	assert.Equal(t, model.CampaignCompleted, got.Status)

	// Personalization applied per recipient, with fallbacks for missing fields.
	messages := sender.messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "Quick intro, Ann", messages[0].Subject)
	assert.Contains(t, messages[0].Body, "greetings from Acme")
	assert.Equal(t, "Quick intro, Friend", messages[1].Subject)
	assert.Contains(t, messages[1].Body, "greetings from your company")
}

func TestRunnerRejectsConcurrentRun(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	template := seedTemplate(t, db, user.ID, "s", "b")
	contacts := make([]personalize.Contact, 20)
	for i := range contacts {
		contacts[i] = personalize.Contact{"email": fmt.Sprintf("c%d@x.com", i)}
	}
	campaign, err := NewCampaignService(db).Create(user.ID, NewDraft().
		SetName("busy").SetTemplate(template.ID).SetContacts(contacts))
	require.NoError(t, err)

	email := NewEmailService(db, &fakeSender{}, sharedMetrics())
	runner := NewRunner(db, email, sharedMetrics(), 20*time.Millisecond, 40*time.Millisecond)
	defer runner.Shutdown()

	_, err = runner.Start(user, campaign, template, contacts)
	require.NoError(t, err)

	_, err = runner.Start(user, campaign, template, contacts)
	assert.ErrorIs(t, err, ErrRunInProgress)
}

func TestRunnerShutdownLeavesRemainingQueued(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	template := seedTemplate(t, db, user.ID, "s", "b")
	contacts := make([]personalize.Contact, 50)
	for i := range contacts {
		contacts[i] = personalize.Contact{"email": fmt.Sprintf("c%d@x.com", i)}
	}
	campaign, err := NewCampaignService(db).Create(user.ID, NewDraft().
		SetName("interrupted").SetTemplate(template.ID).SetContacts(contacts))
	require.NoError(t, err)

	email := NewEmailService(db, &fakeSender{}, sharedMetrics())
	runner := NewRunner(db, email, sharedMetrics(), 30*time.Millisecond, 60*time.Millisecond)

	_, err = runner.Start(user, campaign, template, contacts)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	runner.Shutdown()

	var queued int64
	require.NoError(t, db.Model(&model.EmailLog{}).
		Where("campaign_id = ? AND status = ?", campaign.ID, model.LogQueued).
		Count(&queued).Error)
	assert.Positive(t, queued)

	var got model.Campaign
	require.NoError(t, db.First(&got, campaign.ID).Error)
	assert.Equal(t, model.CampaignInProgress, got.Status)
}

func TestRunnerProgressLookup(t *testing.T) {
	db := openTestDB(t)
	runner := newTestRunner(db, &fakeSender{})
	_, ok := runner.Progress(42)
	assert.False(t, ok)
}
