package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outrexo/internal/model"
	"outrexo/internal/personalize"
)

func TestReconcilerHealsCounterDrift(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	template := seedTemplate(t, db, user.ID, "s", "b")
	campaign, err := NewCampaignService(db).Create(user.ID, NewDraft().
		SetName("drifted").SetTemplate(template.ID).
		SetContacts([]personalize.Contact{{"email": "a@x.com"}, {"email": "b@x.com"}, {"email": "c@x.com"}}))
	require.NoError(t, err)

	// Resolve the logs directly, as a crash between the log write and
	// the counter write would leave them.
	ids := campaignLogIDs(t, db, campaign.ID)
	require.NoError(t, db.Model(&model.EmailLog{}).Where("id = ?", ids[0]).
		Updates(map[string]interface{}{"status": model.LogSent, "sent_at": time.Now()}).Error)
	require.NoError(t, db.Model(&model.EmailLog{}).Where("id = ?", ids[1]).
		Updates(map[string]interface{}{"status": model.LogFailed, "error": "timeout"}).Error)

	reconciler := NewReconciler(db, time.Minute)
	require.NoError(t, reconciler.Reconcile())

	var got model.Campaign
	require.NoError(t, db.First(&got, campaign.ID).Error)
	assert.Equal(t, 1, got.SentCount)
	assert.Equal(t, 1, got.FailCount)
	// One log is still queued, so the campaign stays in progress.
	assert.Equal(t, model.CampaignInProgress, got.Status)
}

func TestReconcilerCompletesAbandonedCampaign(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	template := seedTemplate(t, db, user.ID, "s", "b")
	campaign, err := NewCampaignService(db).Create(user.ID, NewDraft().
		SetName("abandoned").SetTemplate(template.ID).
		SetContacts([]personalize.Contact{{"email": "a@x.com"}, {"email": "b@x.com"}}))
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.EmailLog{}).Where("campaign_id = ?", campaign.ID).
		Updates(map[string]interface{}{"status": model.LogSent, "sent_at": time.Now()}).Error)

	reconciler := NewReconciler(db, time.Minute)
	require.NoError(t, reconciler.Reconcile())

	var got model.Campaign
	require.NoError(t, db.First(&got, campaign.ID).Error)
	assert.Equal(t, 2, got.SentCount)
	assert.Equal(t, model.CampaignCompleted, got.Status)
}

func TestReconcilerLeavesFreshCampaignAlone(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	template := seedTemplate(t, db, user.ID, "s", "b")
	campaign, err := NewCampaignService(db).Create(user.ID, NewDraft().
		SetName("fresh").SetTemplate(template.ID).
		SetContacts([]personalize.Contact{{"email": "a@x.com"}}))
	require.NoError(t, err)

	reconciler := NewReconciler(db, time.Minute)
	require.NoError(t, reconciler.Reconcile())

	var got model.Campaign
	require.NoError(t, db.First(&got, campaign.ID).Error)
	assert.Zero(t, got.SentCount)
	assert.Zero(t, got.FailCount)
	assert.Equal(t, model.CampaignInProgress, got.Status)
}

func TestReconcilerStartStop(t *testing.T) {
	db := openTestDB(t)
	reconciler := NewReconciler(db, time.Hour)

	require.NoError(t, reconciler.Start())
	assert.True(t, reconciler.IsRunning())
	assert.Error(t, reconciler.Start())

	reconciler.Stop()
	assert.False(t, reconciler.IsRunning())
	reconciler.Stop()
}
