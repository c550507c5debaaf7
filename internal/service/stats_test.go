package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outrexo/internal/model"
	"outrexo/internal/personalize"
)

func TestStatsOverview(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	template := seedTemplate(t, db, user.ID, "s", "b")

	campaign := seedCampaign(t, db, user.ID, template.ID, "a@x.com", "b@x.com", "c@x.com")
	email := NewEmailService(db, &fakeSender{}, sharedMetrics())
	ids := campaignLogIDs(t, db, campaign.ID)
	require.NoError(t, email.RecordOutcome(campaign.ID, ids[0], model.LogSent, ""))
	require.NoError(t, email.RecordOutcome(campaign.ID, ids[1], model.LogSent, ""))
	require.NoError(t, email.RecordOutcome(campaign.ID, ids[2], model.LogFailed, "bounced"))

	stats, err := NewStatsService(db).Overview(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Campaigns)
	assert.Equal(t, int64(1), stats.Templates)
	assert.Equal(t, int64(2), stats.EmailsSent)
	assert.Equal(t, int64(1), stats.EmailsFail)
	assert.InDelta(t, 66.66, stats.SuccessRate, 0.01)
}

func TestStatsOverviewEmptyUser(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)

	stats, err := NewStatsService(db).Overview(user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.Campaigns)
	assert.Zero(t, stats.EmailsSent)
	assert.Zero(t, stats.SuccessRate)
}

func TestRecentLogsSkipsQueuedAndForeignRows(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	other := &model.User{Name: "Bob", Email: "bob@x.com"}
	require.NoError(t, db.Create(other).Error)

	template := seedTemplate(t, db, user.ID, "s", "b")
	otherTemplate := seedTemplate(t, db, other.ID, "s", "b")

	campaign := seedCampaign(t, db, user.ID, template.ID, "a@x.com", "b@x.com")
	foreign, err := NewCampaignService(db).Create(other.ID, NewDraft().
		SetName("theirs").SetTemplate(otherTemplate.ID).
		SetContacts([]personalize.Contact{{"email": "z@x.com"}}))
	require.NoError(t, err)

	email := NewEmailService(db, &fakeSender{}, sharedMetrics())
	ids := campaignLogIDs(t, db, campaign.ID)
	require.NoError(t, email.RecordOutcome(campaign.ID, ids[0], model.LogSent, ""))
	foreignIDs := campaignLogIDs(t, db, foreign.ID)
	require.NoError(t, email.RecordOutcome(foreign.ID, foreignIDs[0], model.LogSent, ""))

	logs, err := NewStatsService(db).RecentLogs(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "a@x.com", logs[0].Recipient)
	assert.Equal(t, model.LogSent, logs[0].Status)
}
