package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	metricsPkg "outrexo/internal/metrics"
	"outrexo/internal/model"
)

var (
	metricsOnce sync.Once
	testMetrics *metricsPkg.Metrics
)

// sharedMetrics returns a process-wide Metrics instance; promauto
// registers with the default registry and a second NewMetrics would
// panic.
func sharedMetrics() *metricsPkg.Metrics {
	metricsOnce.Do(func() {
		testMetrics = metricsPkg.NewMetrics()
	})
	return testMetrics
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Account{},
		&model.Template{},
		&model.Campaign{},
		&model.EmailLog{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{Name: "Ann", Email: "owner@x.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTemplate(t *testing.T, db *gorm.DB, userID uint, subject, body string) *model.Template {
	t.Helper()
	template := &model.Template{UserID: userID, Name: "outreach", Subject: subject, Body: body}
	require.NoError(t, db.Create(template).Error)
	return template
}

// fakeSender records every message and fails the recipients listed in
// failFor.
type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]error
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeSender) Send(ctx context.Context, user *model.User, to, subject, htmlBody string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return "smtp", err
	}
	f.sent = append(f.sent, sentMessage{To: to, Subject: subject, Body: htmlBody})
	return "oauth", nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

var errConnRefused = errors.New("dial tcp: connection refused")
