package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/dkempf/fintrack/internal/models"
	"github.com/dkempf/fintrack/internal/repository/memstore"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to       string
	username string
	income   float64
	expense  float64
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) SendMonthlySummary(to, username string, month time.Time, income, expense float64) error {
	f.sent = append(f.sent, sentMail{to: to, username: username, income: income, expense: expense})
	return nil
}

func TestRunMonthlySummary(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	active := &models.User{Username: "jonas", Email: "jonas@x.com"}
	idle := &models.User{Username: "katrin", Email: "katrin@x.com"}
	require.NoError(t, store.CreateUser(ctx, active))
	require.NoError(t, store.CreateUser(ctx, idle))

	require.NoError(t, store.CreateTransaction(ctx, &models.Transaction{
		Slug: "txn-1-1", UserID: active.ID, Type: models.TransactionTypeIncome, Amount: 2500,
	}))
	require.NoError(t, store.CreateTransaction(ctx, &models.Transaction{
		Slug: "txn-1-2", UserID: active.ID, Type: models.TransactionTypeExpense, Amount: 900,
	}))

	mailer := &fakeMailer{}
	scheduler := NewScheduler(store, mailer, logger)
	scheduler.RunMonthlySummary(ctx)

	// Users without activity get no mail
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "jonas@x.com", mailer.sent[0].to)
	assert.Equal(t, 2500.0, mailer.sent[0].income)
	assert.Equal(t, 900.0, mailer.sent[0].expense)
}
