package jobs

import (
	"context"
	"time"

	"github.com/dkempf/fintrack/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Store is the persistence surface the summary job reads from.
type Store interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	MonthlyTotals(ctx context.Context, userID int64, year int, month int) (income, expense float64, err error)
}

// Mailer delivers the summary mail.
type Mailer interface {
	SendMonthlySummary(to, username string, month time.Time, income, expense float64) error
}

// Scheduler runs periodic background jobs
type Scheduler struct {
	cron   *cron.Cron
	store  Store
	mailer Mailer
	log    *logrus.Logger
}

// NewScheduler initializes the job scheduler
func NewScheduler(store Store, mailer Mailer, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		mailer: mailer,
		log:    log,
	}
}

// Start registers the jobs and starts the scheduler in its own goroutine.
func (s *Scheduler) Start() error {
	// 06:00 on the first day of each month
	if _, err := s.cron.AddFunc("0 6 1 * *", func() {
		s.RunMonthlySummary(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Job scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunMonthlySummary mails every user their income/expense totals for the
// previous month. Per-user failures are logged and do not stop the run.
func (s *Scheduler) RunMonthlySummary(ctx context.Context) {
	prev := time.Now().AddDate(0, -1, 0)
	year, month := prev.Year(), int(prev.Month())

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.log.Errorf("Monthly summary: failed to list users: %v", err)
		return
	}

	for _, user := range users {
		income, expense, err := s.store.MonthlyTotals(ctx, user.ID, year, month)
		if err != nil {
			s.log.Errorf("Monthly summary: totals for user %d: %v", user.ID, err)
			continue
		}
		if income == 0 && expense == 0 {
			continue
		}
		monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		if err := s.mailer.SendMonthlySummary(user.Email, user.Username, monthStart, income, expense); err != nil {
			s.log.Errorf("Monthly summary: mail to %s: %v", user.Email, err)
		}
	}
	s.log.Infof("Monthly summary completed for %d users", len(users))
}
