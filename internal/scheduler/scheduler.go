package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"ETFScreener/internal/notifier"
	"ETFScreener/internal/service"
)

// summaryTop is how many of the most liquid funds a summary lists.
const summaryTop = 10

// Scheduler keeps the cached report warm and pushes run summaries.
type Scheduler struct {
	Cron     *cron.Cron
	Service  *service.ReportService
	Notifier notifier.Notifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. A nil notifier disables summaries.
func NewScheduler(ctx context.Context, svc *service.ReportService, n notifier.Notifier) *Scheduler {
	if n == nil {
		n = notifier.NoopNotifier{}
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Service:  svc,
		Notifier: n,
		Ctx:      ctx,
	}
}

// RegisterRefresh schedules the batch refresh.
func (s *Scheduler) RegisterRefresh(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh immediately (for manual trigger / run_on_start).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled refresh")
	res, err := s.Service.Refresh(s.Ctx)
	if err != nil {
		if s.Ctx.Err() != nil {
			return
		}
		log.Printf("[ERROR] scheduled refresh: %v", err)
		s.trySend(notifier.FormatBatchError(err))
		return
	}
	s.trySend(notifier.FormatBatchSummary(res, summaryTop))
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch strings.ToLower(fields[0]) {
	case "/refresh":
		s.refreshTask()
		return ""
	case "/status":
		res, ok := s.Service.Latest()
		if !ok {
			return "No batch has completed yet."
		}
		return notifier.FormatBatchSummary(res, summaryTop)
	case "/etf":
		if len(fields) < 2 {
			return "Usage: /etf TICKER"
		}
		rec, ok := s.Service.Lookup(fields[1])
		if !ok {
			return fmt.Sprintf("%s is not in the latest batch.", strings.ToUpper(fields[1]))
		}
		return notifier.FormatRecord(rec)
	default:
		return "Commands:\n• /status\n• /refresh\n• /etf TICKER"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
