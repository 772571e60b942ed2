package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/notifycsc/notify-csc/internal/core"
)

var digestTemplate = template.Must(template.New("digest").Parse(`<h2>Notify CSC daily expiry digest</h2>
<p>{{.Date}}</p>
<table cellpadding="6" border="1" style="border-collapse:collapse">
<tr><td>Active policies</td><td>{{.Stats.TotalActive}}</td></tr>
<tr><td>Expiring in 0-7 days</td><td>{{.Stats.ExpiringSoon}}</td></tr>
<tr><td>Expiring in 8-15 days</td><td>{{.Stats.ExpiringWarning}}</td></tr>
<tr><td>Expiring in 16-30 days</td><td>{{.Stats.ExpiringUpcoming}}</td></tr>
<tr><td>Expired</td><td>{{.Stats.TotalExpired}}</td></tr>
</table>`))

// DigestJob e-mails the dashboard statistics to every approved admin on a
// cron schedule.
type DigestJob struct {
	schedule   string
	insurances core.InsuranceService
	users      core.UserService
	mailer     core.Mailer
	log        *slog.Logger
	clock      func() time.Time
}

func NewDigestJob(schedule string, insurances core.InsuranceService, users core.UserService, mailer core.Mailer, log *slog.Logger) *DigestJob {
	return &DigestJob{
		schedule:   schedule,
		insurances: insurances,
		users:      users,
		mailer:     mailer,
		log:        log.With("worker", "digest"),
		clock:      time.Now,
	}
}

func (j *DigestJob) Name() string { return "digest" }

// Start runs the cron scheduler until ctx is cancelled. An invalid schedule
// is logged and the job stays idle.
func (j *DigestJob) Start(ctx context.Context) {
	c := cron.New()
	if _, err := c.AddFunc(j.schedule, func() {
		if err := j.Run(ctx); err != nil {
			j.log.Error("digest failed", "err", err)
		}
	}); err != nil {
		j.log.Error("invalid digest schedule", "schedule", j.schedule, "err", err)
		return
	}

	j.log.Info("digest scheduled", "schedule", j.schedule)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	j.log.Info("digest stopped")
}

// Run sends one digest immediately.
func (j *DigestJob) Run(ctx context.Context) error {
	admins, err := j.users.List(ctx, core.UserFilter{Role: core.RoleAdmin, Status: core.UserStatusApproved})
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	if len(admins) == 0 {
		j.log.Info("digest skipped, no approved admins")
		return nil
	}

	stats, err := j.insurances.DashboardStatistics(ctx)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	date := j.clock().Format("Monday, 02 Jan 2006")
	if err := digestTemplate.Execute(&body, struct {
		Date  string
		Stats core.DashboardStats
	}{date, stats}); err != nil {
		return fmt.Errorf("render digest: %w", err)
	}

	to := make([]string, 0, len(admins))
	for _, a := range admins {
		to = append(to, a.Email)
	}
	if err := j.mailer.SendMail(ctx, to, "Insurance expiry digest - "+date, body.String()); err != nil {
		return err
	}

	j.log.Info("digest sent", "recipients", len(to), "expiring_soon", stats.ExpiringSoon)
	return nil
}
