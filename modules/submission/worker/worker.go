package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	"community-calendar/core/config"
	"community-calendar/core/logger"
	"community-calendar/core/queue"

	"github.com/hibiken/asynq"
)

// Run starts the asynq consumer that mails guest submissions to the admin.
// It blocks until the server is stopped.
func Run(cfg *config.Config) error {
	srv := asynq.NewServer(queue.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: 2,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeSubmissionEmail, func(ctx context.Context, t *asynq.Task) error {
		return handleSubmissionEmail(ctx, t, cfg.Mail)
	})

	logger.Info("MailWorker starting", "smtp_host", cfg.Mail.Host)
	return srv.Run(mux)
}

func handleSubmissionEmail(_ context.Context, t *asynq.Task, mail config.MailConfig) error {
	var payload queue.SubmissionEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode submission payload: %w", err)
	}
	if mail.AdminEmail == "" {
		logger.Warn("MailWorker:NoAdminEmail", "event", payload.EventName)
		return nil
	}

	body := buildSubmissionEmail(mail, payload)
	addr := fmt.Sprintf("%s:%d", mail.Host, mail.Port)

	var auth smtp.Auth
	if mail.Username != "" {
		auth = smtp.PlainAuth("", mail.Username, mail.Password, mail.Host)
	}

	if err := smtp.SendMail(addr, auth, mail.From, []string{mail.AdminEmail}, body); err != nil {
		logger.Error("MailWorker:Send", err)
		return err
	}

	logger.Info("MailWorker:Sent", "event", payload.EventName, "to", mail.AdminEmail)
	return nil
}

func buildSubmissionEmail(mail config.MailConfig, p queue.SubmissionEmailPayload) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", mail.From)
	fmt.Fprintf(&b, "To: %s\r\n", mail.AdminEmail)
	fmt.Fprintf(&b, "Subject: New event submission: %s\r\n", p.EventName)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	fmt.Fprintf(&b, "Event: %s\n", p.EventName)
	fmt.Fprintf(&b, "Submitted by: %s\n", p.SubmitterName)
	if p.SubmitterEmail != "" {
		fmt.Fprintf(&b, "Contact: %s\n", p.SubmitterEmail)
	}
	if p.EventLink != "" {
		fmt.Fprintf(&b, "Link: %s\n", p.EventLink)
	}
	fmt.Fprintf(&b, "\n%s\n", p.EventDescription)
	return []byte(b.String())
}
