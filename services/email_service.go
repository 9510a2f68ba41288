package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// emailSender is the part of the Resend client the service uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService delivers invitation emails through Resend. Without an API
// key it only logs what it would have sent.
type EmailService struct {
	config  *config.EmailConfig
	sender  emailSender
	tmpl    *template.Template
	metrics *EmailMetrics
}

var _ types.EmailService = (*EmailService)(nil)

var invitationTemplate = template.Must(template.New("invitation").Parse(invitationEmailTemplate))

// requiredInvitationFields must be present in EmailData.TemplateData.
var requiredInvitationFields = []string{"TripTitle", "City", "Country", "InvitationURL"}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress, "enabled", cfg.Enabled())

	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}
	reg.MustRegister(metrics.sendLatency, metrics.errorCount, metrics.sentCount)

	s := &EmailService{
		config:  cfg,
		tmpl:    invitationTemplate,
		metrics: metrics,
	}
	if cfg.Enabled() {
		s.sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return s
}

func (s *EmailService) SendInvitationEmail(ctx context.Context, data types.EmailData) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	for _, field := range requiredInvitationFields {
		if _, ok := data.TemplateData[field]; !ok {
			s.metrics.errorCount.Inc()
			err := fmt.Errorf("missing required template field: %s", field)
			log.Errorw("Invalid template data", "error", err)
			return err
		}
	}

	var htmlContent bytes.Buffer
	if err := s.tmpl.Execute(&htmlContent, data.TemplateData); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute email template", "error", err)
		return fmt.Errorf("failed to execute template: %w", err)
	}

	if s.sender == nil {
		log.Infow("Email delivery disabled, skipping send",
			"to", logger.MaskEmail(data.To), "subject", data.Subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{data.To},
		Subject: data.Subject,
		Html:    htmlContent.String(),
	}

	if _, err := s.sender.SendWithContext(ctx, params); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"to", logger.MaskEmail(data.To),
			"subject", data.Subject)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent", "to", logger.MaskEmail(data.To), "subject", data.Subject)
	return nil
}

const invitationEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>You're invited to {{.TripTitle}}</title>
    <style>
        body { font-family: sans-serif; background-color: #f7f7f7; color: #333333; margin: 0; padding: 20px; text-align: center; }
        .container { max-width: 600px; margin: 20px auto; background-color: #ffffff; padding: 30px; border-radius: 12px; }
        h1 { color: #F46315; font-size: 26px; margin-bottom: 20px; }
        p { font-size: 16px; line-height: 1.6; margin-bottom: 20px; }
        .message { font-style: italic; color: #555555; }
        .button { display: inline-block; padding: 12px 24px; font-weight: bold; text-decoration: none; background-color: #F46315; color: #ffffff; border-radius: 8px; }
        .link { margin-top: 20px; font-size: 14px; color: #777777; word-break: break-all; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Join the trip "{{.TripTitle}}"</h1>
        <p>{{.City}}, {{.Country}}{{if .StartAt}} &middot; {{.StartAt}} to {{.EndAt}}{{end}}</p>
        {{if .Message}}<p class="message">"{{.Message}}"</p>{{end}}
        <p>
            <a href="{{.InvitationURL}}" class="button">See the invitation</a>
        </p>
        <p class="link">
            Or copy this link:<br/>
            {{.InvitationURL}}
        </p>
    </div>
</body>
</html>`
