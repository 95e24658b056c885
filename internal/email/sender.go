// Package email sends operational notices over SMTP.
package email

import (
	"bytes"
	"fmt"
	"text/template"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Config holds SMTP settings for the sender
type Config struct {
	Host            string
	Port            int
	Username        string
	Password        string
	From            string
	OperationsEmail string
}

// Sender renders and delivers notification emails
type Sender struct {
	cfg    Config
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewSender creates a new SMTP sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

var bulkCancellationTmpl = template.Must(template.New("bulk_cancellation").Parse(
	`Xin chào,

{{.CancelledCount}} ca trực của nhân viên {{.GuardName}} trong khoảng {{.From}} - {{.To}} đã bị hủy.

Lý do: {{.Reason}}

-- GuardOps`))

var validationAlertTmpl = template.Must(template.New("validation_alert").Parse(
	`Xin chào,

Tài liệu tải lên cho hợp đồng {{.ContractNumber}} chỉ khớp {{printf "%.2f" .MatchPercentage}}% với hồ sơ lưu trữ ({{.DifferenceCount}} điểm khác biệt).

Vui lòng kiểm tra lại bản hợp đồng.

-- GuardOps`))

// BulkCancellationNotice is the data for a bulk leave-cancellation email
type BulkCancellationNotice struct {
	GuardName      string
	GuardEmail     string
	CancelledCount int
	From           string
	To             string
	Reason         string
}

// SendBulkCancellationNotice emails the guard (when an address is on file)
// and the operations inbox about a bulk cancellation
func (s *Sender) SendBulkCancellationNotice(notice BulkCancellationNotice) error {
	var body bytes.Buffer
	if err := bulkCancellationTmpl.Execute(&body, notice); err != nil {
		return fmt.Errorf("failed to render cancellation notice: %w", err)
	}

	recipients := []string{s.cfg.OperationsEmail}
	if notice.GuardEmail != "" {
		recipients = append(recipients, notice.GuardEmail)
	}

	subject := fmt.Sprintf("Hủy ca trực hàng loạt - %s", notice.GuardName)
	return s.send(recipients, subject, body.String())
}

// ValidationAlert is the data for a low-match validation email
type ValidationAlert struct {
	ContractNumber  string
	MatchPercentage float64
	DifferenceCount int
}

// SendValidationAlert emails the operations inbox when a validated document
// scores below the configured threshold
func (s *Sender) SendValidationAlert(alert ValidationAlert) error {
	var body bytes.Buffer
	if err := validationAlertTmpl.Execute(&body, alert); err != nil {
		return fmt.Errorf("failed to render validation alert: %w", err)
	}

	subject := fmt.Sprintf("Cảnh báo đối chiếu hợp đồng %s", alert.ContractNumber)
	return s.send([]string{s.cfg.OperationsEmail}, subject, body.String())
}

func (s *Sender) send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.logger.Error("Failed to send email",
			zap.Strings("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}
