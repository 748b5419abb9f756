// Package mailer gửi email thông báo cho chủ dự án khi có yêu cầu duyệt mới.
// Gửi best-effort: SMTP chưa cấu hình hoặc gửi lỗi không làm hỏng request.
package mailer

import (
	"fmt"

	"film_studio/config"
	"film_studio/internal/logger"

	"gopkg.in/gomail.v2"
)

// Mailer gửi email qua SMTP theo cấu hình hệ thống
type Mailer struct {
	host        string
	port        int
	user        string
	password    string
	from        string
	frontendURL string
}

// NewMailer tạo Mailer từ cấu hình hệ thống
func NewMailer(cfg *config.Configuration) *Mailer {
	return &Mailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		user:        cfg.SMTPUser,
		password:    cfg.SMTPPassword,
		from:        cfg.SMTPFrom,
		frontendURL: cfg.FrontendURL,
	}
}

// Enabled kiểm tra SMTP đã được cấu hình chưa
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// Send gửi một email HTML. Trả về lỗi để caller quyết định log, không bao giờ panic.
func (m *Mailer) Send(recipient string, subject string, htmlContent string) error {
	if !m.Enabled() {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	return dialer.DialAndSend(msg)
}

// NotifyApprovalRequest gửi thông báo có yêu cầu duyệt mới cho chủ dự án.
// Chạy best-effort: lỗi chỉ được log, không trả về cho caller.
func (m *Mailer) NotifyApprovalRequest(recipient string, requestKind string, requestID string, reason string) {
	if !m.Enabled() || recipient == "" {
		return
	}

	subject := fmt.Sprintf("Yêu cầu %s mới đang chờ bạn duyệt", requestKind)
	link := fmt.Sprintf("%s/approvals/%s", m.frontendURL, requestID)
	body := fmt.Sprintf(`<p>Bạn có một yêu cầu <b>%s</b> mới cho dự án của mình.</p>`, requestKind)
	if reason != "" {
		body += fmt.Sprintf(`<p>Lý do: %s</p>`, reason)
	}
	body += fmt.Sprintf(`<p><a href="%s" style="display:inline-block;padding:10px 20px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Xem yêu cầu</a></p>`, link)

	if err := m.Send(recipient, subject, body); err != nil {
		logger.GetErrorLogger().WithError(err).WithField("recipient", recipient).
			Error("📧 [MAILER] Gửi email thông báo yêu cầu duyệt thất bại")
	}
}
