package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/cellmembrane/whitelist-api/internal/config"
	"github.com/cellmembrane/whitelist-api/internal/constants"
)

// Mailer 文本邮件发送接口
type Mailer interface {
	SendText(ctx context.Context, toEmail, subject, body string) error
}

// EmailService 邮件发送服务
// 按配置选择 SMTP 或 HTTP API 两种投递方式
type EmailService struct {
	cfg        *config.EmailConfig
	httpClient *http.Client
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	timeout := 15 * time.Second
	if cfg != nil && cfg.APITimeoutMS > 0 {
		timeout = time.Duration(cfg.APITimeoutMS) * time.Millisecond
	}
	return &EmailService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendText 发送纯文本邮件
func (s *EmailService) SendText(ctx context.Context, toEmail, subject, body string) error {
	if s.cfg == nil {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	switch s.cfg.Provider {
	case constants.EmailProviderSMTP:
		return s.sendViaSMTP(toEmail, subject, body)
	default:
		return s.sendViaAPI(ctx, toEmail, subject, body)
	}
}

type apiMailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type apiMailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type apiMailPersonalization struct {
	To []apiMailAddress `json:"to"`
}

type apiMailRequest struct {
	Personalizations []apiMailPersonalization `json:"personalizations"`
	From             apiMailAddress           `json:"from"`
	Subject          string                   `json:"subject"`
	Content          []apiMailContent         `json:"content"`
}

func (s *EmailService) sendViaAPI(ctx context.Context, toEmail, subject, body string) error {
	if s.cfg.APIURL == "" || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}

	reqBody := apiMailRequest{
		Personalizations: []apiMailPersonalization{{To: []apiMailAddress{{Email: toEmail}}}},
		From:             apiMailAddress{Email: s.cfg.From, Name: s.cfg.FromName},
		Subject:          subject,
		Content:          []apiMailContent{{Type: "text/plain", Value: body}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrMailSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrMailSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMailSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 错误响应体带上投递失败原因，截断后并入错误便于排查
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: status %d: %s", ErrMailSendFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (s *EmailService) sendViaSMTP(toEmail, subject, body string) error {
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	switch {
	case s.cfg.UseSSL:
		err = sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	case s.cfg.UseTLS:
		err = sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	default:
		err = sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMailSendFailed, err)
	}
	return nil
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
