package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/cellmembrane/whitelist-api/internal/cache"
)

type fakeMailer struct {
	lastTo      string
	lastSubject string
	lastBody    string
	sendErr     error
	sent        int
}

func (m *fakeMailer) SendText(_ context.Context, toEmail, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent++
	m.lastTo = toEmail
	m.lastSubject = subject
	m.lastBody = body
	return nil
}

var codePattern = regexp.MustCompile(`[0-9]{6}`)

func TestSendCodeMissingEmail(t *testing.T) {
	svc := NewVerifyCodeService(cache.NewMemoryVerifyCodeStore(), &fakeMailer{}, 5)

	if err := svc.SendCode(context.Background(), "   "); !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("expected ErrMissingEmail, got %v", err)
	}
}

func TestSendCodeStoresAfterMail(t *testing.T) {
	store := cache.NewMemoryVerifyCodeStore()
	mailer := &fakeMailer{}
	svc := NewVerifyCodeService(store, mailer, 5)
	ctx := context.Background()

	if err := svc.SendCode(ctx, "player@example.com"); err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}
	if mailer.sent != 1 {
		t.Fatalf("expected 1 mail sent, got %d", mailer.sent)
	}
	if mailer.lastTo != "player@example.com" {
		t.Fatalf("unexpected recipient: %s", mailer.lastTo)
	}
	if mailer.lastSubject != "【细胞膜服务器】您的验证码" {
		t.Fatalf("unexpected subject: %s", mailer.lastSubject)
	}

	entry, err := store.Get(ctx, "player@example.com")
	if err != nil {
		t.Fatalf("store get failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected stored code")
	}
	if !codePattern.MatchString(entry.Code) || len(entry.Code) != 6 {
		t.Fatalf("expected 6 digit code, got %q", entry.Code)
	}
	if !strings.Contains(mailer.lastBody, entry.Code) {
		t.Fatalf("mail body must contain the code, body: %s", mailer.lastBody)
	}
}

func TestSendCodeMailFailureLeavesNoCode(t *testing.T) {
	store := cache.NewMemoryVerifyCodeStore()
	mailer := &fakeMailer{sendErr: ErrMailSendFailed}
	svc := NewVerifyCodeService(store, mailer, 5)
	ctx := context.Background()

	if err := svc.SendCode(ctx, "player@example.com"); !errors.Is(err, ErrMailSendFailed) {
		t.Fatalf("expected ErrMailSendFailed, got %v", err)
	}

	entry, err := store.Get(ctx, "player@example.com")
	if err != nil {
		t.Fatalf("store get failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("code must not be stored after mail failure, got %+v", entry)
	}
}

func TestCheckMismatchAndExpiry(t *testing.T) {
	store := cache.NewMemoryVerifyCodeStore()
	svc := NewVerifyCodeService(store, &fakeMailer{}, 5)
	ctx := context.Background()

	// 未签发
	if err := svc.Check(ctx, "player@example.com", "123456"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch for absent code, got %v", err)
	}

	issued := time.Now()
	if err := store.Put(ctx, "player@example.com", "123456", issued); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// 不匹配
	if err := svc.Check(ctx, "player@example.com", "654321"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}

	// 有效期内
	if err := svc.Check(ctx, "player@example.com", "123456"); err != nil {
		t.Fatalf("expected valid code, got %v", err)
	}

	// 过期：校验后条目被删除，重试退化为不匹配
	svc.now = func() time.Time { return issued.Add(6 * time.Minute) }
	if err := svc.Check(ctx, "player@example.com", "123456"); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
	if err := svc.Check(ctx, "player@example.com", "123456"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch after expiry cleanup, got %v", err)
	}
}

func TestConsumeRemovesCode(t *testing.T) {
	store := cache.NewMemoryVerifyCodeStore()
	svc := NewVerifyCodeService(store, &fakeMailer{}, 5)
	ctx := context.Background()

	if err := store.Put(ctx, "player@example.com", "123456", time.Now()); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	svc.Consume(ctx, "player@example.com")

	entry, err := store.Get(ctx, "player@example.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected code removed, got %+v", entry)
	}
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode failed: %v", err)
		}
		if len(code) != 6 || code[0] == '0' {
			t.Fatalf("code must be 6 digits without leading zero, got %q", code)
		}
	}
}
