package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cellmembrane/whitelist-api/internal/cache"
	"github.com/cellmembrane/whitelist-api/internal/logger"
)

// VerifyCodeService 邮箱验证码签发与校验
type VerifyCodeService struct {
	store    cache.VerifyCodeStore
	mailer   Mailer
	lifetime time.Duration
	now      func() time.Time
}

// NewVerifyCodeService 创建验证码服务
func NewVerifyCodeService(store cache.VerifyCodeStore, mailer Mailer, expireMinutes int) *VerifyCodeService {
	if expireMinutes <= 0 {
		expireMinutes = 5
	}
	return &VerifyCodeService{
		store:    store,
		mailer:   mailer,
		lifetime: time.Duration(expireMinutes) * time.Minute,
		now:      time.Now,
	}
}

// SendCode 生成 6 位验证码并发送到邮箱
// 先发送后落库：邮件失败时不写入，避免留下不可达的验证码
func (s *VerifyCodeService) SendCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingEmail
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	subject := "【细胞膜服务器】您的验证码"
	body := fmt.Sprintf("您好！\n\n您正在申请服务器白名单，您的验证码是：%s\n\n该验证码5分钟内有效，请勿泄露。\n\n - 细胞膜服务器管理组", code)
	if err := s.mailer.SendText(ctx, email, subject, body); err != nil {
		logger.Warnw("verify_code_mail_failed", "email", email, "error", err)
		return err
	}

	if err := s.store.Put(ctx, email, code, s.now()); err != nil {
		return fmt.Errorf("store verify code: %w", err)
	}

	logger.Infow("verify_code_sent", "email", email)
	return nil
}

// Check 校验验证码但不消费
// 未签发或不匹配返回 ErrCodeMismatch；已过期则删除并返回 ErrCodeExpired
func (s *VerifyCodeService) Check(ctx context.Context, email, code string) error {
	entry, err := s.store.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("load verify code: %w", err)
	}
	if entry == nil || entry.Code != code {
		return ErrCodeMismatch
	}
	if s.now().Sub(entry.IssuedTime()) > s.lifetime {
		if delErr := s.store.Delete(ctx, email); delErr != nil {
			logger.Warnw("verify_code_delete_failed", "email", email, "error", delErr)
		}
		return ErrCodeExpired
	}
	return nil
}

// Consume 校验通过后删除验证码，防止重复使用
func (s *VerifyCodeService) Consume(ctx context.Context, email string) {
	if err := s.store.Delete(ctx, email); err != nil {
		logger.Warnw("verify_code_consume_failed", "email", email, "error", err)
	}
}

// generateCode 生成 [100000, 999999] 区间的随机验证码
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
