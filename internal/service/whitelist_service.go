package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cellmembrane/whitelist-api/internal/classifier"
	"github.com/cellmembrane/whitelist-api/internal/logger"
	"github.com/cellmembrane/whitelist-api/internal/models"
	"github.com/cellmembrane/whitelist-api/internal/queue"
	"github.com/cellmembrane/whitelist-api/internal/repository"
)

var (
	// Minecraft 正版用户名：3-16 位字母数字下划线
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)
	// 纯数字、纯下划线或两者混合的用户名视为无效
	usernameTrivialPattern = regexp.MustCompile(`^[0-9_]+$`)
)

// ApplyInput 白名单申请参数
type ApplyInput struct {
	QQNumber          string
	Email             string
	MinecraftUsername string
	VerificationCode  string
	AIAnswer          string
	IPAddress         string
}

// WhitelistService 白名单申请流程
type WhitelistService struct {
	repo       repository.WhitelistEntryRepository
	codes      *VerifyCodeService
	classifier classifier.Classifier
	queue      *queue.Client
	maxPerIP   int
}

// NewWhitelistService 创建白名单服务
func NewWhitelistService(
	repo repository.WhitelistEntryRepository,
	codes *VerifyCodeService,
	cls classifier.Classifier,
	queueClient *queue.Client,
	maxPerIP int,
) *WhitelistService {
	if maxPerIP <= 0 {
		maxPerIP = 3
	}
	return &WhitelistService{
		repo:       repo,
		codes:      codes,
		classifier: cls,
		queue:      queueClient,
		maxPerIP:   maxPerIP,
	}
}

// Apply 处理白名单申请
// 依次校验验证码、用户名、回答审核和 IP 限额，全部通过后落库
func (s *WhitelistService) Apply(ctx context.Context, input ApplyInput) (*models.WhitelistEntry, error) {
	email := strings.TrimSpace(input.Email)

	if err := s.codes.Check(ctx, email, input.VerificationCode); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.MinecraftUsername)
	if !usernamePattern.MatchString(username) || usernameTrivialPattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	ok, err := s.classifier.Classify(ctx, input.AIAnswer)
	if err != nil {
		return nil, fmt.Errorf("classify answer: %w", err)
	}
	if !ok {
		return nil, ErrAnswerRejected
	}

	entry := &models.WhitelistEntry{
		QQNumber:          strings.TrimSpace(input.QQNumber),
		Email:             email,
		MinecraftUsername: username,
		IPAddress:         strings.TrimSpace(input.IPAddress),
	}
	if err := s.repo.CreateWithinIPLimit(entry, s.maxPerIP); err != nil {
		if errors.Is(err, repository.ErrIPLimitReached) {
			return nil, ErrIPLimitExceeded
		}
		return nil, fmt.Errorf("create whitelist entry: %w", err)
	}

	// 验证码一次性使用，落库成功后删除
	s.codes.Consume(ctx, email)

	s.notifyApproved(entry)

	logger.Infow("whitelist_entry_created",
		"entry_id", entry.ID,
		"username", entry.MinecraftUsername,
		"ip", entry.IPAddress,
	)
	return entry, nil
}

// notifyApproved 入队运营通知任务，失败只记日志不影响申请结果
func (s *WhitelistService) notifyApproved(entry *models.WhitelistEntry) {
	if !s.queue.Enabled() {
		return
	}
	payload := queue.WhitelistApprovedNoticePayload{EntryID: entry.ID}
	if err := s.queue.EnqueueWhitelistApprovedNotice(payload); err != nil {
		logger.Warnw("approved_notice_enqueue_failed", "entry_id", entry.ID, "error", err)
	}
}
