package provider

import (
	"time"

	"github.com/cellmembrane/whitelist-api/internal/cache"
	"github.com/cellmembrane/whitelist-api/internal/classifier"
	"github.com/cellmembrane/whitelist-api/internal/config"
	"github.com/cellmembrane/whitelist-api/internal/logger"
	"github.com/cellmembrane/whitelist-api/internal/models"
	"github.com/cellmembrane/whitelist-api/internal/queue"
	"github.com/cellmembrane/whitelist-api/internal/repository"
	"github.com/cellmembrane/whitelist-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	WhitelistRepo repository.WhitelistEntryRepository

	// Stores
	CodeStore cache.VerifyCodeStore

	// Services
	EmailService      *service.EmailService
	VerifyCodeService *service.VerifyCodeService
	WhitelistService  *service.WhitelistService
	CaptchaService    *service.CaptchaService
	Classifier        classifier.Classifier
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.WhitelistRepo = repository.NewWhitelistEntryRepository(models.DB)

	expireMinutes := cfg.Email.VerifyCode.ExpireMinutes
	c.CodeStore = cache.NewVerifyCodeStore(time.Duration(expireMinutes) * time.Minute)

	c.EmailService = service.NewEmailService(&cfg.Email)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.VerifyCodeService = service.NewVerifyCodeService(c.CodeStore, c.EmailService, expireMinutes)
	c.Classifier = classifier.NewClient(classifier.Config{
		BaseURL:   cfg.Classifier.BaseURL,
		APIKey:    cfg.Classifier.APIKey,
		Model:     cfg.Classifier.Model,
		TimeoutMS: cfg.Classifier.TimeoutMS,
	})
	c.WhitelistService = service.NewWhitelistService(
		c.WhitelistRepo,
		c.VerifyCodeService,
		c.Classifier,
		c.QueueClient,
		cfg.Whitelist.MaxPerIP,
	)

	return c
}
