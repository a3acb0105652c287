package router

import (
	"net/http"

	"github.com/cellmembrane/whitelist-api/internal/config"
	"github.com/cellmembrane/whitelist-api/internal/constants"
	publichandlers "github.com/cellmembrane/whitelist-api/internal/http/handlers/public"
	"github.com/cellmembrane/whitelist-api/internal/logger"
	"github.com/cellmembrane/whitelist-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(gc *gin.Context) {
		gc.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/send-code", publicHandler.SendCode)
		api.POST("/whitelist-apply", publicHandler.WhitelistApply)
		if cfg.Captcha.Provider == constants.CaptchaProviderImage {
			api.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}
	}

	return r
}
