package public

import (
	"net/http"

	"github.com/cellmembrane/whitelist-api/internal/http/response"
	"github.com/cellmembrane/whitelist-api/internal/logger"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 生成图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		logger.Warnw("captcha_generate_failed", "error", err)
		response.MessageError(c, http.StatusInternalServerError, "验证码生成失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
