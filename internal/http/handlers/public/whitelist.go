package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cellmembrane/whitelist-api/internal/constants"
	"github.com/cellmembrane/whitelist-api/internal/http/response"
	"github.com/cellmembrane/whitelist-api/internal/logger"
	"github.com/cellmembrane/whitelist-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SendCodeRequest 发送验证码请求
type SendCodeRequest struct {
	Email          string                       `json:"email"`
	CaptchaPayload service.CaptchaVerifyPayload `json:"captcha_payload"`
}

// SendCode 发送邮箱验证码
func (h *Handler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MessageError(c, http.StatusInternalServerError, "服务器内部发生错误")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		response.MessageError(c, http.StatusBadRequest, "缺少邮箱地址")
		return
	}

	if h.CaptchaService.IsSceneEnabled(constants.CaptchaSceneSendCode) {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneSendCode, req.CaptchaPayload); err != nil {
			switch {
			case errors.Is(err, service.ErrCaptchaRequired):
				response.MessageError(c, http.StatusBadRequest, "缺少图片验证码")
			case errors.Is(err, service.ErrCaptchaInvalid):
				response.MessageError(c, http.StatusBadRequest, "图片验证码错误")
			default:
				response.MessageError(c, http.StatusInternalServerError, "服务器内部发生错误")
			}
			return
		}
	}

	if err := h.VerifyCodeService.SendCode(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail):
			response.MessageError(c, http.StatusBadRequest, "缺少邮箱地址")
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrMailSendFailed),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			response.MessageError(c, http.StatusInternalServerError, "邮件发送服务暂时不可用")
		default:
			logger.Errorw("send_code_failed", "error", err)
			response.MessageError(c, http.StatusInternalServerError, "服务器内部发生错误")
		}
		return
	}

	response.Success(c)
}

// WhitelistApplyRequest 白名单申请请求
// 五个字段都必须是字符串，缺失或类型不符都按格式错误处理
type WhitelistApplyRequest struct {
	QQNumber          *string `json:"qqNumber"`
	Email             *string `json:"email"`
	MinecraftUsername *string `json:"minecraftUsername"`
	VerificationCode  *string `json:"verificationCode"`
	AIQuestion        *string `json:"aiQuestion"`
}

func (r *WhitelistApplyRequest) complete() bool {
	return r.QQNumber != nil &&
		r.Email != nil &&
		r.MinecraftUsername != nil &&
		r.VerificationCode != nil &&
		r.AIQuestion != nil
}

// WhitelistApply 处理白名单申请
func (h *Handler) WhitelistApply(c *gin.Context) {
	var req WhitelistApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.complete() {
		response.TypedError(c, constants.ErrTypeInvalidRequest, "请求的数据格式不正确或不完整喵~")
		return
	}

	input := service.ApplyInput{
		QQNumber:          *req.QQNumber,
		Email:             *req.Email,
		MinecraftUsername: *req.MinecraftUsername,
		VerificationCode:  *req.VerificationCode,
		AIAnswer:          *req.AIQuestion,
		IPAddress:         h.clientIP(c),
	}
	if _, err := h.WhitelistService.Apply(c.Request.Context(), input); err != nil {
		respondWhitelistApplyError(c, err)
		return
	}

	response.Success(c)
}

// clientIP 优先读取代理传递的原始 IP 头
func (h *Handler) clientIP(c *gin.Context) string {
	header := strings.TrimSpace(h.Config.Whitelist.IPHeader)
	if header == "" {
		header = constants.DefaultClientIPHeader
	}
	if ip := strings.TrimSpace(c.GetHeader(header)); ip != "" {
		return ip
	}
	return c.ClientIP()
}
