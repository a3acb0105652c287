package public

import (
	"errors"

	"github.com/cellmembrane/whitelist-api/internal/constants"
	"github.com/cellmembrane/whitelist-api/internal/http/response"
	"github.com/cellmembrane/whitelist-api/internal/logger"
	"github.com/cellmembrane/whitelist-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target  error
	errType string
	message string
}

// 申请接口的错误映射
// 验证码不匹配与已过期共用同一 errType，仅提示消息不同
var whitelistApplyErrorRules = []mappedHandlerError{
	{target: service.ErrCodeMismatch, errType: constants.ErrTypeWrongVerificationCode, message: "验证码错了喵~"},
	{target: service.ErrCodeExpired, errType: constants.ErrTypeWrongVerificationCode, message: "验证码已过期，请重新获取喵~"},
	{target: service.ErrInvalidUsername, errType: constants.ErrTypeInvalidUsername, message: "用户名格式不对喵~"},
	{target: service.ErrAnswerRejected, errType: constants.ErrTypeAIQuestionError, message: "回答错误喵！"},
	{target: service.ErrIPLimitExceeded, errType: constants.ErrTypeEmailLimitExceeded, message: "一个IP只能注册3个白名单账号喵~"},
}

func respondWhitelistApplyError(c *gin.Context, err error) {
	for _, rule := range whitelistApplyErrorRules {
		if errors.Is(err, rule.target) {
			response.TypedError(c, rule.errType, rule.message)
			return
		}
	}
	logger.Errorw("whitelist_apply_failed", "error", err)
	response.TypedError(c, constants.ErrTypeUnknownError, "服务器内部发生错误")
}
