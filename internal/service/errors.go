package service

import "errors"

// 服务层统一错误定义，接口层通过 errors.Is 映射为对外响应
var (
	// ErrMissingEmail 请求缺少邮箱地址
	ErrMissingEmail = errors.New("missing email address")
	// ErrInvalidEmail 邮箱地址格式不合法
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrEmailServiceNotConfigured 邮件服务缺少必要配置
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	// ErrMailSendFailed 邮件发送失败
	ErrMailSendFailed = errors.New("mail send failed")

	// ErrCodeMismatch 验证码不存在或不匹配
	ErrCodeMismatch = errors.New("verification code mismatch")
	// ErrCodeExpired 验证码已过期
	ErrCodeExpired = errors.New("verification code expired")

	// ErrInvalidUsername 用户名格式不合法
	ErrInvalidUsername = errors.New("invalid minecraft username")
	// ErrAnswerRejected 审核模型判定回答无效
	ErrAnswerRejected = errors.New("answer rejected")
	// ErrIPLimitExceeded 同一 IP 的白名单条目达到上限
	ErrIPLimitExceeded = errors.New("ip whitelist limit exceeded")

	// ErrCaptchaRequired 缺少验证码参数
	ErrCaptchaRequired = errors.New("captcha required")
	// ErrCaptchaInvalid 验证码校验未通过
	ErrCaptchaInvalid = errors.New("captcha invalid")
	// ErrCaptchaConfigInvalid 验证码配置不完整或不支持
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)
