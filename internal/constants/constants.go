package constants

// 白名单申请错误类型（对外返回的 error.type）
const (
	ErrTypeInvalidRequest        = "invalid_request"
	ErrTypeWrongVerificationCode = "wrong_verification_code"
	ErrTypeInvalidUsername       = "invalid_username"
	ErrTypeAIQuestionError       = "ai_question_error"
	ErrTypeEmailLimitExceeded    = "email_limit_exceeded"
	ErrTypeUnknownError          = "unknown_error"
)

// 邮件服务提供方
const (
	EmailProviderSMTP = "smtp"
	EmailProviderAPI  = "api"
)

// 验证码服务提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码场景
const (
	CaptchaSceneSendCode = "send_code"
)

// 异步任务类型
const (
	TaskWhitelistApprovedNotice = "whitelist:approved_notice"
	QueueDefault                = "default"
)

// 默认上游 IP 头（Cloudflare 回源携带真实客户端 IP）
const DefaultClientIPHeader = "cf-connecting-ip"
