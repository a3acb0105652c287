package queue

import (
	"encoding/json"

	"github.com/cellmembrane/whitelist-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskWhitelistApprovedNotice 白名单通过通知任务
	TaskWhitelistApprovedNotice = constants.TaskWhitelistApprovedNotice
)

// WhitelistApprovedNoticePayload 白名单通过通知任务载荷
type WhitelistApprovedNoticePayload struct {
	EntryID uint `json:"entry_id"`
}

// NewWhitelistApprovedNoticeTask 创建白名单通过通知任务
func NewWhitelistApprovedNoticeTask(payload WhitelistApprovedNoticePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWhitelistApprovedNotice, body), nil
}
