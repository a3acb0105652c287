package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cellmembrane/whitelist-api/internal/logger"
	"github.com/cellmembrane/whitelist-api/internal/provider"
	"github.com/cellmembrane/whitelist-api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskWhitelistApprovedNotice, c.handleWhitelistApprovedNotice)
}

// handleWhitelistApprovedNotice 向运营邮箱发送新白名单条目摘要
func (c *Consumer) handleWhitelistApprovedNotice(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_approved_notice_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.WhitelistApprovedNoticePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_approved_notice_unmarshal_failed", "error", err)
		return err
	}
	if payload.EntryID == 0 {
		logger.Debugw("worker_approved_notice_skip_invalid_payload", "entry_id", payload.EntryID)
		return nil
	}

	notifyEmail := strings.TrimSpace(c.Config.Whitelist.NotifyEmail)
	if notifyEmail == "" {
		logger.Debugw("worker_approved_notice_skip_no_receiver", "entry_id", payload.EntryID)
		return nil
	}

	entry, err := c.WhitelistRepo.GetByID(payload.EntryID)
	if err != nil {
		logger.Warnw("worker_approved_notice_fetch_failed", "entry_id", payload.EntryID, "error", err)
		return err
	}
	if entry == nil {
		logger.Debugw("worker_approved_notice_skip_entry_not_found", "entry_id", payload.EntryID)
		return nil
	}

	subject := fmt.Sprintf("【细胞膜服务器】新白名单申请：%s", entry.MinecraftUsername)
	body := fmt.Sprintf(
		"有新的白名单申请通过审核：\n\n用户名：%s\nQQ：%s\n邮箱：%s\nIP：%s\n时间：%s",
		entry.MinecraftUsername,
		entry.QQNumber,
		entry.Email,
		entry.IPAddress,
		entry.CreatedAt.Format("2006-01-02 15:04:05"),
	)
	if err := c.EmailService.SendText(ctx, notifyEmail, subject, body); err != nil {
		logger.Warnw("worker_approved_notice_send_failed",
			"entry_id", entry.ID,
			"receiver_email", notifyEmail,
			"error", err,
		)
		return err
	}
	return nil
}
