package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cellmembrane/whitelist-api/internal/config"
	"github.com/cellmembrane/whitelist-api/internal/models"
	"github.com/cellmembrane/whitelist-api/internal/provider"
	"github.com/cellmembrane/whitelist-api/internal/queue"
	"github.com/cellmembrane/whitelist-api/internal/repository"
	"github.com/cellmembrane/whitelist-api/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T, notifyEmail, mailAPIURL string) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.WhitelistEntry{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		Email: config.EmailConfig{
			Provider: "api",
			APIURL:   mailAPIURL,
			From:     "noreply@cellmembranedemo.site",
			FromName: "细胞膜服务器",
		},
		Whitelist: config.WhitelistConfig{NotifyEmail: notifyEmail},
	}

	container := &provider.Container{
		Config:        cfg,
		WhitelistRepo: repository.NewWhitelistEntryRepository(db),
		EmailService:  service.NewEmailService(&cfg.Email),
	}
	return NewConsumer(container), db
}

func approvedNoticeTask(t *testing.T, entryID uint) *asynq.Task {
	t.Helper()
	task, err := queue.NewWhitelistApprovedNoticeTask(queue.WhitelistApprovedNoticePayload{EntryID: entryID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleApprovedNoticeSends(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	consumer, db := setupConsumerTest(t, "ops@example.com", srv.URL)
	entry := models.WhitelistEntry{
		QQNumber:          "10001",
		Email:             "player@example.com",
		MinecraftUsername: "Steve_123",
		IPAddress:         "1.2.3.4",
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed entry failed: %v", err)
	}

	if err := consumer.handleWhitelistApprovedNotice(context.Background(), approvedNoticeTask(t, entry.ID)); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !strings.Contains(gotBody, "ops@example.com") {
		t.Fatalf("mail request must target notify email, body: %s", gotBody)
	}
	if !strings.Contains(gotBody, "Steve_123") {
		t.Fatalf("mail body must contain username, body: %s", gotBody)
	}
}

func TestHandleApprovedNoticeSkips(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "", "http://127.0.0.1:1")

	// 未配置通知邮箱时直接跳过，不访问邮件接口
	if err := consumer.handleWhitelistApprovedNotice(context.Background(), approvedNoticeTask(t, 1)); err != nil {
		t.Fatalf("expected skip without error, got %v", err)
	}

	// 条目不存在同样跳过
	consumer2, _ := setupConsumerTest(t, "ops@example.com", "http://127.0.0.1:1")
	if err := consumer2.handleWhitelistApprovedNotice(context.Background(), approvedNoticeTask(t, 999)); err != nil {
		t.Fatalf("expected skip for missing entry, got %v", err)
	}

	// 载荷损坏返回错误
	bad := asynq.NewTask(queue.TaskWhitelistApprovedNotice, []byte("not json"))
	if err := consumer2.handleWhitelistApprovedNotice(context.Background(), bad); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
