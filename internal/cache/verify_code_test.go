package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryVerifyCodeStorePutGet(t *testing.T) {
	store := NewMemoryVerifyCodeStore()
	ctx := context.Background()
	issued := time.Now()

	if err := store.Put(ctx, "User@Example.com", "123456", issued); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// 邮箱地址大小写不敏感
	entry, err := store.Get(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry, got nil")
	}
	if entry.Code != "123456" {
		t.Fatalf("expected code 123456, got %s", entry.Code)
	}
	if entry.IssuedAt != issued.Unix() {
		t.Fatalf("expected issued_at %d, got %d", issued.Unix(), entry.IssuedAt)
	}
}

func TestMemoryVerifyCodeStoreOverwrite(t *testing.T) {
	store := NewMemoryVerifyCodeStore()
	ctx := context.Background()

	if err := store.Put(ctx, "a@b.com", "111111", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "a@b.com", "222222", time.Now()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entry, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry == nil || entry.Code != "222222" {
		t.Fatalf("expected latest code 222222, got %+v", entry)
	}
}

func TestMemoryVerifyCodeStoreMiss(t *testing.T) {
	store := NewMemoryVerifyCodeStore()

	entry, err := store.Get(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil for missing email, got %+v", entry)
	}
}

func TestMemoryVerifyCodeStoreDelete(t *testing.T) {
	store := NewMemoryVerifyCodeStore()
	ctx := context.Background()

	if err := store.Put(ctx, "a@b.com", "123456", time.Now()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(ctx, "a@b.com"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	entry, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil after delete, got %+v", entry)
	}

	// 删除不存在的条目不报错
	if err := store.Delete(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("Delete of missing entry failed: %v", err)
	}
}

func TestNewVerifyCodeStoreFallsBackToMemory(t *testing.T) {
	// Redis 未初始化时退回进程内实现
	store := NewVerifyCodeStore(5 * time.Minute)
	if _, ok := store.(*MemoryVerifyCodeStore); !ok {
		t.Fatalf("expected MemoryVerifyCodeStore, got %T", store)
	}
}
