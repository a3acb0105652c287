package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// VerifyCode 邮箱验证码条目
// 过期不在存储层清理，由读取方比较 IssuedAt 惰性判断
type VerifyCode struct {
	Code     string `json:"code"`
	IssuedAt int64  `json:"issued_at"` // Unix 秒
}

// IssuedTime 返回签发时间
func (v *VerifyCode) IssuedTime() time.Time {
	return time.Unix(v.IssuedAt, 0)
}

// VerifyCodeStore 验证码存储接口
// 每个邮箱只保留一条记录，Put 覆盖旧值
type VerifyCodeStore interface {
	Put(ctx context.Context, email, code string, issuedAt time.Time) error
	Get(ctx context.Context, email string) (*VerifyCode, error)
	Delete(ctx context.Context, email string) error
}

func verifyCodeKey(email string) string {
	return fmt.Sprintf("verify_code:%s", strings.ToLower(strings.TrimSpace(email)))
}

// RedisVerifyCodeStore Redis 实现，多实例部署时共享验证码
type RedisVerifyCodeStore struct {
	lifetime time.Duration
}

// NewRedisVerifyCodeStore 创建 Redis 验证码存储
// TTL 设为有效期的两倍：过期后的一段时间内仍可读到旧条目，
// 以便读取方返回"已过期"而不是退化成"验证码错误"
func NewRedisVerifyCodeStore(lifetime time.Duration) *RedisVerifyCodeStore {
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	return &RedisVerifyCodeStore{lifetime: lifetime}
}

// Put 写入验证码，覆盖同邮箱旧值
func (s *RedisVerifyCodeStore) Put(ctx context.Context, email, code string, issuedAt time.Time) error {
	entry := VerifyCode{Code: code, IssuedAt: issuedAt.Unix()}
	return SetJSON(ctx, verifyCodeKey(email), entry, 2*s.lifetime)
}

// Get 读取验证码，未命中返回 nil
func (s *RedisVerifyCodeStore) Get(ctx context.Context, email string) (*VerifyCode, error) {
	var entry VerifyCode
	hit, err := GetJSON(ctx, verifyCodeKey(email), &entry)
	if err != nil || !hit {
		return nil, err
	}
	return &entry, nil
}

// Delete 删除验证码
func (s *RedisVerifyCodeStore) Delete(ctx context.Context, email string) error {
	return Del(ctx, verifyCodeKey(email))
}

// MemoryVerifyCodeStore 进程内实现，未启用 Redis 时使用
// 单实例可用；多实例部署必须使用 Redis 实现
type MemoryVerifyCodeStore struct {
	mu      sync.RWMutex
	entries map[string]VerifyCode
}

// NewMemoryVerifyCodeStore 创建进程内验证码存储
func NewMemoryVerifyCodeStore() *MemoryVerifyCodeStore {
	return &MemoryVerifyCodeStore{entries: make(map[string]VerifyCode)}
}

// Put 写入验证码，覆盖同邮箱旧值
func (s *MemoryVerifyCodeStore) Put(_ context.Context, email, code string, issuedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[verifyCodeKey(email)] = VerifyCode{Code: code, IssuedAt: issuedAt.Unix()}
	return nil
}

// Get 读取验证码，未命中返回 nil
func (s *MemoryVerifyCodeStore) Get(_ context.Context, email string) (*VerifyCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[verifyCodeKey(email)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Delete 删除验证码
func (s *MemoryVerifyCodeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, verifyCodeKey(email))
	return nil
}

// NewVerifyCodeStore 按运行环境选择验证码存储实现
func NewVerifyCodeStore(lifetime time.Duration) VerifyCodeStore {
	if Enabled() {
		return NewRedisVerifyCodeStore(lifetime)
	}
	return NewMemoryVerifyCodeStore()
}
