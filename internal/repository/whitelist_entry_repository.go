package repository

import (
	"errors"

	"github.com/cellmembrane/whitelist-api/internal/models"

	"gorm.io/gorm"
)

// ErrIPLimitReached 同一 IP 的白名单记录已达上限
var ErrIPLimitReached = errors.New("同一 IP 的白名单记录已达上限")

// WhitelistEntryRepository 白名单记录数据访问接口
type WhitelistEntryRepository interface {
	CountByIP(ipAddress string) (int64, error)
	CreateWithinIPLimit(entry *models.WhitelistEntry, maxPerIP int) error
	GetByID(id uint) (*models.WhitelistEntry, error)
}

// GormWhitelistEntryRepository GORM 实现
type GormWhitelistEntryRepository struct {
	db *gorm.DB
}

// NewWhitelistEntryRepository 创建白名单记录仓库
func NewWhitelistEntryRepository(db *gorm.DB) *GormWhitelistEntryRepository {
	return &GormWhitelistEntryRepository{db: db}
}

// CountByIP 统计同一 IP 的已有记录数
func (r *GormWhitelistEntryRepository) CountByIP(ipAddress string) (int64, error) {
	var count int64
	err := r.db.Model(&models.WhitelistEntry{}).
		Where("ip_address = ?", ipAddress).
		Count(&count).Error
	return count, err
}

// CreateWithinIPLimit 在单个事务内完成计数与插入，保证同一 IP 不会超出上限
func (r *GormWhitelistEntryRepository) CreateWithinIPLimit(entry *models.WhitelistEntry, maxPerIP int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WhitelistEntry{}).
			Where("ip_address = ?", entry.IPAddress).
			Count(&count).Error; err != nil {
			return err
		}
		if maxPerIP > 0 && count >= int64(maxPerIP) {
			return ErrIPLimitReached
		}
		return tx.Create(entry).Error
	})
}

// GetByID 按主键获取记录
func (r *GormWhitelistEntryRepository) GetByID(id uint) (*models.WhitelistEntry, error) {
	var entry models.WhitelistEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
