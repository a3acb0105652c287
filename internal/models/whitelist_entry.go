package models

import "time"

// WhitelistEntry 已通过审核的白名单申请记录
type WhitelistEntry struct {
	ID                uint      `gorm:"primarykey" json:"id"`                       // 主键
	QQNumber          string    `gorm:"column:qq_number;not null" json:"qq_number"` // QQ 号
	Email             string    `gorm:"index;not null" json:"email"`                // 邮箱
	MinecraftUsername string    `gorm:"column:minecraft_username;not null" json:"minecraft_username"`
	IPAddress         string    `gorm:"column:ip_address;index;not null" json:"ip_address"` // 申请来源 IP
	CreatedAt         time.Time `json:"created_at"`
}

// TableName 指定表名
func (WhitelistEntry) TableName() string {
	return "whitelist_entries"
}
