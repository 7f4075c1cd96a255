package model

import "wopanel/pkg/core/model/common"

// Setting 面板键值配置
type Setting struct {
	common.Model
	Key       string `gorm:"uniqueIndex;size:100;not null" json:"key" comment:"配置键"`
	Value     string `gorm:"type:text" json:"value" comment:"配置值，敏感项为密文"`
	Encrypted bool   `gorm:"default:false;not null" json:"encrypted" comment:"值是否加密存储"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "panel_settings"
}

// 内置配置键
const (
	KeyCloudflareEmail = "cf_email" // Cloudflare 账号邮箱
	KeyCloudflareKey   = "cf_key"   // Cloudflare Global API Key，加密存储
)
