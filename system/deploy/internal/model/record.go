package model

import (
	"time"

	"wopanel/pkg/core/model/common"
)

// DeployRecord 部署历史（落库），实时进度在内存中
type DeployRecord struct {
	common.Model
	Domain     string    `gorm:"index;size:255;not null" json:"domain" comment:"站点域名"`
	Stack      string    `gorm:"size:20" json:"stack" comment:"缓存架构"`
	Success    bool      `gorm:"not null" json:"success" comment:"是否成功"`
	Progress   int       `gorm:"not null" json:"progress" comment:"终态进度"`
	Status     string    `gorm:"size:100" json:"status" comment:"终态状态文案"`
	Log        string    `gorm:"type:text" json:"log" comment:"完整日志"`
	StartedAt  time.Time `json:"startedAt" comment:"开始时间"`
	FinishedAt time.Time `json:"finishedAt" comment:"结束时间"`
}

// TableName 指定表名
func (DeployRecord) TableName() string {
	return "deploy_records"
}
