package model

import (
	"time"

	"wopanel/pkg/wo"
	assetdto "wopanel/system/asset/api/dto"
)

// 部署状态文案，面板前端按原文展示
const (
	StatusQueued      = "Queued"
	StatusAllocating  = "Allocating resources"
	StatusConfiguring = "Configuring content manager"
	StatusFinalizing  = "Finalizing"
	StatusComplete    = "Complete"
	StatusUnknown     = "Unknown"
)

// LogEntry 部署日志行，样式为前端 CSS 类
type LogEntry struct {
	Time  time.Time `json:"time"`
	Text  string    `json:"text"`
	Style string    `json:"style,omitempty"`
}

// 常用日志样式
const (
	StyleInfo    = "text-blue-400"
	StyleError   = "text-red-500"
	StyleSuccess = "text-green-500"
)

// TargetConfig 一个部署目标的请求配置
type TargetConfig struct {
	Stack     wo.Stack
	AdminUser string
	Email     string
	Password  string
	Install   []assetdto.AssetReference
	Activate  map[string]bool // locator -> 是否激活
}

// Target 一个以域名为键的部署目标的实时状态
type Target struct {
	ID              string       `json:"id"`
	ProgressPercent int          `json:"progressPercent"`
	StatusMessage   string       `json:"statusMessage"`
	LogEntries      []LogEntry   `json:"logEntries"`
	IsActive        bool         `json:"isActive"`
	Config          TargetConfig `json:"-"`
	FinishedAt      time.Time    `json:"-"`
}

// Snapshot 状态查询返回的快照
type Snapshot struct {
	ID              string     `json:"id"`
	ProgressPercent int        `json:"progressPercent"`
	StatusMessage   string     `json:"statusMessage"`
	IsActive        bool       `json:"isActive"`
	LogEntries      []LogEntry `json:"logEntries"`
	LogOffset       int        `json:"logOffset"`
}

// UnknownSnapshot 查询从未提交过的目标时返回的默认快照
func UnknownSnapshot(id string) *Snapshot {
	return &Snapshot{
		ID:              id,
		ProgressPercent: 0,
		StatusMessage:   StatusUnknown,
		IsActive:        false,
		LogEntries:      []LogEntry{},
	}
}
