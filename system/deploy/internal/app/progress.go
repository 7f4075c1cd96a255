package app

import (
	"sync"
	"time"

	"wopanel/system/deploy/internal/model"
)

// ProgressStore 按域名跟踪部署目标的实时状态
// 后台工作协程写、HTTP 轮询读，读写全部走锁
type ProgressStore struct {
	mu      sync.RWMutex
	targets map[string]*model.Target
}

// NewProgressStore 创建进度存储
func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		targets: make(map[string]*model.Target),
	}
}

// Reset 创建或重置目标记录：进度归零、日志清空、标记为活跃。
// 同一域名重复提交时后提交者覆盖前者
func (s *ProgressStore) Reset(id string, cfg model.TargetConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[id] = &model.Target{
		ID:              id,
		ProgressPercent: 0,
		StatusMessage:   model.StatusQueued,
		LogEntries:      []model.LogEntry{},
		IsActive:        true,
		Config:          cfg,
	}
}

// Advance 推进进度并更新状态文案，进度只增不减
func (s *ProgressStore) Advance(id string, percent int, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.targets[id]
	if !ok {
		return
	}
	if percent > 100 {
		percent = 100
	}
	if percent > t.ProgressPercent {
		t.ProgressPercent = percent
	}
	if status != "" {
		t.StatusMessage = status
	}
}

// AppendLog 追加一条带时间戳的日志行
func (s *ProgressStore) AppendLog(id string, text string, style string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.targets[id]
	if !ok {
		return
	}
	t.LogEntries = append(t.LogEntries, model.LogEntry{
		Time:  time.Now(),
		Text:  text,
		Style: style,
	})
}

// Finish 标记目标终态：success 时进度置 100，失败时进度保持原值
func (s *ProgressStore) Finish(id string, success bool, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.targets[id]
	if !ok {
		return
	}
	if success && t.ProgressPercent < 100 {
		t.ProgressPercent = 100
	}
	if status != "" {
		t.StatusMessage = status
	}
	t.IsActive = false
	t.FinishedAt = time.Now()
}

// Snapshot 读取目标快照，afterOffset 之前的日志行不再重复返回。
// 未知目标返回固定的默认快照而不是错误
func (s *ProgressStore) Snapshot(id string, afterOffset int) *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.targets[id]
	if !ok {
		return model.UnknownSnapshot(id)
	}

	if afterOffset < 0 || afterOffset > len(t.LogEntries) {
		afterOffset = 0
	}
	logs := make([]model.LogEntry, len(t.LogEntries)-afterOffset)
	copy(logs, t.LogEntries[afterOffset:])

	return &model.Snapshot{
		ID:              t.ID,
		ProgressPercent: t.ProgressPercent,
		StatusMessage:   t.StatusMessage,
		IsActive:        t.IsActive,
		LogEntries:      logs,
		LogOffset:       len(t.LogEntries),
	}
}

// Config 读取目标的请求配置
func (s *ProgressStore) Config(id string) (model.TargetConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.targets[id]
	if !ok {
		return model.TargetConfig{}, false
	}
	return t.Config, true
}

// EvictTerminated 清除已终结且结束时间早于 before 的目标，返回清除数量
func (s *ProgressStore) EvictTerminated(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, t := range s.targets {
		if !t.IsActive && !t.FinishedAt.IsZero() && t.FinishedAt.Before(before) {
			delete(s.targets, id)
			evicted++
		}
	}
	return evicted
}
