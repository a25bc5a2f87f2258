package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor 按 cron 计划定期清理过期 session
type Janitor struct {
	cron  *cron.Cron
	store *Store
	ttl   time.Duration
}

// NewJanitor schedule 使用 cron 表达式或 "@every 30m" 这类描述符
func NewJanitor(store *Store, schedule string, ttl time.Duration) (*Janitor, error) {
	j := &Janitor{
		cron:  cron.New(),
		store: store,
		ttl:   ttl,
	}
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return nil, fmt.Errorf("parse cleanup schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Run 执行一次清理
func (j *Janitor) Run() {
	n, err := j.store.Sweep(time.Now(), j.ttl)
	if err != nil {
		slog.Warn("sweep sessions", "error", err)
		return
	}
	if n > 0 {
		slog.Info("swept expired sessions", "removed", n, "ttl", j.ttl)
	}
}

func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop 停止调度，并等待正在执行的清理结束
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
