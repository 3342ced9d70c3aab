package service

import (
	"sync"
	"time"
)

// Scheduler 延迟任务调度
// 助手回复在调用时已计算完成，调度的只是写入对话记录这一步
type Scheduler interface {
	After(delay time.Duration, fn func())
}

// ImmediateScheduler 忽略延迟，同步执行（测试与无延迟配置）
type ImmediateScheduler struct{}

func (ImmediateScheduler) After(_ time.Duration, fn func()) { fn() }

// TimerScheduler 基于 time.AfterFunc 的调度器，Wait 用于优雅退出
type TimerScheduler struct {
	wg sync.WaitGroup
}

// NewTimerScheduler 创建 TimerScheduler
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) After(delay time.Duration, fn func()) {
	if delay <= 0 {
		fn()
		return
	}
	s.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer s.wg.Done()
		fn()
	})
}

// Wait 阻塞直到所有已调度任务执行完毕
func (s *TimerScheduler) Wait() {
	s.wg.Wait()
}
