package event

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pantry-chef/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandlerFunc 事件訂閱者；回傳錯誤代表這個訂閱者處理失敗
type HandlerFunc func(Event) error

// subscriber 具名訂閱者，名稱用於分發報告
type subscriber struct {
	name string
	fn   HandlerFunc
}

// SubscriberFailure 單一訂閱者的失敗記錄
type SubscriberFailure struct {
	Subscriber string `json:"subscriber"`
	Reason     string `json:"reason"`
}

// DispatchReport 一次發布的分發結果。
// 失敗的訂閱者不影響其他訂閱者執行；事件對成功者視為已送達，
// 不自動重試（對每個訂閱者 at-least-once）。
type DispatchReport struct {
	EventID   string              `json:"event_id"`
	EventType string              `json:"event_type"`
	Succeeded []string            `json:"succeeded"`
	Failed    []SubscriberFailure `json:"failed,omitempty"`
}

// PartialFailure 是否有訂閱者失敗
func (r DispatchReport) PartialFailure() bool {
	return len(r.Failed) > 0
}

// Bus 行程內同步事件匯流排。
// 不是全域單例：由組合根建立並傳給需要的服務，
// 訂閱在啟動時完成，之後唯一的變動點就是 Publish。
// 分發在呼叫者的執行流程內同步完成，沒有佇列、沒有跨行程遞送。
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]subscriber
	seq  atomic.Uint64
}

// NewBus 建立事件匯流排
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]subscriber),
	}
}

// Subscribe 以事件類型註冊具名訂閱者，分發依註冊順序執行
func (b *Bus) Subscribe(eventType, name string, fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventType] = append(b.subs[eventType], subscriber{name: name, fn: fn})
}

// Publish 發布事件並同步分發給所有訂閱者。
// 訂閱者失敗（回傳錯誤或 panic）會被收進報告，
// 但不會中斷後續訂閱者；呼叫者拿到報告後自行決定如何呈現警告。
func (b *Bus) Publish(ev Event) DispatchReport {
	ev.ID = uuid.New().String()
	ev.Sequence = b.seq.Add(1)
	ev.OccurredAt = time.Now()

	b.mu.RLock()
	subs := append([]subscriber(nil), b.subs[ev.Type]...)
	b.mu.RUnlock()

	report := DispatchReport{
		EventID:   ev.ID,
		EventType: ev.Type,
		Succeeded: []string{},
	}

	start := time.Now()
	for _, sub := range subs {
		if err := b.invoke(sub, ev); err != nil {
			report.Failed = append(report.Failed, SubscriberFailure{
				Subscriber: sub.name,
				Reason:     err.Error(),
			})
			common.LogError("事件訂閱者執行失敗",
				zap.String("事件類型", ev.Type),
				zap.String("訂閱者", sub.name),
				zap.Error(err),
			)
			continue
		}
		report.Succeeded = append(report.Succeeded, sub.name)
	}

	common.LogEventDispatch(ev.Type, len(report.Succeeded), len(report.Failed), time.Since(start))

	return report
}

// invoke 執行單一訂閱者，panic 一律回收為錯誤
func (b *Bus) invoke(sub subscriber, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return sub.fn(ev)
}

// SubscriberCount 指定事件類型的訂閱者數量
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}
