package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

type ChangeKind string

const (
	ChangeShifts  ChangeKind = "shifts"
	ChangeDayOffs ChangeKind = "day_offs"
	ChangeHelpers ChangeKind = "helpers"
)

// ChangeEvent 在某个月的数据保存后发布
type ChangeEvent struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Kind  ChangeKind `json:"kind"`
	At    time.Time  `json:"at"`
}

// ShiftsChannel 返回某个月的变更频道名
func ShiftsChannel(year, month int) string {
	return "shifts:" + domain.MonthPrefix(year, month)
}

// Broker 通过 redis 发布订阅在多个服务实例之间广播变更
type Broker struct {
	rdb    redis.UniversalClient
	logger *slog.Logger
}

func NewBroker(rdb redis.UniversalClient, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{rdb: rdb, logger: logger}
}

func (b *Broker) PublishShiftsChanged(ctx context.Context, ev ChangeEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, ShiftsChannel(ev.Year, ev.Month), payload).Err()
}

// SubscribeShifts 订阅某个月的变更，返回的函数用于取消订阅，可以重复调用
func (b *Broker) SubscribeShifts(ctx context.Context, year, month int, onChange func(ChangeEvent)) (func(), error) {
	sub := b.rdb.Subscribe(ctx, ShiftsChannel(year, month))

	// 等待订阅确认，确保返回后不会错过消息
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("无法订阅 %s: %w", ShiftsChannel(year, month), err)
	}

	done := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				unsubscribe()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ev, err := DecodeChangeEvent([]byte(msg.Payload))
				if err != nil {
					b.logger.Error("变更消息反序列化失败", "channel", msg.Channel, "error", err)
					continue
				}
				onChange(ev)
			}
		}
	}()

	return unsubscribe, nil
}

func DecodeChangeEvent(payload []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ChangeEvent{}, err
	}
	if ev.Month < 1 || ev.Month > 12 {
		return ChangeEvent{}, fmt.Errorf("月份 %d 不合法", ev.Month)
	}
	return ev, nil
}
