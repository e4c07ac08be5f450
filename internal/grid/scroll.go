package grid

import (
	"sync"
	"time"
)

const (
	DefaultSettleDelay = 150 * time.Millisecond
	DefaultFrameDelay  = 16 * time.Millisecond
)

type Timer interface {
	Stop() bool
}

// Clock 抽象定时器，测试时替换为手动触发的实现
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var SystemClock Clock = systemClock{}

// ScrollTracker 检测是否正在滚动，并把滚动位置按帧合并后再传播
type ScrollTracker struct {
	mu sync.Mutex

	clock  Clock
	settle time.Duration
	frame  time.Duration
	filter *OffsetFilter

	scrolling   bool
	pending     float64
	settleTimer Timer
	frameTimer  Timer
	settleGen   uint64
	frameGen    uint64

	OnScrollingChange func(scrolling bool)
	OnOffset          func(offset float64)
}

func NewScrollTracker(clock Clock, itemSize float64, settle time.Duration) *ScrollTracker {
	if clock == nil {
		clock = SystemClock
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &ScrollTracker{
		clock:  clock,
		settle: settle,
		frame:  DefaultFrameDelay,
		filter: NewOffsetFilter(itemSize),
	}
}

// Scroll 处理一次滚动事件，定时器总是先取消再重新安排，不会叠加
func (t *ScrollTracker) Scroll(offset float64) {
	t.mu.Lock()
	started := !t.scrolling
	t.scrolling = true

	if t.settleTimer != nil {
		t.settleTimer.Stop()
	}
	t.settleGen++
	settleGen := t.settleGen
	t.settleTimer = t.clock.AfterFunc(t.settle, func() { t.settled(settleGen) })

	t.pending = offset
	if t.frameTimer != nil {
		t.frameTimer.Stop()
	}
	t.frameGen++
	frameGen := t.frameGen
	t.frameTimer = t.clock.AfterFunc(t.frame, func() { t.flush(frameGen) })

	cb := t.OnScrollingChange
	t.mu.Unlock()

	if started && cb != nil {
		cb(true)
	}
}

func (t *ScrollTracker) settled(gen uint64) {
	t.mu.Lock()
	// 已被新的滚动事件取代
	if gen != t.settleGen || !t.scrolling {
		t.mu.Unlock()
		return
	}
	t.scrolling = false
	t.settleTimer = nil
	cb := t.OnScrollingChange
	t.mu.Unlock()

	if cb != nil {
		cb(false)
	}
}

func (t *ScrollTracker) flush(gen uint64) {
	t.mu.Lock()
	if gen != t.frameGen {
		t.mu.Unlock()
		return
	}
	t.frameTimer = nil
	offset, changed := t.filter.Update(t.pending)
	cb := t.OnOffset
	t.mu.Unlock()

	if changed && cb != nil {
		cb(offset)
	}
}

// Scrolling 为 true 时调用方应暂停指针事件等开销较大的交互
func (t *ScrollTracker) Scrolling() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scrolling
}

func (t *ScrollTracker) Offset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter.Last()
}

// Stop 取消所有待执行的定时器
func (t *ScrollTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.settleTimer != nil {
		t.settleTimer.Stop()
		t.settleTimer = nil
	}
	if t.frameTimer != nil {
		t.frameTimer.Stop()
		t.frameTimer = nil
	}
	t.settleGen++
	t.frameGen++
}
