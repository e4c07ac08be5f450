package grid

import (
	"math"
	"sync"
)

// UnitKey 标识一个渲染单元：时间段 × 日期 × 助理
type UnitKey struct {
	Slot   int
	Day    int
	Helper int
}

// UnitDeps 是渲染单元依赖的全部输入，未变化时直接复用上次的结果
type UnitDeps struct {
	ShiftRevision string
	Selected      bool
	Border        Border
	Editing       bool
	ScrollBucket  int
}

type memoEntry[V any] struct {
	deps  UnitDeps
	value V
}

type RenderMemo[V any] struct {
	mu      sync.Mutex
	entries map[UnitKey]memoEntry[V]
	hits    int
	misses  int
}

func NewRenderMemo[V any]() *RenderMemo[V] {
	return &RenderMemo[V]{entries: make(map[UnitKey]memoEntry[V])}
}

func (m *RenderMemo[V]) Resolve(key UnitKey, deps UnitDeps, compute func() V) V {
	m.mu.Lock()
	if entry, ok := m.entries[key]; ok && entry.deps == deps {
		m.hits++
		m.mu.Unlock()
		return entry.value
	}
	m.misses++
	m.mu.Unlock()

	value := compute()

	m.mu.Lock()
	m.entries[key] = memoEntry[V]{deps: deps, value: value}
	m.mu.Unlock()
	return value
}

// Prune 删除 keep 返回 false 的单元，通常用于丢弃已滚出窗口的部分
func (m *RenderMemo[V]) Prune(keep func(UnitKey) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if !keep(key) {
			delete(m.entries, key)
		}
	}
}

func (m *RenderMemo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *RenderMemo[V]) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// ScrollBucket 把滚动位置量化为桶号
func ScrollBucket(offset, bucketSize float64) int {
	if bucketSize <= 0 {
		return 0
	}
	return int(math.Floor(offset / bucketSize))
}
