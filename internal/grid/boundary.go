package grid

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Guard 在保护下执行渲染函数，panic 或返回错误时记录日志并返回 fallback
func Guard[T any](logger *slog.Logger, name string, render func() (T, error), fallback T) (result T, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			logger.Error("渲染时发生异常", "view", name, "error", err, "stack", string(debug.Stack()))
			result = fallback
		}
	}()

	result, err = render()
	if err != nil {
		logger.Error("渲染失败", "view", name, "error", err)
		return fallback, err
	}
	return result, nil
}

// Boundary 一旦捕获到错误就持续显示 fallback，直到调用 Reset（即重新加载）
type Boundary[T any] struct {
	mu       sync.Mutex
	name     string
	logger   *slog.Logger
	fallback T
	err      error
}

func NewBoundary[T any](logger *slog.Logger, name string, fallback T) *Boundary[T] {
	return &Boundary[T]{
		name:     name,
		logger:   logger,
		fallback: fallback,
	}
}

func (b *Boundary[T]) Render(render func() (T, error)) T {
	b.mu.Lock()
	if b.err != nil {
		b.mu.Unlock()
		return b.fallback
	}
	b.mu.Unlock()

	result, err := Guard(b.logger, b.name, render, b.fallback)
	if err != nil {
		b.mu.Lock()
		b.err = err
		b.mu.Unlock()
	}
	return result
}

func (b *Boundary[T]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *Boundary[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = nil
}
