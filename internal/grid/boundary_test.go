package grid

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGuard(t *testing.T) {
	logger := discardLogger()

	t.Run("正常渲染", func(t *testing.T) {
		got, err := Guard(logger, "grid", func() (string, error) { return "ok", nil }, "fallback")
		if err != nil || got != "ok" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("panic 返回 fallback", func(t *testing.T) {
		got, err := Guard(logger, "grid", func() (string, error) {
			var m map[string]int
			m["x"] = 1
			return "unreachable", nil
		}, "fallback")
		if err == nil || got != "fallback" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("错误返回 fallback", func(t *testing.T) {
		got, err := Guard(logger, "grid", func() (string, error) { return "", errors.New("boom") }, "fallback")
		if err == nil || got != "fallback" {
			t.Errorf("got %q, %v", got, err)
		}
	})
}

func TestBoundarySticky(t *testing.T) {
	b := NewBoundary(discardLogger(), "roster", "请重新加载")

	calls := 0
	b.Render(func() (string, error) {
		calls++
		panic("bad row")
	})
	got := b.Render(func() (string, error) {
		calls++
		return "ok", nil
	})
	if got != "请重新加载" || calls != 1 {
		t.Errorf("expected sticky fallback, got %q after %d calls", got, calls)
	}
	if b.Err() == nil {
		t.Error("expected recorded error")
	}

	b.Reset()
	if got := b.Render(func() (string, error) { return "ok", nil }); got != "ok" {
		t.Errorf("expected recovery after reset, got %q", got)
	}
}
