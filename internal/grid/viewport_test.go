package grid

import (
	"math"
	"testing"
)

func TestVisibleRange(t *testing.T) {
	w := Window{Total: 100, ItemSize: 40, ContainerSize: 400, Buffer: 5}

	cases := []struct {
		name   string
		offset float64
		want   IndexRange
	}{
		{"顶部", 0, IndexRange{Start: 0, End: 20}},
		{"中间", 2000, IndexRange{Start: 45, End: 65}},
		{"接近底部", 3800, IndexRange{Start: 90, End: 100}},
		{"超出底部", 10000, IndexRange{Start: 100, End: 100}},
		{"负偏移", -50, IndexRange{Start: 0, End: 20}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := w.VisibleRange(c.offset)
			if got != c.want {
				t.Errorf("VisibleRange(%v) = %+v, want %+v", c.offset, got, c.want)
			}
			if got.Start < 0 || got.End > w.Total || got.Start > got.End {
				t.Errorf("range out of bounds: %+v", got)
			}
		})
	}
}

func TestVisibleRangeEmpty(t *testing.T) {
	if got := (Window{Total: 0, ItemSize: 40, ContainerSize: 400}).VisibleRange(0); got.Len() != 0 {
		t.Errorf("expected empty range, got %+v", got)
	}
	if got := (Window{Total: 10, ItemSize: 0, ContainerSize: 400}).VisibleRange(0); got.Len() != 0 {
		t.Errorf("expected empty range for zero item size, got %+v", got)
	}
}

func TestVisibleRangeNonFinite(t *testing.T) {
	inf := math.Inf(1)
	cases := []struct {
		name   string
		w      Window
		offset float64
		want   IndexRange
	}{
		{"容器无穷大", Window{Total: 10, ItemSize: 40, ContainerSize: inf, Buffer: 1}, 0, IndexRange{Start: 0, End: 10}},
		{"容器极大", Window{Total: 10, ItemSize: 40, ContainerSize: 1e300, Buffer: 1}, 0, IndexRange{Start: 0, End: 10}},
		{"容器为 NaN", Window{Total: 10, ItemSize: 40, ContainerSize: math.NaN(), Buffer: 1}, 0, IndexRange{Start: 0, End: 2}},
		{"偏移无穷大", Window{Total: 10, ItemSize: 40, ContainerSize: 120, Buffer: 1}, inf, IndexRange{Start: 10, End: 10}},
		{"偏移为 NaN", Window{Total: 10, ItemSize: 40, ContainerSize: 120, Buffer: 1}, math.NaN(), IndexRange{Start: 0, End: 5}},
		{"元素尺寸为 NaN", Window{Total: 10, ItemSize: math.NaN(), ContainerSize: 120, Buffer: 1}, 0, IndexRange{}},
		{"元素尺寸无穷大", Window{Total: 10, ItemSize: inf, ContainerSize: 120, Buffer: 1}, 0, IndexRange{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.w.VisibleRange(c.offset)
			if got != c.want {
				t.Errorf("VisibleRange(%v) = %+v, want %+v", c.offset, got, c.want)
			}
			if got.Start < 0 || got.End > c.w.Total || got.Start > got.End {
				t.Errorf("range out of bounds: %+v", got)
			}
		})
	}
}

func TestGridWindow(t *testing.T) {
	g := GridWindow{
		Rows: Window{Total: 30, ItemSize: 20, ContainerSize: 200, Buffer: 2},
		Cols: Window{Total: 35, ItemSize: 100, ContainerSize: 500, Buffer: 1},
	}
	rows, cols := g.Visible(100, 1000)
	if rows != (IndexRange{Start: 3, End: 17}) {
		t.Errorf("rows = %+v", rows)
	}
	if cols != (IndexRange{Start: 9, End: 16}) {
		t.Errorf("cols = %+v", cols)
	}
	if g.Cols.TotalSize() != 3500 || g.Cols.OffsetOf(3) != 300 {
		t.Error("unexpected column geometry")
	}
}

func TestOffsetFilter(t *testing.T) {
	f := NewOffsetFilter(40)

	if _, ok := f.Update(0); !ok {
		t.Error("first offset should propagate")
	}
	if _, ok := f.Update(15); ok {
		t.Error("sub-threshold move should be suppressed")
	}
	if got, ok := f.Update(20); ok || got != 0 {
		t.Errorf("move of exactly half an item should be suppressed, got %v %v", got, ok)
	}
	if got, ok := f.Update(25); !ok || got != 25 {
		t.Errorf("expected propagation, got %v %v", got, ok)
	}
	if f.Last() != 25 {
		t.Errorf("last = %v", f.Last())
	}
}
