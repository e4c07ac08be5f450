package grid

import "testing"

type fakeReleases struct {
	handlers map[int]func()
	next     int
}

func newFakeReleases() *fakeReleases {
	return &fakeReleases{handlers: make(map[int]func())}
}

func (f *fakeReleases) OnRelease(handler func()) func() {
	id := f.next
	f.next++
	f.handlers[id] = handler
	return func() { delete(f.handlers, id) }
}

// release 模拟在网格外松开鼠标
func (f *fakeReleases) release() {
	for _, h := range f.handlers {
		h()
	}
}

func TestNormalize(t *testing.T) {
	ranges := []SelectionRange{
		{StartRow: 0, StartCol: 0, EndRow: 3, EndCol: 4},
		{StartRow: 3, StartCol: 4, EndRow: 0, EndCol: 0},
		{StartRow: 2, StartCol: 0, EndRow: 1, EndCol: 7},
		{StartRow: 4, StartCol: 4, EndRow: 4, EndCol: 4},
	}
	for _, r := range ranges {
		n := r.Normalize()
		if n.MinRow > n.MaxRow || n.MinCol > n.MaxCol {
			t.Errorf("normalize(%+v) = %+v", r, n)
		}
		cells := n.Cells()
		want := (n.MaxRow - n.MinRow + 1) * (n.MaxCol - n.MinCol + 1)
		if len(cells) != want {
			t.Errorf("expected %d cells, got %d", want, len(cells))
		}
		for _, c := range cells {
			if !n.Contains(c) {
				t.Errorf("cell %+v outside range %+v", c, n)
			}
		}
	}
}

func TestSelectionDrag(t *testing.T) {
	releases := newFakeReleases()
	s := NewSelection(Bounds{Rows: 5, Cols: 10}, SelectionPolicy{}, releases)

	var completed [][]Cell
	var changes int
	s.OnChange = func(NormalizedRange) { changes++ }
	s.OnComplete = func(_ NormalizedRange, cells []Cell) { completed = append(completed, cells) }

	if !s.Begin(Cell{Row: 3, Col: 6}, PointerEvent{Button: ButtonPrimary}) {
		t.Fatal("expected selection to begin")
	}
	if len(releases.handlers) != 1 {
		t.Fatalf("expected one release subscription, got %d", len(releases.handlers))
	}
	s.Extend(Cell{Row: 1, Col: 4})
	s.Extend(Cell{Row: 1, Col: 4})

	if changes != 2 {
		t.Errorf("expected 2 change notifications, got %d", changes)
	}

	r, _ := s.Range()
	if r.StartRow != 3 || r.StartCol != 6 || r.EndRow != 1 || r.EndCol != 4 {
		t.Errorf("anchor and endpoint should be kept as given, got %+v", r)
	}

	s.Complete()
	s.Complete()
	if len(completed) != 1 {
		t.Fatalf("expected exactly one completion, got %d", len(completed))
	}
	if len(completed[0]) != 9 {
		t.Errorf("expected 3x3 cells, got %d", len(completed[0]))
	}
	if len(releases.handlers) != 0 {
		t.Error("expected release subscription to be removed after completion")
	}

	// 完成后继续移动不应改变选区
	s.Extend(Cell{Row: 0, Col: 0})
	n, _ := s.Normalized()
	if n.MinRow != 1 || n.MaxCol != 6 {
		t.Errorf("extend after completion changed range: %+v", n)
	}
}

func TestSelectionGlobalRelease(t *testing.T) {
	releases := newFakeReleases()
	s := NewSelection(Bounds{Rows: 5, Cols: 10}, SelectionPolicy{}, releases)

	var got NormalizedRange
	completions := 0
	s.OnComplete = func(n NormalizedRange, _ []Cell) {
		got = n
		completions++
	}

	s.Begin(Cell{Row: 0, Col: 0}, PointerEvent{})
	s.Extend(Cell{Row: 2, Col: 3})
	s.Extend(Cell{Row: 4, Col: 9})
	releases.release()

	if completions != 1 {
		t.Fatalf("expected completion from global release, got %d", completions)
	}
	if got.MaxRow != 4 || got.MaxCol != 9 {
		t.Errorf("completion should reflect the final endpoint, got %+v", got)
	}
}

func TestSelectionPolicy(t *testing.T) {
	t.Run("右键不开始选区", func(t *testing.T) {
		s := NewSelection(Bounds{Rows: 5, Cols: 5}, SelectionPolicy{}, nil)
		if s.Begin(Cell{}, PointerEvent{Button: ButtonSecondary}) {
			t.Error("secondary button should not start a selection")
		}
	})

	t.Run("需要修饰键", func(t *testing.T) {
		s := NewSelection(Bounds{Rows: 5, Cols: 5}, SelectionPolicy{RequireModifier: true}, nil)
		if s.Begin(Cell{}, PointerEvent{}) {
			t.Error("selection without modifier should be ignored")
		}
		if !s.Begin(Cell{}, PointerEvent{Modifier: true}) {
			t.Error("selection with modifier should begin")
		}
	})

	t.Run("新的按下丢弃旧选区", func(t *testing.T) {
		s := NewSelection(Bounds{Rows: 5, Cols: 5}, SelectionPolicy{}, nil)
		s.Begin(Cell{Row: 0, Col: 0}, PointerEvent{})
		s.Extend(Cell{Row: 4, Col: 4})
		s.Complete()
		s.Begin(Cell{Row: 2, Col: 2}, PointerEvent{})
		if s.IsCellSelected(Cell{Row: 0, Col: 0}) {
			t.Error("previous selection should be discarded")
		}
		if !s.IsCellSelected(Cell{Row: 2, Col: 2}) {
			t.Error("new anchor should be selected")
		}
	})

	t.Run("越界坐标被限制在网格内", func(t *testing.T) {
		s := NewSelection(Bounds{Rows: 5, Cols: 5}, SelectionPolicy{}, nil)
		if s.Begin(Cell{Row: 9, Col: 0}, PointerEvent{}) {
			t.Error("out of bounds begin should be ignored")
		}
		s.Begin(Cell{Row: 1, Col: 1}, PointerEvent{})
		s.Extend(Cell{Row: 99, Col: -3})
		n, _ := s.Normalized()
		if n.MaxRow != 4 || n.MinCol != 0 {
			t.Errorf("expected clamp, got %+v", n)
		}
	})
}

func TestSelectionBorderAndClear(t *testing.T) {
	s := NewSelection(Bounds{Rows: 5, Cols: 5}, SelectionPolicy{}, nil)
	s.Begin(Cell{Row: 1, Col: 1}, PointerEvent{})
	s.Extend(Cell{Row: 3, Col: 3})
	s.Complete()

	cases := map[Cell]Border{
		{Row: 1, Col: 1}: {Top: true, Left: true},
		{Row: 2, Col: 2}: {},
		{Row: 3, Col: 2}: {Bottom: true},
		{Row: 2, Col: 3}: {Right: true},
		{Row: 0, Col: 0}: {},
	}
	for cell, want := range cases {
		if got := s.IsCellOnBorder(cell); got != want {
			t.Errorf("IsCellOnBorder(%+v) = %+v, want %+v", cell, got, want)
		}
	}

	single := NewSelection(Bounds{Rows: 5, Cols: 5}, SelectionPolicy{}, nil)
	single.Begin(Cell{Row: 2, Col: 2}, PointerEvent{})
	if b := single.IsCellOnBorder(Cell{Row: 2, Col: 2}); !(b.Top && b.Bottom && b.Left && b.Right) {
		t.Errorf("single cell should have all borders, got %+v", b)
	}

	s.Clear()
	if s.Active() || len(s.Cells()) != 0 || s.IsCellSelected(Cell{Row: 2, Col: 2}) {
		t.Error("expected selection to be cleared")
	}
}
