package timeutil

import "testing"

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09:00", 540, true},
		{"9:00", 540, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{" 18:30 ", 1110, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"9:5", 0, false},
		{"123:00", 0, false},
		{"-1:00", 0, false},
		{"+9:00", 0, false},
	}

	for _, c := range cases {
		got, ok := ParseTimeToMinutes(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseTimeToMinutes(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseRange(t *testing.T) {
	t.Run("合法时间段", func(t *testing.T) {
		r, ok := ParseRange("09:00-12:30")
		if !ok {
			t.Fatal("expected range to parse")
		}
		if r.Start != 540 || r.End != 750 {
			t.Errorf("got %+v", r)
		}
		if r.Duration() != 210 {
			t.Errorf("expected 210 minutes, got %d", r.Duration())
		}
	})

	t.Run("不合法输入", func(t *testing.T) {
		for _, in := range []string{"09:00", "09:00-", "-12:00", "09:00-12:00-13:00", "9-12", "ab-cd"} {
			if _, ok := ParseRange(in); ok {
				t.Errorf("ParseRange(%q) should fail", in)
			}
		}
	})

	t.Run("跨零点按次日处理", func(t *testing.T) {
		r, ok := ParseRange("22:00-02:00")
		if !ok {
			t.Fatal("expected range to parse")
		}
		if !r.CrossesMidnight() {
			t.Error("expected range to cross midnight")
		}
		if r.Duration() != 240 {
			t.Errorf("expected 240 minutes, got %d", r.Duration())
		}
		if r.EndAbsolute() != 26*60 {
			t.Errorf("expected end 1560, got %d", r.EndAbsolute())
		}
	})

	t.Run("开始等于结束时长为零", func(t *testing.T) {
		r, _ := ParseRange("10:00-10:00")
		if r.Duration() != 0 {
			t.Errorf("expected 0, got %d", r.Duration())
		}
	})
}

func TestFormat(t *testing.T) {
	if got := FormatMinutes(545); got != "09:05" {
		t.Errorf("got %s", got)
	}
	if got := FormatMinutes(1500); got != "01:00" {
		t.Errorf("got %s", got)
	}
	if got := FormatRange(540, 720); got != "09:00-12:00" {
		t.Errorf("got %s", got)
	}
}

func TestOverlap(t *testing.T) {
	if got := Overlap(0, 100, 50, 200); got != 50 {
		t.Errorf("got %d", got)
	}
	if got := Overlap(0, 50, 50, 100); got != 0 {
		t.Errorf("got %d", got)
	}
}
