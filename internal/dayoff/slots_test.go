package dayoff

import "testing"

func newPicker(t *testing.T) *SlotPicker {
	t.Helper()
	slots, err := ParseSlots(DefaultSlots)
	if err != nil {
		t.Fatal(err)
	}
	return NewSlotPicker(slots)
}

func TestSlotPickerRange(t *testing.T) {
	p := newPicker(t)

	if _, ok := p.TimeSpec(); ok {
		t.Error("empty picker should have no time spec")
	}

	p.Select(3)
	p.Select(1)
	if got := p.Selected(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("expected inclusive range 1..3, got %v", got)
	}
	if !p.IsSelected(2) {
		t.Error("slot between endpoints should be selected")
	}
	if spec, _ := p.TimeSpec(); spec != "09:00-18:00" {
		t.Errorf("got %q", spec)
	}
}

func TestSlotPickerAll(t *testing.T) {
	p := newPicker(t)
	p.Select(0)
	p.Select(len(DefaultSlots) - 1)
	if spec, _ := p.TimeSpec(); spec != "all" {
		t.Errorf("expected all, got %q", spec)
	}
}

func TestSlotPickerReselectClears(t *testing.T) {
	p := newPicker(t)
	p.Select(1)
	p.Select(3)
	p.Select(2)
	if p.Selected() != nil {
		t.Errorf("re-selecting a selected slot should clear everything, got %v", p.Selected())
	}

	if p.Select(99) {
		t.Error("out of range slot should be rejected")
	}
}

func TestParseSlotsInvalid(t *testing.T) {
	if _, err := ParseSlots([]string{"09:00-12:00", "朝"}); err == nil {
		t.Error("expected error")
	}
	if _, err := ParseSlots(nil); err == nil {
		t.Error("expected error for empty list")
	}
}
