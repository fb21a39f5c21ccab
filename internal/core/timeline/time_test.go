package timeline

import "testing"

func TestFromFrames(t *testing.T) {
	tm, err := FromFrames(30, 30)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tm != T(BaseRate) {
		t.Fatalf("got %d want %d", tm, BaseRate)
	}
}

func TestFromFramesInvalidRate(t *testing.T) {
	if _, err := FromFrames(1, 7); err == nil {
		t.Fatal("expected error for non-dividing rate")
	}
	if _, err := FromFrames(1, 0); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestFloorCeil(t *testing.T) {
	step := T(1000)
	cases := []struct {
		in         T
		floor, cei T
	}{
		{1500, 1000, 2000},
		{1000, 1000, 1000},
		{-1500, -2000, -1000},
		{0, 0, 0},
	}
	for _, c := range cases {
		if got := c.in.Floor(step); got != c.floor {
			t.Errorf("Floor(%d) = %d, want %d", c.in, got, c.floor)
		}
		if got := c.in.Ceil(step); got != c.cei {
			t.Errorf("Ceil(%d) = %d, want %d", c.in, got, c.cei)
		}
	}
}

func TestFrameCountTruncates(t *testing.T) {
	r := NewRange(0, T(BaseRate)+1)
	if got := r.FrameCount(30); got != 30 {
		t.Fatalf("got %d want 30", got)
	}
}

func TestRangeHalfOpen(t *testing.T) {
	r := NewRange(0, 100)
	if !r.Contains(0) {
		t.Fatal("expected start to be contained")
	}
	if r.Contains(100) {
		t.Fatal("end must not be contained")
	}
}

func TestRangeIntersect(t *testing.T) {
	a := NewRange(0, 100)
	b := NewRange(50, 150)
	got := a.Intersect(b)
	if got != (Range{Start: 50, End: 100}) {
		t.Fatalf("got %+v", got)
	}
}

func TestRangeSaturatingAdd(t *testing.T) {
	max := T(1<<63 - 1)
	if got := max.Add(10); got != max {
		t.Fatalf("expected saturation, got %d", got)
	}
}
