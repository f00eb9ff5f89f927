package schedule

import "testing"

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		a, b Window
		want bool
	}{
		{Window{Monday, 9, 11}, Window{Monday, 10, 12}, true},
		{Window{Monday, 9, 11}, Window{Monday, 11, 13}, false},
		{Window{Monday, 9, 17}, Window{Monday, 10, 11}, true},
		{Window{Monday, 9, 11}, Window{Tuesday, 9, 11}, false},
		{Window{Friday, 0, 23}, Window{Friday, 22, 23}, true},
	}

	for _, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Errorf("(%v).Overlaps(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if got := tc.b.Overlaps(tc.a); got != tc.want {
			t.Errorf("(%v).Overlaps(%v) = %v, want %v (symmetry)", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestBackToBackWindowsDoNotCollide(t *testing.T) {
	first := Window{Wednesday, 10, 12}
	second := Window{Wednesday, 12, 14}

	if first.Overlaps(second) {
		t.Errorf("windows %v and %v should not collide", first, second)
	}
	if second.Overlaps(first) {
		t.Errorf("windows %v and %v should not collide", second, first)
	}
}

func TestOverlapIsDayScoped(t *testing.T) {
	for _, day := range Days() {
		a := Window{day, 9, 11}
		b := Window{Sunday, 9, 11}
		want := day == Sunday
		if got := a.Overlaps(b); got != want {
			t.Errorf("(%v).Overlaps(%v) = %v, want %v", a, b, got, want)
		}
	}
}

func TestZeroLengthWindows(t *testing.T) {
	// end <= start is not rejected upstream; such a window must overlap
	// nothing and be contained by nothing.
	empty := Window{Monday, 10, 10}
	inverted := Window{Monday, 12, 9}
	busy := Window{Monday, 8, 18}

	if empty.Overlaps(busy) || busy.Overlaps(empty) {
		t.Errorf("zero-length window %v should not overlap %v", empty, busy)
	}
	if inverted.Overlaps(busy) || busy.Overlaps(inverted) {
		t.Errorf("inverted window %v should not overlap %v", inverted, busy)
	}
	// Contains compares raw bounds, so a zero-or-negative-length range is
	// trivially covered by any window spanning its endpoints.
	if !busy.Contains(empty) {
		t.Errorf("(%v).Contains(%v) = false, want true", busy, empty)
	}
	if !busy.Contains(inverted) {
		t.Errorf("(%v).Contains(%v) = false, want true", busy, inverted)
	}
}

func TestContains(t *testing.T) {
	free := Window{Thursday, 8, 18}

	cases := []struct {
		routine Window
		want    bool
	}{
		{Window{Thursday, 9, 11}, true},
		{Window{Thursday, 8, 18}, true},
		{Window{Thursday, 7, 11}, false},
		{Window{Thursday, 9, 19}, false},
		{Window{Friday, 9, 11}, false},
	}

	for _, tc := range cases {
		if got := free.Contains(tc.routine); got != tc.want {
			t.Errorf("(%v).Contains(%v) = %v, want %v", free, tc.routine, got, tc.want)
		}
	}
}

func TestDayValid(t *testing.T) {
	for _, day := range Days() {
		if !day.Valid() {
			t.Errorf("day %q should be valid", day)
		}
	}
	if Day("monday").Valid() {
		t.Error("day labels are case sensitive")
	}
	if Day("Funday").Valid() {
		t.Error("unknown day should not be valid")
	}
}
