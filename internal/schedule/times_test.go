package schedule

import "testing"

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"22:00", 1320},
		{" 10:15 ", 615},
		{"9:05", 545},
		{"", 0},
		{"banana", 0},
		{"10h30", 0},
		{"10:xx", 0},
	}

	for _, tc := range cases {
		if got := ToMinutes(tc.in); got != tc.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestEffectiveEnd(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"recorded end wins", "09:00", "11:30", "11:30"},
		{"recorded end trimmed", "09:00", " 11:30 ", "11:30"},
		{"blank end adds three hours", "09:00", "", "12:00"},
		{"wraps past midnight", "23:00", "", "02:00"},
		{"keeps minutes", "19:45", "", "22:45"},
		{"unparseable start falls back", "abc", "", "22:00"},
		{"missing colon falls back", "1900", "", "22:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveEnd(tc.start, tc.end); got != tc.want {
				t.Errorf("EffectiveEnd(%q, %q) = %q, want %q", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	if Overlaps(540, 600, 600, 660) {
		t.Error("adjacent intervals must not overlap")
	}
	if !Overlaps(540, 660, 600, 720) {
		t.Error("intersecting intervals must overlap")
	}
	if Overlaps(540, 600, 720, 780) {
		t.Error("disjoint intervals must not overlap")
	}
}

func TestOverlapMinutes(t *testing.T) {
	if got := OverlapMinutes(540, 600, 580, 700); got != 20 {
		t.Errorf("overlap = %d, want 20", got)
	}
	if got := OverlapMinutes(540, 600, 600, 700); got != 0 {
		t.Errorf("adjacent overlap = %d, want 0", got)
	}
	if got := OverlapMinutes(540, 600, 700, 800); got != 0 {
		t.Errorf("disjoint overlap = %d, want 0 (floored)", got)
	}
}
