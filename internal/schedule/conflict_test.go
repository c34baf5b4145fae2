package schedule

import (
	"testing"

	"sala-service/internal/models"
	"sala-service/pkg/sequence"
)

func occ(id, room, date, start, end string) models.Occurrence {
	return models.Occurrence{
		ReservationRule: models.ReservationRule{
			Room:         room,
			WeekdayLabel: "domingo",
			StartDate:    date,
			StartTime:    start,
			EndTime:      end,
			Group:        "Grupo " + id,
			Activity:     "Atividade",
			Responsible:  "Resp",
			Status:       "Confirmado",
		},
		Date: date,
		ID:   id,
	}
}

func pairs(conflicts []models.Conflict) map[[2]string]bool {
	out := make(map[[2]string]bool, len(conflicts))
	for _, c := range conflicts {
		out[[2]string{c.A.OccurrenceID, c.B.OccurrenceID}] = true
	}
	return out
}

func TestDetect_AllPairsReported(t *testing.T) {
	occs := []models.Occurrence{
		occ("a", "Sala A", "04/01/2026", "09:00", "11:00"),
		occ("b", "Sala A", "04/01/2026", "09:30", "11:30"),
		occ("c", "Sala A", "04/01/2026", "10:00", "12:00"),
	}

	conflicts := Detect(occs)

	if len(conflicts) != 3 {
		t.Fatalf("got %d conflicts, want 3 (a-b, a-c, b-c)", len(conflicts))
	}

	got := pairs(conflicts)
	for _, want := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}} {
		if !got[want] {
			t.Errorf("missing conflict pair %v", want)
		}
	}
}

func TestDetect_EarlyExit(t *testing.T) {
	occs := []models.Occurrence{
		occ("a", "Sala A", "04/01/2026", "09:00", "10:00"),
		occ("b", "Sala A", "04/01/2026", "10:00", "11:00"),
		occ("c", "Sala A", "04/01/2026", "10:30", "11:30"),
	}

	conflicts := Detect(occs)

	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want exactly 1", len(conflicts))
	}
	if conflicts[0].A.OccurrenceID != "b" || conflicts[0].B.OccurrenceID != "c" {
		t.Errorf("conflict pair = %s-%s, want b-c", conflicts[0].A.OccurrenceID, conflicts[0].B.OccurrenceID)
	}
}

func TestDetect_Partitioning(t *testing.T) {
	t.Run("different rooms never conflict", func(t *testing.T) {
		occs := []models.Occurrence{
			occ("a", "Sala A", "04/01/2026", "09:00", "11:00"),
			occ("b", "Sala B", "04/01/2026", "09:00", "11:00"),
		}

		if got := Detect(occs); len(got) != 0 {
			t.Errorf("got %d conflicts, want 0", len(got))
		}
	})

	t.Run("different dates never conflict", func(t *testing.T) {
		occs := []models.Occurrence{
			occ("a", "Sala A", "04/01/2026", "09:00", "11:00"),
			occ("b", "Sala A", "11/01/2026", "09:00", "11:00"),
		}

		if got := Detect(occs); len(got) != 0 {
			t.Errorf("got %d conflicts, want 0", len(got))
		}
	})
}

func TestDetect_EffectiveEndFallback(t *testing.T) {
	// No recorded end: the first booking effectively runs 19:00-22:00 and
	// swallows the 21:00 one.
	occs := []models.Occurrence{
		occ("a", "Sala A", "04/01/2026", "19:00", ""),
		occ("b", "Sala A", "04/01/2026", "21:00", "21:45"),
	}

	conflicts := Detect(occs)

	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}
	if conflicts[0].A.TimeRange != "19:00-22:00" {
		t.Errorf("time range = %q, want %q", conflicts[0].A.TimeRange, "19:00-22:00")
	}
}

func TestDetect_CanonicalOrder(t *testing.T) {
	// Input order is reversed; side A must still be the earlier start.
	occs := []models.Occurrence{
		occ("late", "Sala A", "04/01/2026", "10:00", "12:00"),
		occ("early", "Sala A", "04/01/2026", "09:00", "11:00"),
	}

	conflicts := Detect(occs)

	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}

	c := conflicts[0]
	if c.A.OccurrenceID != "early" || c.B.OccurrenceID != "late" {
		t.Errorf("sides = %s, %s; want early, late", c.A.OccurrenceID, c.B.OccurrenceID)
	}

	want := sequence.GenerateID("Sala A", "04/01/2026", "early", "late")
	if c.ID != want {
		t.Errorf("conflict id = %q, want %q", c.ID, want)
	}
}

func TestDetect_DuplicateRowsDoNotSelfPair(t *testing.T) {
	// Two source rows with the same {group, room, date, start} collapse to
	// one id; the pair is the same booking entered twice, not a conflict.
	dup := occ("same", "Sala A", "04/01/2026", "09:00", "11:00")
	other := occ("other", "Sala A", "04/01/2026", "10:00", "12:00")

	conflicts := Detect([]models.Occurrence{dup, dup, other})

	got := pairs(conflicts)
	if got[[2]string{"same", "same"}] {
		t.Error("duplicate rows paired with themselves")
	}
	// The duplicate still conflicts with genuinely distinct bookings, once
	// per copy.
	if !got[[2]string{"same", "other"}] {
		t.Error("missing conflict pair [same other]")
	}
	if len(conflicts) != 2 {
		t.Errorf("got %d conflicts, want 2 (one per duplicate copy)", len(conflicts))
	}
}

func TestDetect_Deterministic(t *testing.T) {
	occs := []models.Occurrence{
		occ("a", "Sala B", "04/01/2026", "09:00", "11:00"),
		occ("b", "Sala B", "04/01/2026", "10:00", "12:00"),
		occ("c", "Sala A", "04/01/2026", "09:00", "11:00"),
		occ("d", "Sala A", "04/01/2026", "10:00", "12:00"),
		occ("e", "Sala A", "11/01/2026", "09:00", "11:00"),
		occ("f", "Sala A", "11/01/2026", "10:00", "12:00"),
	}

	first := Detect(occs)
	second := Detect(occs)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("got %d and %d conflicts, want 3 each", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("conflict order differs between runs at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}
