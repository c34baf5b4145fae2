package models

// ReservationRule is one source row of the reservations sheet: a one-off or
// recurring booking. Dates are day-first DD/MM/YYYY strings, times HH:MM,
// exactly as they round-trip at the boundary.
type ReservationRule struct {
	Room         string `db:"room" json:"room"`
	WeekdayLabel string `db:"weekday_label" json:"weekday_label"`
	StartDate    string `db:"start_date" json:"start_date"`
	StartTime    string `db:"start_time" json:"start_time"`
	EndTime      string `db:"end_time" json:"end_time"`
	Recurrence   string `db:"recurrence" json:"recurrence"`
	Group        string `db:"group_name" json:"group"`
	Activity     string `db:"activity" json:"activity"`
	Responsible  string `db:"responsible" json:"responsible"`
	Status       string `db:"status" json:"status"`
}

// Occurrence is one concrete firing of a rule on a calendar date. ID is a
// deterministic fingerprint of {group, room, date, start time}; identical
// logical bookings collide on purpose.
type Occurrence struct {
	ReservationRule
	Date string `json:"occurrence_date"`
	ID   string `json:"occurrence_id"`
}

// ConflictSide carries one occurrence's view of a conflict.
type ConflictSide struct {
	OccurrenceID string `json:"occurrence_id"`
	Group        string `json:"group"`
	Activity     string `json:"activity"`
	TimeRange    string `json:"time_range"`
	Responsible  string `json:"responsible"`
	Status       string `json:"status"`
}

// Conflict is a pair of occurrences in the same room on the same date with
// overlapping time windows. A is the earlier-starting side (input order on
// ties), so display order is deterministic.
type Conflict struct {
	ID      string       `json:"conflict_id"`
	Room    string       `json:"room"`
	Date    string       `json:"date"`
	Weekday string       `json:"weekday"`
	A       ConflictSide `json:"reservation_a"`
	B       ConflictSide `json:"reservation_b"`
}

// Recommendation is the advisory record produced for one conflict: ranked
// replacement rooms per side, the remaining free rooms, and an optional
// time-shift hint for short overlaps.
type Recommendation struct {
	ConflictID     string   `json:"conflict_id"`
	Room           string   `json:"room"`
	Date           string   `json:"date"`
	GroupA         string   `json:"group_a"`
	GroupB         string   `json:"group_b"`
	RecommendedA   []string `json:"recommended_rooms_a"`
	RecommendedB   []string `json:"recommended_rooms_b"`
	OtherFreeA     []string `json:"other_free_rooms_a"`
	OtherFreeB     []string `json:"other_free_rooms_b"`
	TimeAdjustment string   `json:"time_adjustment"`
	Resolved       bool     `json:"resolved"`
}

// Room is a reference-table row. Capacity coerces to 0 when blank or
// non-numeric in the source sheet.
type Room struct {
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
}

// Group is a reference-table row. Participants coerces to 0 when missing.
type Group struct {
	Name         string `db:"name" json:"name"`
	Participants int    `db:"participants" json:"participants"`
}

// Warning reports a per-rule expansion failure that degraded the rule to a
// single occurrence instead of aborting the batch.
type Warning struct {
	Row    int    `json:"row"`
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}
