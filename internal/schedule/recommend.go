package schedule

import (
	"fmt"
	"sort"
	"strings"

	"sala-service/internal/models"
)

// Recommended room lists are capped so the advisory output stays readable.
const maxRecommended = 5

// shortOverlapMinutes is the longest overlap a 30-minute shift can absorb.
const shortOverlapMinutes = 30

type window struct {
	start int
	end   int
}

// Recommend builds one advisory record per conflict: for each side it looks
// for rooms free in that exact date/time window whose capacity stays within
// tolerance of what the booking needs, and for short overlaps it suggests a
// 30-minute shift instead. Reference-table misses degrade to zero capacities
// rather than failing.
func Recommend(occurrences []models.Occurrence, rooms []models.Room, groups []models.Group, conflicts []models.Conflict) []models.Recommendation {
	capacities := make(map[string]int, len(rooms))
	for _, r := range rooms {
		capacities[r.Name] = r.Capacity
	}

	participants := make(map[string]int, len(groups))
	for _, g := range groups {
		participants[g.Name] = g.Participants
	}

	// Pre-index occupancy per (room, date) so availability checks do not
	// rescan the full occurrence set per conflict.
	occupancy := make(map[partitionKey][]window)
	for _, o := range occurrences {
		k := partitionKey{room: o.Room, date: o.Date}
		occupancy[k] = append(occupancy[k], occurrenceWindow(o))
	}

	recommendations := make([]models.Recommendation, 0, len(conflicts))

	for _, c := range conflicts {
		roomCap := capacities[c.Room]

		countA, okA := participants[c.A.Group]
		countB, okB := participants[c.B.Group]
		if !okA || !okB {
			// When either group is missing from the reference table, both
			// sides fall back to unknown head counts. See DESIGN.md.
			countA, countB = 0, 0
		}

		winA := parseWindow(c.A.TimeRange)
		winB := parseWindow(c.B.TimeRange)

		recA, freeA := roomOptions(rooms, capacities, occupancy, c.Date, winA, roomCap, countA)
		recB, freeB := roomOptions(rooms, capacities, occupancy, c.Date, winB, roomCap, countB)

		adjustment := ""
		if d := OverlapMinutes(winA.start, winA.end, winB.start, winB.end); d > 0 && d <= shortOverlapMinutes {
			adjustment = fmt.Sprintf("%d min overlap: shifting one booking by 30 minutes clears it", d)
		}

		recommendations = append(recommendations, models.Recommendation{
			ConflictID:     c.ID,
			Room:           c.Room,
			Date:           c.Date,
			GroupA:         c.A.Group,
			GroupB:         c.B.Group,
			RecommendedA:   recA,
			RecommendedB:   recB,
			OtherFreeA:     freeA,
			OtherFreeB:     freeB,
			TimeAdjustment: adjustment,
			Resolved:       len(recA) > 0 || len(recB) > 0 || adjustment != "",
		})
	}

	return recommendations
}

// roomOptions returns up to maxRecommended capacity-ranked replacement rooms
// for one side of a conflict, plus every remaining free room.
func roomOptions(rooms []models.Room, capacities map[string]int, occupancy map[partitionKey][]window, date string, win window, originalCap, headCount int) (recommended, otherFree []string) {
	ref := originalCap
	if headCount > 0 && headCount < ref {
		ref = headCount
	}

	minCap := float64(ref) * 0.9
	if flat := float64(ref - 5); flat > minCap {
		minCap = flat
	}

	var free []models.Room
	for _, r := range rooms {
		if isFree(occupancy, r.Name, date, win) {
			free = append(free, r)
		}
	}

	var eligible []models.Room
	for _, r := range free {
		if float64(r.Capacity) >= minCap {
			eligible = append(eligible, r)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		di := absDiff(eligible[i].Capacity, originalCap)
		dj := absDiff(eligible[j].Capacity, originalCap)
		if di != dj {
			return di < dj
		}
		return eligible[i].Capacity > eligible[j].Capacity
	})

	if len(eligible) > maxRecommended {
		eligible = eligible[:maxRecommended]
	}

	picked := make(map[string]bool, len(eligible))
	for _, r := range eligible {
		recommended = append(recommended, r.Name)
		picked[r.Name] = true
	}

	for _, r := range free {
		if !picked[r.Name] {
			otherFree = append(otherFree, r.Name)
		}
	}

	return recommended, otherFree
}

// isFree reports whether the room has no occurrence overlapping the window on
// that date. A zero-width or inverted window never overlaps anything.
func isFree(occupancy map[partitionKey][]window, room, date string, win window) bool {
	for _, occupied := range occupancy[partitionKey{room: room, date: date}] {
		if Overlaps(win.start, win.end, occupied.start, occupied.end) {
			return false
		}
	}

	return true
}

func occurrenceWindow(o models.Occurrence) window {
	return window{
		start: ToMinutes(o.StartTime),
		end:   ToMinutes(EffectiveEnd(o.StartTime, o.EndTime)),
	}
}

func parseWindow(timeRange string) window {
	start, end, _ := strings.Cut(timeRange, "-")

	return window{start: ToMinutes(start), end: ToMinutes(end)}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}

	return b - a
}
