package schedule

import (
	"sort"

	"sala-service/internal/models"
	"sala-service/pkg/sequence"
)

type partitionKey struct {
	room string
	date string
}

// Detect finds every pair of occurrences that overlap in the same room on the
// same date. Occurrences are partitioned by (room, date) and swept in start
// time order; once a later occurrence starts at or after the current one's
// effective end, no further pair with it can conflict and the inner scan
// stops. All mutually overlapping pairs are reported, not just neighbors.
func Detect(occurrences []models.Occurrence) []models.Conflict {
	partitions := make(map[partitionKey][]models.Occurrence)
	var keys []partitionKey

	for _, o := range occurrences {
		k := partitionKey{room: o.Room, date: o.Date}
		if _, seen := partitions[k]; !seen {
			keys = append(keys, k)
		}
		partitions[k] = append(partitions[k], o)
	}

	// Map iteration order is random; keep output stable run to run.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].room != keys[j].room {
			return keys[i].room < keys[j].room
		}
		return keys[i].date < keys[j].date
	})

	var conflicts []models.Conflict

	for _, k := range keys {
		group := partitions[k]
		if len(group) < 2 {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return ToMinutes(group[i].StartTime) < ToMinutes(group[j].StartTime)
		})

		ends := make([]string, len(group))
		for i, o := range group {
			ends[i] = EffectiveEnd(o.StartTime, o.EndTime)
		}

		for i := range group {
			startI := ToMinutes(group[i].StartTime)
			endI := ToMinutes(ends[i])

			for j := i + 1; j < len(group); j++ {
				startJ := ToMinutes(group[j].StartTime)
				if startJ >= endI {
					break
				}

				// Rows with identical {group, room, date, start} share an
				// id; a duplicate of the same booking is not a conflict
				// with itself.
				if group[j].ID == group[i].ID {
					continue
				}

				endJ := ToMinutes(ends[j])
				if !Overlaps(startI, endI, startJ, endJ) {
					continue
				}

				a, b := group[i], group[j]
				conflicts = append(conflicts, models.Conflict{
					ID:      sequence.GenerateID(k.room, k.date, a.ID, b.ID),
					Room:    k.room,
					Date:    k.date,
					Weekday: a.WeekdayLabel,
					A:       conflictSide(a, ends[i]),
					B:       conflictSide(b, ends[j]),
				})
			}
		}
	}

	return conflicts
}

func conflictSide(o models.Occurrence, end string) models.ConflictSide {
	return models.ConflictSide{
		OccurrenceID: o.ID,
		Group:        o.Group,
		Activity:     o.Activity,
		TimeRange:    o.StartTime + "-" + end,
		Responsible:  o.Responsible,
		Status:       o.Status,
	}
}
