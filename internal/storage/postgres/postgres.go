package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sala-service/internal/models"

	_ "github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### reservation rules ####

func (s *Storage) ListReservationRules(ctx context.Context) ([]models.ReservationRule, error) {
	const op = "storage.postgres.ListReservationRules"

	rows, err := s.db.QueryContext(ctx, `
		SELECT room, weekday_label, start_date, start_time, end_time,
		       recurrence, group_name, activity, responsible, status
		FROM reservation_rules
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var rules []models.ReservationRule

	for rows.Next() {
		var r models.ReservationRule
		err := rows.Scan(&r.Room, &r.WeekdayLabel, &r.StartDate, &r.StartTime,
			&r.EndTime, &r.Recurrence, &r.Group, &r.Activity, &r.Responsible, &r.Status)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rules, nil
}

func (s *Storage) ReplaceReservationRules(ctx context.Context, rules []models.ReservationRule) error {
	const op = "storage.postgres.ReplaceReservationRules"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_rules`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(rules) > 0 {
		var placeholders []string
		var args []any

		for i, r := range rules {
			base := i * 10
			placeholders = append(placeholders, fmt.Sprintf(
				"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
			))
			args = append(args, r.Room, r.WeekdayLabel, r.StartDate, r.StartTime,
				r.EndTime, r.Recurrence, r.Group, r.Activity, r.Responsible, r.Status)
		}

		query := fmt.Sprintf(`
			INSERT INTO reservation_rules
				(room, weekday_label, start_date, start_time, end_time,
				 recurrence, group_name, activity, responsible, status)
			VALUES %s`,
			strings.Join(placeholders, ","),
		)

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s exec: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// #### rooms ####

func (s *Storage) ListRooms(ctx context.Context) ([]models.Room, error) {
	const op = "storage.postgres.ListRooms"

	rows, err := s.db.QueryContext(ctx, `SELECT name, capacity FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var rooms []models.Room

	for rows.Next() {
		var r models.Room
		if err := rows.Scan(&r.Name, &r.Capacity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		rooms = append(rooms, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rooms, nil
}

func (s *Storage) ReplaceRooms(ctx context.Context, rooms []models.Room) error {
	const op = "storage.postgres.ReplaceRooms"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(rooms) > 0 {
		var placeholders []string
		var args []any

		for i, r := range rooms {
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
			args = append(args, r.Name, r.Capacity)
		}

		query := fmt.Sprintf(`INSERT INTO rooms (name, capacity) VALUES %s`,
			strings.Join(placeholders, ","))

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s exec: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// #### groups ####

func (s *Storage) ListGroups(ctx context.Context) ([]models.Group, error) {
	const op = "storage.postgres.ListGroups"

	rows, err := s.db.QueryContext(ctx, `SELECT name, participants FROM groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var groups []models.Group

	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.Name, &g.Participants); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return groups, nil
}

func (s *Storage) ReplaceGroups(ctx context.Context, groups []models.Group) error {
	const op = "storage.postgres.ReplaceGroups"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM groups`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(groups) > 0 {
		var placeholders []string
		var args []any

		for i, g := range groups {
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
			args = append(args, g.Name, g.Participants)
		}

		query := fmt.Sprintf(`INSERT INTO groups (name, participants) VALUES %s`,
			strings.Join(placeholders, ","))

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s exec: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
