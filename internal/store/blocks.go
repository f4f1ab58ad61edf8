package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cadence/internal/calendar"
	"cadence/internal/timeline"
)

const blockColumns = `id, user_id, title, start_time, end_time, block_type, is_protected`

// CreateTimeBlock inserts a time block, assigning an id when empty.
func (s *Store) CreateTimeBlock(ctx context.Context, b *calendar.TimeBlock) error {
	if b.ID == "" {
		b.ID = newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_blocks (`+blockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.UserID, b.Title, formatTime(b.StartTime), formatTime(b.EndTime), b.BlockType, b.IsProtected)
	if err != nil {
		return fmt.Errorf("insert time block: %w", err)
	}
	return nil
}

// GetTimeBlock returns the user's time block by id.
func (s *Store) GetTimeBlock(ctx context.Context, userID, id string) (*calendar.TimeBlock, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+blockColumns+`
		FROM time_blocks
		WHERE id = ? AND user_id = ?
	`, id, userID)
	block, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("time block %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get time block: %w", err)
	}
	return block, nil
}

// UpdateTimeBlock overwrites every mutable field of a time block.
func (s *Store) UpdateTimeBlock(ctx context.Context, b *calendar.TimeBlock) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE time_blocks
		SET title = ?,
		    start_time = ?,
		    end_time = ?,
		    block_type = ?,
		    is_protected = ?
		WHERE id = ? AND user_id = ?
	`, b.Title, formatTime(b.StartTime), formatTime(b.EndTime), b.BlockType, b.IsProtected, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update time block: %w", err)
	}
	return requireAffected(res, "time block", b.ID)
}

// DeleteTimeBlock removes a time block.
func (s *Store) DeleteTimeBlock(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM time_blocks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete time block: %w", err)
	}
	return requireAffected(res, "time block", id)
}

// TimeBlocks returns the user's time blocks intersecting r, ordered by start.
func (s *Store) TimeBlocks(ctx context.Context, userID string, r timeline.Range) ([]calendar.TimeBlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+blockColumns+`
		FROM time_blocks
		WHERE user_id = ?
		  AND start_time <= ?
		  AND end_time >= ?
		ORDER BY start_time ASC, id ASC
	`, userID, formatTime(r.End), formatTime(r.Start))
	if err != nil {
		return nil, fmt.Errorf("query time blocks: %w", err)
	}
	defer rows.Close()

	var blocks []calendar.TimeBlock
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time block: %w", err)
		}
		blocks = append(blocks, *block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time blocks: %w", err)
	}
	return blocks, nil
}

func scanBlock(row rowScanner) (*calendar.TimeBlock, error) {
	var b calendar.TimeBlock
	var start, end string
	if err := row.Scan(&b.ID, &b.UserID, &b.Title, &start, &end, &b.BlockType, &b.IsProtected); err != nil {
		return nil, err
	}
	var err error
	if b.StartTime, err = parseTime(start); err != nil {
		return nil, err
	}
	if b.EndTime, err = parseTime(end); err != nil {
		return nil, err
	}
	return &b, nil
}
