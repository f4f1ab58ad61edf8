package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"cadence/internal/milestone"
)

// MilestoneRecord is a persisted milestone belonging to a goal.
type MilestoneRecord struct {
	ID     string `json:"id"`
	GoalID string `json:"goal_id"`
	milestone.Milestone
}

// ReplaceMilestones swaps a goal's full milestone set in one transaction.
// Calling it twice with the same input leaves the same rows behind.
func (s *Store) ReplaceMilestones(ctx context.Context, goalID string, milestones []milestone.Milestone) ([]MilestoneRecord, error) {
	var records []MilestoneRecord
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		records, err = replaceMilestones(ctx, tx, goalID, milestones)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func replaceMilestones(ctx context.Context, tx *sql.Tx, goalID string, milestones []milestone.Milestone) ([]MilestoneRecord, error) {
	if _, err := tx.ExecContext(ctx, "DELETE FROM milestones WHERE goal_id = ?", goalID); err != nil {
		return nil, fmt.Errorf("clear milestones: %w", err)
	}
	records := make([]MilestoneRecord, 0, len(milestones))
	for _, m := range milestones {
		rec := MilestoneRecord{ID: newID(), GoalID: goalID, Milestone: m}
		if rec.KeyDeliverables == nil {
			rec.KeyDeliverables = []string{}
		}
		deliverables, err := json.Marshal(rec.KeyDeliverables)
		if err != nil {
			return nil, fmt.Errorf("marshal key deliverables: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO milestones (id, goal_id, period_type, title, description, target_date,
			                        completion_percentage_target, key_deliverables_json, order_index)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, goalID, string(m.PeriodType), m.Title, m.Description, formatDate(m.TargetDate),
			m.CompletionPercentageTarget, string(deliverables), m.OrderIndex)
		if err != nil {
			return nil, fmt.Errorf("insert milestone %d: %w", m.OrderIndex, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListMilestones returns a goal's milestones ordered by order_index.
func (s *Store) ListMilestones(ctx context.Context, goalID string) ([]MilestoneRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, goal_id, period_type, title, description, target_date,
		       completion_percentage_target, key_deliverables_json, order_index
		FROM milestones
		WHERE goal_id = ?
		ORDER BY order_index ASC
	`, goalID)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	defer rows.Close()

	var records []MilestoneRecord
	for rows.Next() {
		var rec MilestoneRecord
		var period, targetDate, deliverables string
		if err := rows.Scan(&rec.ID, &rec.GoalID, &period, &rec.Title, &rec.Description, &targetDate,
			&rec.CompletionPercentageTarget, &deliverables, &rec.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		if rec.PeriodType, err = milestone.ParsePeriodType(period); err != nil {
			return nil, err
		}
		if rec.TargetDate, err = parseDate(targetDate); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(deliverables), &rec.KeyDeliverables); err != nil {
			return nil, fmt.Errorf("parse key deliverables: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate milestones: %w", err)
	}
	return records, nil
}

// UpdateMilestoneDeliverables stores the key deliverables of one milestone.
func (s *Store) UpdateMilestoneDeliverables(ctx context.Context, id string, deliverables []string) error {
	if deliverables == nil {
		deliverables = []string{}
	}
	data, err := json.Marshal(deliverables)
	if err != nil {
		return fmt.Errorf("marshal key deliverables: %w", err)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE milestones SET key_deliverables_json = ? WHERE id = ?", string(data), id)
	if err != nil {
		return fmt.Errorf("update milestone: %w", err)
	}
	return requireAffected(res, "milestone", id)
}
