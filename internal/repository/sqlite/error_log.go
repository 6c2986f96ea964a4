package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/missiondeck/pkg/models"
)

func (r *SQLiteRepo) InsertErrorLog(ctx context.Context, l *models.ErrorLog) error {
	if l == nil {
		return fmt.Errorf("error log is nil")
	}

	// The parent check and the insert are one statement, so a concurrent
	// delete of the mission surfaces as ErrNotFound.
	res, err := r.conn.Exec(ctx, `INSERT INTO error_logs (id, mission_id, message, timestamp)
		SELECT ?, ?, ?, ? WHERE EXISTS (SELECT 1 FROM missions WHERE id = ?)`,
		l.ID, l.MissionID, l.Message, toMillis(l.Timestamp), l.MissionID)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

func (r *SQLiteRepo) FindErrorLogByID(ctx context.Context, id string) (*models.ErrorLog, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, mission_id, message, timestamp FROM error_logs WHERE id = ?`, id)
	var l models.ErrorLog
	var ts int64
	if err := row.Scan(&l.ID, &l.MissionID, &l.Message, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	l.Timestamp = fromMillis(ts)
	return &l, nil
}

// FindErrorLogsByMission orders by timestamp, then by insertion sequence so
// logs written within the same millisecond keep their write order.
func (r *SQLiteRepo) FindErrorLogsByMission(ctx context.Context, missionID string) ([]models.ErrorLog, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, mission_id, message, timestamp FROM error_logs WHERE mission_id = ? ORDER BY timestamp ASC, seq ASC`, missionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ErrorLog
	for rows.Next() {
		var l models.ErrorLog
		var ts int64
		if err := rows.Scan(&l.ID, &l.MissionID, &l.Message, &ts); err != nil {
			return nil, err
		}

		l.Timestamp = fromMillis(ts)
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) RemoveErrorLog(ctx context.Context, id string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM error_logs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return requireAffected(res)
}
