package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garnizeh/missiondeck/pkg/models"
	"github.com/garnizeh/missiondeck/pkg/repository"
)

const missionColumns = `id, owner_id, title, description, status, created_at, timer_start, timer_end, timer_duration`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepo) InsertMission(ctx context.Context, m *models.Mission) error {
	if m == nil {
		return fmt.Errorf("mission is nil")
	}

	start, end, dur := timerColumns(m.Timer)
	_, err := r.conn.Exec(ctx, `INSERT INTO missions (`+missionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OwnerID, m.Title, m.Description, string(m.Status), toMillis(m.CreatedAt), start, end, dur)
	return err
}

func (r *SQLiteRepo) FindMissionByID(ctx context.Context, id string) (*models.Mission, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = ?`, id)
	m, err := scanMission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return m, nil
}

func (r *SQLiteRepo) FindMissionsByOwner(ctx context.Context, ownerID string) ([]models.Mission, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+missionColumns+` FROM missions WHERE owner_id = ? ORDER BY created_at DESC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *m)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateMission(ctx context.Context, id string, patch models.MissionPatch) error {
	sets := ""
	var args []any
	if patch.Status != nil {
		sets += "status = ?"
		args = append(args, string(*patch.Status))
	}
	if patch.Timer != nil {
		if sets != "" {
			sets += ", "
		}
		start, end, dur := timerColumns(patch.Timer)
		sets += "timer_start = ?, timer_end = ?, timer_duration = ?"
		args = append(args, start, end, dur)
	}
	if sets == "" {
		return nil
	}

	args = append(args, id)
	res, err := r.conn.Exec(ctx, `UPDATE missions SET `+sets+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

// SwapTimer replaces the timer columns only while they still hold expected.
// SQLite's IS operator compares NULLs as equal, which covers the no-timer case.
func (r *SQLiteRepo) SwapTimer(ctx context.Context, id string, expected, next *models.Timer) (bool, error) {
	es, ee, ed := timerColumns(expected)
	ns, ne, nd := timerColumns(next)

	res, err := r.conn.Exec(ctx, `UPDATE missions SET timer_start = ?, timer_end = ?, timer_duration = ?
		WHERE id = ? AND timer_start IS ? AND timer_end IS ? AND timer_duration IS ?`,
		ns, ne, nd, id, es, ee, ed)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n != 1 {
		r.logger.Debug("timer swap precondition failed", slog.String("mission_id", id))
	}
	return n == 1, nil
}

func (r *SQLiteRepo) RemoveMission(ctx context.Context, id string) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		logs, err := tx.ExecContext(ctx, `DELETE FROM error_logs WHERE mission_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete error logs: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete mission: %w", err)
		}

		if err := requireAffected(res); err != nil {
			return err
		}

		n, _ := logs.RowsAffected()
		r.logger.Debug("mission removed", slog.String("mission_id", id), slog.Int64("error_logs", n))
		return nil
	})
}

func scanMission(s rowScanner) (*models.Mission, error) {
	var (
		m        models.Mission
		status   string
		created  int64
		start    sql.NullInt64
		end      sql.NullInt64
		duration sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.OwnerID, &m.Title, &m.Description, &status, &created, &start, &end, &duration); err != nil {
		return nil, err
	}

	m.Status = models.MissionStatus(status)
	m.CreatedAt = fromMillis(created)
	if start.Valid {
		t := &models.Timer{StartTime: fromMillis(start.Int64)}
		if end.Valid {
			e := fromMillis(end.Int64)
			t.EndTime = &e
		}
		if duration.Valid {
			d := duration.Int64
			t.Duration = &d
		}
		m.Timer = t
	}

	return &m, nil
}

func timerColumns(t *models.Timer) (start, end, duration sql.NullInt64) {
	if t == nil {
		return
	}
	start = sql.NullInt64{Int64: toMillis(t.StartTime), Valid: true}
	return start, nullMillis(t.EndTime), nullInt(t.Duration)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
