package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

func (r *Repository) GetShiftsByMonth(ctx context.Context, year, month int) ([]*domain.Shift, error) {
	query := `
		SELECT
			id,
			to_char(date, 'YYYY-MM-DD'),
			start_time,
			end_time,
			helper_id,
			client_name,
			service_type,
			duration_hours,
			area,
			deleted,
			updated_at,
			version
		FROM shifts
		WHERE date >= $1::date AND date < $2::date
		ORDER BY date, start_time, id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	start, end := monthBounds(year, month)
	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		var (
			shift    domain.Shift
			duration sql.NullFloat64
			area     sql.NullString
		)

		dst := []any{
			&shift.ID,
			&shift.Date,
			&shift.StartTime,
			&shift.EndTime,
			&shift.HelperID,
			&shift.ClientName,
			&shift.ServiceType,
			&duration,
			&area,
			&shift.Deleted,
			&shift.UpdatedAt,
			&shift.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if duration.Valid {
			shift.DurationHours = &duration.Float64
		}
		if area.Valid {
			shift.Area = &area.String
		}
		shifts = append(shifts, &shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// SaveShiftsForMonth 在一个事务中按 id 插入或更新班次，删除只是打上 deleted 标记
func (r *Repository) SaveShiftsForMonth(ctx context.Context, year, month int, shifts []*domain.Shift) error {
	prefix := domain.MonthPrefix(year, month)
	for _, shift := range shifts {
		if !shift.InMonth(prefix) {
			return fmt.Errorf("班次 %s 的日期为 %s: %w", shift.ID, shift.Date, ErrShiftOutOfMonth)
		}
	}

	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shifts (id, date, start_time, end_time, helper_id, client_name, service_type, duration_hours, area, deleted, updated_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET
			date = EXCLUDED.date,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			helper_id = EXCLUDED.helper_id,
			client_name = EXCLUDED.client_name,
			service_type = EXCLUDED.service_type,
			duration_hours = EXCLUDED.duration_hours,
			area = EXCLUDED.area,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at,
			version = shifts.version + 1
		RETURNING version
	`

	for _, shift := range shifts {
		var duration sql.NullFloat64
		if shift.DurationHours != nil {
			duration = sql.NullFloat64{Float64: *shift.DurationHours, Valid: true}
		}
		var area sql.NullString
		if shift.Area != nil {
			area = sql.NullString{String: *shift.Area, Valid: true}
		}

		args := []any{
			shift.ID,
			shift.Date,
			shift.StartTime,
			shift.EndTime,
			shift.HelperID,
			shift.ClientName,
			shift.ServiceType,
			duration,
			area,
			shift.Deleted,
			shift.UpdatedAt,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}
