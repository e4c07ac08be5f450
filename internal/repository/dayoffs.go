package repository

import (
	"context"
	"strings"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

// 三张休假表结构相同：(helper_id, date) 为主键，外加一个值列
type dayOffTable struct {
	name   string
	column string
}

var (
	dayOffRequestsTable   = dayOffTable{name: "day_off_requests", column: "time_spec"}
	scheduledDayOffsTable = dayOffTable{name: "scheduled_day_offs", column: "scheduled"}
	displayTextsTable     = dayOffTable{name: "day_off_display_texts", column: "text"}
)

func (r *Repository) GetDayOffRequests(ctx context.Context, year, month int) (map[string]string, error) {
	return getDayOffMap[string](ctx, r, dayOffRequestsTable, year, month)
}

func (r *Repository) SaveDayOffRequests(ctx context.Context, year, month int, requests map[string]string) error {
	return saveDayOffMap(ctx, r, dayOffRequestsTable, year, month, requests)
}

func (r *Repository) GetScheduledDayOffs(ctx context.Context, year, month int) (map[string]bool, error) {
	return getDayOffMap[bool](ctx, r, scheduledDayOffsTable, year, month)
}

// SaveScheduledDayOffs 值为 false 的键不会写入
func (r *Repository) SaveScheduledDayOffs(ctx context.Context, year, month int, scheduled map[string]bool) error {
	filtered := make(map[string]bool, len(scheduled))
	for k, v := range scheduled {
		if v {
			filtered[k] = true
		}
	}
	return saveDayOffMap(ctx, r, scheduledDayOffsTable, year, month, filtered)
}

func (r *Repository) GetDisplayTexts(ctx context.Context, year, month int) (map[string]string, error) {
	return getDayOffMap[string](ctx, r, displayTextsTable, year, month)
}

func (r *Repository) SaveDisplayTexts(ctx context.Context, year, month int, texts map[string]string) error {
	return saveDayOffMap(ctx, r, displayTextsTable, year, month, texts)
}

func getDayOffMap[V any](ctx context.Context, r *Repository, table dayOffTable, year, month int) (map[string]V, error) {
	query := `
		SELECT helper_id, to_char(date, 'YYYY-MM-DD'), ` + table.column + `
		FROM ` + table.name + `
		WHERE date >= $1::date AND date < $2::date
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	start, end := monthBounds(year, month)
	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]V)
	for rows.Next() {
		var (
			helperID int64
			date     string
			value    V
		)
		if err := rows.Scan(&helperID, &date, &value); err != nil {
			return nil, err
		}
		result[domain.DayOffKey(helperID, date)] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// saveDayOffMap 在一个事务中用 values 整体替换该月的记录
func saveDayOffMap[V any](ctx context.Context, r *Repository, table dayOffTable, year, month int, values map[string]V) error {
	prefix := domain.MonthPrefix(year, month) + "-"
	type row struct {
		helperID int64
		date     string
		value    V
	}
	rows := make([]row, 0, len(values))
	for key, value := range values {
		helperID, date, ok := domain.ParseDayOffKey(key)
		if !ok {
			return ErrInvalidKey
		}
		if !strings.HasPrefix(date, prefix) {
			return outOfMonth(key, year, month)
		}
		rows = append(rows, row{helperID: helperID, date: date, value: value})
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

	// 先将该月原有的记录删除
	start, end := monthBounds(year, month)
	query := `DELETE FROM ` + table.name + ` WHERE date >= $1::date AND date < $2::date`
	if _, err := tx.ExecContext(ctx, query, start, end); err != nil {
		return err
	}

	query = `
		INSERT INTO ` + table.name + ` (helper_id, date, ` + table.column + `)
		VALUES ($1, $2::date, $3)
	`
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, query, row.helperID, row.date, row.value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
