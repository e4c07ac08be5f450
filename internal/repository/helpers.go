package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

func (r *Repository) GetAllHelpers(ctx context.Context) ([]*domain.Helper, error) {
	query := `
		SELECT id, username, full_name, email, is_active, created_at, version FROM helpers
		ORDER BY id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	helpers := make([]*domain.Helper, 0)
	for rows.Next() {
		helper := &domain.Helper{}
		dst := []any{&helper.ID, &helper.Username, &helper.FullName, &helper.Email, &helper.IsActive, &helper.CreatedAt, &helper.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		helpers = append(helpers, helper)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return helpers, nil
}

func (r *Repository) GetHelperByID(ctx context.Context, id int64) (*domain.Helper, error) {
	query := `
		SELECT username, full_name, email, is_active, created_at, version
		FROM helpers WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	helper := &domain.Helper{
		ID: id,
	}

	dst := []any{&helper.Username, &helper.FullName, &helper.Email, &helper.IsActive, &helper.CreatedAt, &helper.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return helper, nil
}

func (r *Repository) CreateHelper(ctx context.Context, helper *domain.Helper) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO helpers (username, full_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, version
	`

	args := []any{helper.Username, helper.FullName, helper.Email}
	dst := []any{&helper.ID, &helper.IsActive, &helper.CreatedAt, &helper.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// SoftDeleteHelper 只把助理标记为停用，历史班次和休假记录保持不变
func (r *Repository) SoftDeleteHelper(ctx context.Context, helper *domain.Helper) error {
	query := `
		UPDATE helpers
		SET
			is_active = FALSE,
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING is_active, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, helper.ID, helper.Version).Scan(&helper.IsActive, &helper.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 版本号不一致，说明在此期间被其他请求修改过
			return ErrEditConflict
		}
		return err
	}

	return nil
}
