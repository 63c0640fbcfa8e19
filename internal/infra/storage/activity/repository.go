package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const tableActivityLogs = "activity_logs"

// Repository репозиторий журнала действий (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в журнал
func (r *Repository) Create(ctx context.Context, entry *domain.ActivityLog) (*domain.ActivityLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableActivityLogs).
		Columns(
			"slot_number",
			"user_id",
			"user_name",
			"narration",
			"activity_type",
			"activity_at",
		).
		Values(
			entry.SlotNumber,
			entry.UserID,
			entry.UserName,
			entry.Narration,
			entry.ActivityType,
			entry.ActivityAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return entry, nil
}

// List получает записи журнала по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.ActivityLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"id",
		"slot_number",
		"user_id",
		"user_name",
		"narration",
		"activity_type",
		"activity_at",
	).
		From(tableActivityLogs).
		OrderBy("activity_at DESC", "id DESC")

	if filter.SlotNumber != nil {
		builder = builder.Where(squirrel.Eq{"slot_number": *filter.SlotNumber})
	}
	if filter.ActivityType != nil {
		builder = builder.Where(squirrel.Eq{"activity_type": *filter.ActivityType})
	}
	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// DeleteAll очищает журнал
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableActivityLogs).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAll - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAll - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAll - get rows affected: %w", ErrExecQuery, err)
	}

	return deleted, nil
}

func (r *Repository) scanEntries(rows *sql.Rows) ([]*domain.ActivityLog, error) {
	entries := make([]*domain.ActivityLog, 0)

	for rows.Next() {
		var entry domain.ActivityLog
		err := rows.Scan(
			&entry.ID,
			&entry.SlotNumber,
			&entry.UserID,
			&entry.UserName,
			&entry.Narration,
			&entry.ActivityType,
			&entry.ActivityAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %w", ErrScanRow, err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
