package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const (
	tableSlots = "slots"

	// SQLSTATE unique_violation
	codeUniqueViolation = "23505"

	// Размер пачки при массовой вставке
	insertBatchSize = 500
)

var slotColumns = []string{
	"slot_number",
	"slot_type",
	"is_reserved",
	"is_booked",
	"booked_at",
	"booked_by_id",
	"booked_by_name",
	"is_occupied",
	"occupied_at",
	"occupied_by_id",
	"occupied_by_name",
	"updated_at",
}

// Repository репозиторий парковочных мест (PostgreSQL)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мест
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое место
// Нарушение уникальности slot_number возвращается как ErrDuplicateSlot
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableSlots).
		Columns(slotColumns...).
		Values(slotValues(slot)...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlot, slot.SlotNumber)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return slot, nil
}

// CreateBatch вставляет места пачками, используется при заполнении парковки
func (r *Repository) CreateBatch(ctx context.Context, slots []*domain.Slot) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var inserted int64
	for start := 0; start < len(slots); start += insertBatchSize {
		end := min(start+insertBatchSize, len(slots))

		builder := psqlbuilder.Insert(tableSlots).Columns(slotColumns...)
		for _, slot := range slots[start:end] {
			builder = builder.Values(slotValues(slot)...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return inserted, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return inserted, fmt.Errorf("%w: CreateBatch", ErrDuplicateSlot)
			}
			return inserted, fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("%w: CreateBatch - get rows affected: %w", ErrExecQuery, err)
		}
		inserted += n
	}

	return inserted, nil
}

// GetBySlotNumber получает место по номеру
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetBySlotNumber(ctx context.Context, slotNumber string) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(slotColumns...).
		From(tableSlots).
		Where(squirrel.Eq{"slot_number": slotNumber})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlotNumber - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlotNumber - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// List получает места по фильтру, упорядоченные по номеру
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(slotColumns...).
		From(tableSlots).
		OrderBy("length(slot_number) ASC", "slot_number ASC")

	if filter.IsReserved != nil {
		builder = builder.Where(squirrel.Eq{"is_reserved": *filter.IsReserved})
	}
	if filter.IsBooked != nil {
		builder = builder.Where(squirrel.Eq{"is_booked": *filter.IsBooked})
	}
	if filter.IsOccupied != nil {
		builder = builder.Where(squirrel.Eq{"is_occupied": *filter.IsOccupied})
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

	return r.scanSlots(rows)
}

// ListAwaitingOccupancy получает забронированные, но не занятые места
func (r *Repository) ListAwaitingOccupancy(ctx context.Context) ([]*domain.Slot, error) {
	booked, notOccupied := true, false
	return r.List(ctx, domain.SlotFilter{IsBooked: &booked, IsOccupied: &notOccupied})
}

// CountStats возвращает количество забронированных мест и общее количество мест
func (r *Repository) CountStats(ctx context.Context) (booked int, total int, err error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*) FILTER (WHERE is_booked)",
		"COUNT(*)",
	).
		From(tableSlots).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: CountStats - build select query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booked, &total); err != nil {
		return 0, 0, fmt.Errorf("%w: CountStats - scan counts: %w", ErrScanRow, err)
	}

	return booked, total, nil
}

// UpdateIfState сохраняет изменяемые поля места, только если место всё ещё
// находится в ожидаемом состоянии (compare-and-set по типу, резерву, флагам и владельцам)
// Если место изменилось или исчезло, возвращает ErrStateConflict
func (r *Repository) UpdateIfState(ctx context.Context, slot *domain.Slot, expected domain.SlotState) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableSlots).
		Set("slot_type", slot.SlotType).
		Set("is_reserved", slot.IsReserved).
		Set("is_booked", slot.IsBooked).
		Set("booked_at", slot.BookedAt).
		Set("booked_by_id", slot.BookedByID).
		Set("booked_by_name", slot.BookedByName).
		Set("is_occupied", slot.IsOccupied).
		Set("occupied_at", slot.OccupiedAt).
		Set("occupied_by_id", slot.OccupiedByID).
		Set("occupied_by_name", slot.OccupiedByName).
		Set("updated_at", slot.UpdatedAt).
		Where(squirrel.Eq{
			"slot_number":    slot.SlotNumber,
			"slot_type":      expected.SlotType,
			"is_reserved":    expected.IsReserved,
			"is_booked":      expected.IsBooked,
			"is_occupied":    expected.IsOccupied,
			"booked_by_id":   expected.BookedByID,
			"occupied_by_id": expected.OccupiedByID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateIfState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateIfState - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateIfState - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStateConflict
	}

	return nil
}

// Delete удаляет место
func (r *Repository) Delete(ctx context.Context, slotNumber string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableSlots).
		Where(squirrel.Eq{"slot_number": slotNumber}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Replace заменяет все места новым набором
// Атомарность обеспечивает транзакция вызывающего (txmanager)
func (r *Repository) Replace(ctx context.Context, slots []*domain.Slot) (deleted int64, created int64, err error) {
	deleted, err = r.DeleteAll(ctx)
	if err != nil {
		return 0, 0, err
	}

	created, err = r.CreateBatch(ctx, slots)
	if err != nil {
		return deleted, 0, err
	}

	return deleted, created, nil
}

// DeleteAll удаляет все места (перед заполнением парковки заново)
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableSlots).ToSql()
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	err := row.Scan(
		&slot.SlotNumber,
		&slot.SlotType,
		&slot.IsReserved,
		&slot.IsBooked,
		&slot.BookedAt,
		&slot.BookedByID,
		&slot.BookedByName,
		&slot.IsOccupied,
		&slot.OccupiedAt,
		&slot.OccupiedByID,
		&slot.OccupiedByName,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс мест
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %w", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}

func slotValues(slot *domain.Slot) []interface{} {
	return []interface{}{
		slot.SlotNumber,
		slot.SlotType,
		slot.IsReserved,
		slot.IsBooked,
		slot.BookedAt,
		slot.BookedByID,
		slot.BookedByName,
		slot.IsOccupied,
		slot.OccupiedAt,
		slot.OccupiedByID,
		slot.OccupiedByName,
		slot.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}
