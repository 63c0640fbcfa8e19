package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvariantViolation возвращается Validate, если состояние слота противоречиво
var ErrInvariantViolation = errors.New("slot invariant violation")

// SlotType тип парковочного места
type SlotType string

const (
	SlotTypeTwoWheeler  SlotType = "2 wheeler"
	SlotTypeFourWheeler SlotType = "4 wheeler"
)

// IsValid проверяет, что тип места известен
func (t SlotType) IsValid() bool {
	return t == SlotTypeTwoWheeler || t == SlotTypeFourWheeler
}

// Slot парковочное место
//
// Инварианты:
//   - IsOccupied => IsBooked
//   - если !IsBooked, все поля бронирования и занятости пустые
//   - SlotNumber не меняется после создания
type Slot struct {
	SlotNumber string
	SlotType   SlotType
	IsReserved bool // место только для людей с ограниченной мобильностью

	IsBooked     bool
	BookedAt     *time.Time
	BookedByID   string
	BookedByName string

	IsOccupied     bool
	OccupiedAt     *time.Time
	OccupiedByID   string
	OccupiedByName string

	UpdatedAt time.Time
}

// SlotState снимок изменяемых полей места, по которому выполняется условное
// обновление (compare-and-set). Включает тип и резерв, иначе запись по старому
// снимку затирает параллельное административное изменение
type SlotState struct {
	SlotType     SlotType
	IsReserved   bool
	IsBooked     bool
	IsOccupied   bool
	BookedByID   string
	OccupiedByID string
}

// State возвращает текущее состояние для условного обновления
func (s *Slot) State() SlotState {
	return SlotState{
		SlotType:     s.SlotType,
		IsReserved:   s.IsReserved,
		IsBooked:     s.IsBooked,
		IsOccupied:   s.IsOccupied,
		BookedByID:   s.BookedByID,
		OccupiedByID: s.OccupiedByID,
	}
}

// IsFree returns true if the slot is not booked
func (s *Slot) IsFree() bool {
	return !s.IsBooked
}

// CanBeBookedBy проверяет ограничение резервированных мест
func (s *Slot) CanBeBookedBy(actor Actor) bool {
	return !s.IsReserved || actor.IsDifferentlyAbled
}

// IsBookedBy returns true if the slot is booked by the given user
func (s *Slot) IsBookedBy(userID string) bool {
	return s.IsBooked && s.BookedByID == userID
}

// IsOccupiedBy returns true if the slot is booked and occupied by the given user
func (s *Slot) IsOccupiedBy(userID string) bool {
	return s.IsBooked && s.IsOccupied && s.OccupiedByID == userID
}

// MarkBooked бронирует место за пользователем
func (s *Slot) MarkBooked(actor Actor, now time.Time) {
	bookedAt := now
	s.IsBooked = true
	s.IsOccupied = false
	s.BookedAt = &bookedAt
	s.BookedByID = actor.ID
	s.BookedByName = actor.Name
	s.UpdatedAt = now
}

// MarkOccupied отмечает, что забронированное место занято
func (s *Slot) MarkOccupied(actor Actor, now time.Time) {
	occupiedAt := now
	s.IsOccupied = true
	s.OccupiedAt = &occupiedAt
	s.OccupiedByID = actor.ID
	s.OccupiedByName = actor.Name
	s.UpdatedAt = now
}

// Clear возвращает место в полностью свободное состояние
func (s *Slot) Clear(now time.Time) {
	s.IsBooked = false
	s.BookedAt = nil
	s.BookedByID = ""
	s.BookedByName = ""
	s.ClearOccupancy(now)
}

// ClearOccupancy снимает только занятость, бронирование остается
func (s *Slot) ClearOccupancy(now time.Time) {
	s.IsOccupied = false
	s.OccupiedAt = nil
	s.OccupiedByID = ""
	s.OccupiedByName = ""
	s.UpdatedAt = now
}

// IsAwaitingOccupancy returns true if the slot is booked but not yet occupied
func (s *Slot) IsAwaitingOccupancy() bool {
	return s.IsBooked && !s.IsOccupied
}

// IsExpired проверяет, истек ли срок ожидания занятия места
// Бронь без времени бронирования считается просроченной: срок для неё вычислить нельзя
func (s *Slot) IsExpired(now time.Time, wait time.Duration) bool {
	if !s.IsAwaitingOccupancy() {
		return false
	}
	if s.BookedAt == nil {
		return true
	}
	return !now.Before(s.BookedAt.Add(wait))
}

// Validate проверяет инварианты слота
func (s *Slot) Validate() error {
	if s.IsOccupied && !s.IsBooked {
		return fmt.Errorf("%w: slot %s is occupied but not booked", ErrInvariantViolation, s.SlotNumber)
	}
	if !s.IsBooked && (s.BookedAt != nil || s.BookedByID != "" || s.BookedByName != "") {
		return fmt.Errorf("%w: slot %s keeps booking details while free", ErrInvariantViolation, s.SlotNumber)
	}
	if !s.IsOccupied && (s.OccupiedAt != nil || s.OccupiedByID != "" || s.OccupiedByName != "") {
		return fmt.Errorf("%w: slot %s keeps occupancy details while not occupied", ErrInvariantViolation, s.SlotNumber)
	}
	return nil
}

// Clone возвращает независимую копию слота
func (s *Slot) Clone() *Slot {
	c := *s
	if s.BookedAt != nil {
		t := *s.BookedAt
		c.BookedAt = &t
	}
	if s.OccupiedAt != nil {
		t := *s.OccupiedAt
		c.OccupiedAt = &t
	}
	return &c
}

// SlotFilter фильтр списка мест, nil означает "не фильтровать"
type SlotFilter struct {
	IsReserved *bool
	IsBooked   *bool
	IsOccupied *bool
}

// Matches проверяет, подходит ли слот под фильтр
func (f SlotFilter) Matches(s *Slot) bool {
	if f.IsReserved != nil && s.IsReserved != *f.IsReserved {
		return false
	}
	if f.IsBooked != nil && s.IsBooked != *f.IsBooked {
		return false
	}
	if f.IsOccupied != nil && s.IsOccupied != *f.IsOccupied {
		return false
	}
	return true
}

// SlotPatch административное изменение места
// Флаги IsBooked/IsOccupied можно только сбросить в false
type SlotPatch struct {
	SlotType   *SlotType
	IsReserved *bool
	IsBooked   *bool
	IsOccupied *bool
}

// IsEmpty патч без изменений
func (p SlotPatch) IsEmpty() bool {
	return p.SlotType == nil && p.IsReserved == nil && p.IsBooked == nil && p.IsOccupied == nil
}

// Apply применяет изменения к слоту, сохраняя инварианты
func (p SlotPatch) Apply(s *Slot, now time.Time) {
	if p.SlotType != nil {
		s.SlotType = *p.SlotType
	}
	if p.IsReserved != nil {
		s.IsReserved = *p.IsReserved
	}
	if p.IsOccupied != nil && !*p.IsOccupied {
		s.ClearOccupancy(now)
	}
	if p.IsBooked != nil && !*p.IsBooked {
		s.Clear(now)
	}
	s.UpdatedAt = now
}
