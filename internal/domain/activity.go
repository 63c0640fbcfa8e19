package domain

import (
	"fmt"
	"time"
)

// ActivityType тип записи журнала действий
type ActivityType string

const (
	ActivityBook   ActivityType = "book"
	ActivityOccupy ActivityType = "occupy"
	ActivityVacant ActivityType = "vacant"
	ActivityCancel ActivityType = "cancel"
)

// IsValid проверяет, что тип действия известен
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityBook, ActivityOccupy, ActivityVacant, ActivityCancel:
		return true
	default:
		return false
	}
}

// ActivityLog запись журнала действий со слотом (только добавление)
type ActivityLog struct {
	ID           int64
	SlotNumber   string
	UserID       string
	UserName     string
	Narration    string
	ActivityType ActivityType
	ActivityAt   time.Time
}

// NewActivityLog формирует запись журнала для перехода слота
func NewActivityLog(slotNumber string, actor Actor, activity ActivityType, at time.Time) *ActivityLog {
	return &ActivityLog{
		SlotNumber:   slotNumber,
		UserID:       actor.ID,
		UserName:     actor.Name,
		Narration:    Narration(slotNumber, actor, activity),
		ActivityType: activity,
		ActivityAt:   at,
	}
}

// Narration текст записи журнала
func Narration(slotNumber string, actor Actor, activity ActivityType) string {
	switch activity {
	case ActivityBook:
		return fmt.Sprintf("Slot - %s has been booked by %s", slotNumber, actor.Name)
	case ActivityOccupy:
		return fmt.Sprintf("Slot - %s has been occupied by %s", slotNumber, actor.Name)
	case ActivityVacant:
		return fmt.Sprintf("Slot - %s has been vacant by %s", slotNumber, actor.Name)
	case ActivityCancel:
		if actor.ID == SystemActorID {
			return fmt.Sprintf("Slot - %s has been canceled", slotNumber)
		}
		return fmt.Sprintf("Slot - %s has been canceled by %s", slotNumber, actor.Name)
	default:
		return fmt.Sprintf("Slot - %s: %s by %s", slotNumber, activity, actor.Name)
	}
}

// ActivityFilter фильтр журнала действий
type ActivityFilter struct {
	SlotNumber   *string
	ActivityType *ActivityType
	UserID       *string
	Limit        int // 0 = без ограничения
}
