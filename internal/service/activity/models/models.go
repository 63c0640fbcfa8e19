package models

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// MaxListLimit верхняя граница размера страницы журнала
const MaxListLimit = 1000

// ListActivityRequest фильтры журнала действий
type ListActivityRequest struct {
	SlotNumber   *string `json:"slot,omitempty"`
	ActivityType *string `json:"type,omitempty"`
	UserID       *string `json:"user,omitempty"`
	Limit        int     `json:"limit,omitempty"`
}

// ActivityResponse запись журнала
type ActivityResponse struct {
	ID           int64     `json:"id"`
	SlotNumber   string    `json:"slotNumber"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	Narration    string    `json:"narration"`
	ActivityType string    `json:"activityType"`
	ActivityAt   time.Time `json:"activityAt"`
}

// ActivityListResponse ответ со списком записей журнала
type ActivityListResponse struct {
	Logs []ActivityResponse `json:"logs"`
}

// ClearResponse результат очистки журнала
type ClearResponse struct {
	Deleted int64 `json:"deleted"`
}

// FromDomainActivityList конвертирует список domain моделей в DTO
func FromDomainActivityList(entries []*domain.ActivityLog) *ActivityListResponse {
	resp := &ActivityListResponse{
		Logs: make([]ActivityResponse, 0, len(entries)),
	}

	for _, e := range entries {
		resp.Logs = append(resp.Logs, ActivityResponse{
			ID:           e.ID,
			SlotNumber:   e.SlotNumber,
			UserID:       e.UserID,
			UserName:     e.UserName,
			Narration:    e.Narration,
			ActivityType: string(e.ActivityType),
			ActivityAt:   e.ActivityAt,
		})
	}

	return resp
}
