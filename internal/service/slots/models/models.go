package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidSlotType возвращается при некорректном типе места
	ErrInvalidSlotType = errors.New("invalid slot type")
)

// Request модели

// CreateSlotRequest запрос на создание места
type CreateSlotRequest struct {
	SlotNumber string `json:"slotNumber"`
	SlotType   string `json:"slotType,omitempty"` // по умолчанию "4 wheeler"
	IsReserved bool   `json:"isReserved"`
}

// UpdateSlotRequest административное изменение места
// isBooked/isOccupied принимают только false
type UpdateSlotRequest struct {
	SlotType   *string `json:"slotType,omitempty"`
	IsReserved *bool   `json:"isReserved,omitempty"`
	IsBooked   *bool   `json:"isBooked,omitempty"`
	IsOccupied *bool   `json:"isOccupied,omitempty"`
}

// ToDomainPatch конвертирует request в domain патч
func (r *UpdateSlotRequest) ToDomainPatch() (domain.SlotPatch, error) {
	patch := domain.SlotPatch{
		IsReserved: r.IsReserved,
		IsBooked:   r.IsBooked,
		IsOccupied: r.IsOccupied,
	}

	if r.SlotType != nil {
		slotType, err := ToDomainSlotType(*r.SlotType)
		if err != nil {
			return patch, err
		}
		patch.SlotType = &slotType
	}

	return patch, nil
}

// ListSlotsRequest фильтры списка мест
type ListSlotsRequest struct {
	IsReserved *bool `json:"reserved,omitempty"`
	IsBooked   *bool `json:"booked,omitempty"`
	IsOccupied *bool `json:"occupied,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListSlotsRequest) ToDomainFilter() domain.SlotFilter {
	return domain.SlotFilter{
		IsReserved: r.IsReserved,
		IsBooked:   r.IsBooked,
		IsOccupied: r.IsOccupied,
	}
}

// SeedRequest заполнение парковки местами
type SeedRequest struct {
	Total    int    `json:"total"`
	Reserved int    `json:"reserved"`
	Prefix   string `json:"prefix"`
}

// Response модели

// SlotResponse ответ с данными места
type SlotResponse struct {
	SlotNumber string `json:"slotNumber"`
	SlotType   string `json:"slotType"`
	IsReserved bool   `json:"isReserved"`

	IsBooked     bool       `json:"isBooked"`
	BookedAt     *time.Time `json:"bookedAt,omitempty"`
	BookedByID   string     `json:"bookedById"`
	BookedByName string     `json:"bookedByName"`

	IsOccupied     bool       `json:"isOccupied"`
	OccupiedAt     *time.Time `json:"occupiedAt,omitempty"`
	OccupiedByID   string     `json:"occupiedById"`
	OccupiedByName string     `json:"occupiedByName"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком мест
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// OccupancyResponse загрузка парковки
type OccupancyResponse struct {
	Booked int     `json:"booked"`
	Total  int     `json:"total"`
	Ratio  float64 `json:"ratio"`
}

// SeedResponse результат заполнения парковки
type SeedResponse struct {
	Created  int64 `json:"created"`
	Reserved int   `json:"reserved"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		SlotNumber:     s.SlotNumber,
		SlotType:       string(s.SlotType),
		IsReserved:     s.IsReserved,
		IsBooked:       s.IsBooked,
		BookedAt:       s.BookedAt,
		BookedByID:     s.BookedByID,
		BookedByName:   s.BookedByName,
		IsOccupied:     s.IsOccupied,
		OccupiedAt:     s.OccupiedAt,
		OccupiedByID:   s.OccupiedByID,
		OccupiedByName: s.OccupiedByName,
		UpdatedAt:      s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}

	for _, slot := range slots {
		if slotResp := FromDomainSlot(slot); slotResp != nil {
			resp.Slots = append(resp.Slots, *slotResp)
		}
	}

	return resp
}

// ToDomainSlotType конвертирует строку в domain.SlotType с валидацией
// Пустая строка означает тип по умолчанию
func ToDomainSlotType(slotType string) (domain.SlotType, error) {
	if slotType == "" {
		return domain.DefaultSlotType, nil
	}

	t := domain.SlotType(slotType)
	if !t.IsValid() {
		return "", ErrInvalidSlotType
	}

	return t, nil
}
