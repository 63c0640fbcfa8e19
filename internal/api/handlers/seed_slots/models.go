package seed_slots

import (
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

// SeedSlotsRequest тело POST /slots/default, все поля необязательны
type SeedSlotsRequest struct {
	Total    *int    `json:"total,omitempty"`
	Reserved *int    `json:"reserved,omitempty"`
	Prefix   *string `json:"prefix,omitempty"`
}

// ToServiceRequest подставляет значения из конфигурации вместо незаданных полей
// Если задано только total, резервированных мест нет
func (r *SeedSlotsRequest) ToServiceRequest(defaults models.SeedRequest) *models.SeedRequest {
	req := defaults

	if r.Total != nil {
		req.Total = *r.Total
		req.Reserved = 0
	}
	if r.Reserved != nil {
		req.Reserved = *r.Reserved
	}
	if r.Prefix != nil {
		req.Prefix = *r.Prefix
	}

	return &req
}
