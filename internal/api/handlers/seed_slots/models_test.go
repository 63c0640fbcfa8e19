package seed_slots

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

func TestSeedSlotsRequest_ToServiceRequest(t *testing.T) {
	defaults := models.SeedRequest{Total: 120, Reserved: 24, Prefix: "P"}

	tests := []struct {
		name string
		body SeedSlotsRequest
		want models.SeedRequest
	}{
		{
			name: "пустое тело берет конфигурацию",
			body: SeedSlotsRequest{},
			want: defaults,
		},
		{
			name: "только total обнуляет резерв",
			body: SeedSlotsRequest{Total: ptr.Ptr(10)},
			want: models.SeedRequest{Total: 10, Reserved: 0, Prefix: "P"},
		},
		{
			name: "явный нулевой резерв",
			body: SeedSlotsRequest{Reserved: ptr.Ptr(0)},
			want: models.SeedRequest{Total: 120, Reserved: 0, Prefix: "P"},
		},
		{
			name: "все поля заданы",
			body: SeedSlotsRequest{Total: ptr.Ptr(4), Reserved: ptr.Ptr(1), Prefix: ptr.Ptr("B")},
			want: models.SeedRequest{Total: 4, Reserved: 1, Prefix: "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.body.ToServiceRequest(defaults)
			assert.Equal(t, tt.want, *got)
		})
	}
}
