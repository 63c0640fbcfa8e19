package domain

// Значения политики ожидания по умолчанию
const (
	DefaultLowWaitMinutes            = 30
	DefaultHighWaitMinutes           = 15
	DefaultOccupancyThresholdPercent = 50.0
	FullOccupancyPercent             = 100.0
)

// Заполнение парковки тестовыми местами
const (
	DefaultSeedTotalSlots    = 120
	DefaultSeedReservedSlots = 24
	DefaultSeedSlotPrefix    = "PARKING"
)

// Системный пользователь для автоматических отмен
const (
	SystemActorID   = "01"
	SystemActorName = "System"
)

// Business validation constants
const (
	MaxSlotNumberLength = 64
	DefaultSlotType     = SlotTypeFourWheeler
)
