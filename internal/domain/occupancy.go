package domain

import "time"

// OccupancyRatio процент забронированных мест
// Когда забронированных мест нет, возвращает 100 (как и исходная система)
func OccupancyRatio(booked, total int) float64 {
	if booked == 0 || total == 0 {
		return FullOccupancyPercent
	}
	return float64(booked) / float64(total) * 100
}

// WaitPolicy сколько ждать занятия места после бронирования в зависимости от загрузки
type WaitPolicy struct {
	LowWait          time.Duration // загрузка <= порога, ждем дольше
	HighWait         time.Duration // загрузка выше порога, ждем меньше
	ThresholdPercent float64
}

// NewWaitPolicy создает политику из значений конфигурации в минутах
func NewWaitPolicy(lowWaitMinutes, highWaitMinutes int, thresholdPercent float64) WaitPolicy {
	return WaitPolicy{
		LowWait:          time.Duration(lowWaitMinutes) * time.Minute,
		HighWait:         time.Duration(highWaitMinutes) * time.Minute,
		ThresholdPercent: thresholdPercent,
	}
}

// DefaultWaitPolicy политика со значениями по умолчанию
func DefaultWaitPolicy() WaitPolicy {
	return NewWaitPolicy(DefaultLowWaitMinutes, DefaultHighWaitMinutes, DefaultOccupancyThresholdPercent)
}

// WaitFor возвращает время ожидания для текущей загрузки
func (p WaitPolicy) WaitFor(ratio float64) time.Duration {
	if ratio <= p.ThresholdPercent {
		return p.LowWait
	}
	return p.HighWait
}
