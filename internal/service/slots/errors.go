package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда место не найдено
	ErrSlotNotFound = errors.New("slot not found")

	// ErrDuplicateSlot возвращается, когда место с таким номером уже существует
	ErrDuplicateSlot = errors.New("slot already exists")

	// ErrReservedSlot возвращается, когда резервированное место бронирует пользователь без права на него
	ErrReservedSlot = errors.New("slot is reserved for differently abled people")

	// ErrNotAvailable возвращается, когда место уже забронировано
	ErrNotAvailable = errors.New("slot is not available")

	// ErrNotBooked возвращается, когда место не забронировано этим пользователем
	ErrNotBooked = errors.New("slot is not booked by this user")

	// ErrAlreadyOccupied возвращается, когда место уже занято
	ErrAlreadyOccupied = errors.New("slot is already occupied")

	// ErrNotYourOccupancy возвращается, когда место занято не этим пользователем
	ErrNotYourOccupancy = errors.New("slot is not occupied by this user")

	// ErrConcurrentUpdate возвращается, когда место меняли параллельно и повторы не помогли
	ErrConcurrentUpdate = errors.New("slot was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// errNotDue место еще не истекло, автоматическая отмена не нужна
var errNotDue = errors.New("slot is not due for expiry")

// businessErrors ошибки бизнес-правил, которые передаются вызывающему без обертки
var businessErrors = []error{
	ErrSlotNotFound,
	ErrDuplicateSlot,
	ErrReservedSlot,
	ErrNotAvailable,
	ErrNotBooked,
	ErrAlreadyOccupied,
	ErrNotYourOccupancy,
	ErrInvalidInput,
	errNotDue,
}

func isBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
