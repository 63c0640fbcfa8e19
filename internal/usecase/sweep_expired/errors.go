package sweep_expired

import "errors"

var (
	// ErrInternal возвращается, когда не удалось получить кандидатов или загрузку парковки
	ErrInternal = errors.New("sweep_expired: internal error")
)
