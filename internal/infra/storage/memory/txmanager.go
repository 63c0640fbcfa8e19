package memory

import "context"

// TxManager менеджер транзакций для хранилища в памяти
// Транзакций нет: атомарность переходов обеспечивает UpdateIfState
type TxManager struct{}

// NewTxManager создает менеджер транзакций без транзакций
func NewTxManager() *TxManager {
	return &TxManager{}
}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
