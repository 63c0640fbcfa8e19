package domain

// Actor пользователь, от имени которого выполняется операция
// Приходит из аутентификации, ядро его только читает
type Actor struct {
	ID                 string
	Name               string
	IsAdmin            bool
	IsDifferentlyAbled bool
}

// SystemActor автор автоматических отмен бронирования
func SystemActor() Actor {
	return Actor{
		ID:   SystemActorID,
		Name: SystemActorName,
	}
}
