package models

import "errors"

// Ошибки доменного уровня. Каждая отображается в свой HTTP-статус
// в одном месте на уровне сервера; внутренних повторов нет.
var (
	// ErrNotFound — сущность по идентификатору не существует.
	ErrNotFound = errors.New("не найдено")
	// ErrConflict — нарушение уникальности (имя пользователя, email, название).
	ErrConflict = errors.New("уже существует")
	// ErrUnauthorized — неверные учётные данные или недействительный токен.
	ErrUnauthorized = errors.New("не авторизован")
	// ErrForbidden — роль или авторство не дают права на операцию.
	ErrForbidden = errors.New("доступ запрещён")
)
