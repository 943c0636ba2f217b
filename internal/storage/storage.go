// storage задаёт контракты работы с хранилищами и общие сентинельные ошибки.
// Реализации: postgres (пользователи/фото/комментарии/оценки),
// redis (чёрный список токенов), minio (байты фотографий).
package storage

import "errors"

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email, повторная оценка, тег).
	ErrAlreadyExists = errors.New("already exists")
)

// Storage объединяет контракты реляционного хранилища.
type Storage interface {
	UserStorage
	PhotoStorage
	CommentStorage
	RatingStorage
	Close()
}
