// photos содержит бизнес-логику работы с фотографиями: загрузку и замену
// файлов, описания, теги и поиск/фильтрацию. Права доступа проверяются
// здесь же через пакет auth (владелец или администратор).
package photos

import (
	"errors"

	"github.com/vsmolina/photoshare/internal/storage"
)

var (
	// ErrNotFound — фотография не найдена. Транспорт: HTTP 404.
	ErrNotFound = errors.New("photo not found")

	// ErrInvalidArgument — некорректные входные данные (пустой файл,
	// пустое имя тега и т.п.). Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTooManyTags — превышен лимит в 5 тегов на фотографию.
	// Транспорт: HTTP 400.
	ErrTooManyTags = errors.New("can assign maximum 5 tags for a photo")

	// ErrTagAlreadyAdded — тег уже привязан к фотографии. Транспорт: HTTP 409.
	ErrTagAlreadyAdded = errors.New("tag already added to photo")

	// ErrInvalidMedia — нарушены ограничения загрузки (тип/размер файла).
	// Транспорт: HTTP 400.
	ErrInvalidMedia = errors.New("invalid media")
)

// Лимит тегов на фотографию.
const maxTagsPerPhoto = 5

// Service описывает бизнес-логику фотографий.
type Service struct {
	storage storage.PhotoStorage
	media   storage.MediaStorage
}

// New создаёт новый экземпляр Service.
func New(st storage.PhotoStorage, media storage.MediaStorage) *Service {
	return &Service{
		storage: st,
		media:   media,
	}
}
