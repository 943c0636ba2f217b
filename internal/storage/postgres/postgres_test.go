package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/storage"
)

// Файл интеграционных тестов для пакета postgres:
// - поднимает реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяет миграции из ./migrations в порядке нумерации;
// - проверяет happy-path по всем репозиториям (users/photos/comments/ratings),
//   уникальность (email CITEXT, связка photo_tags, пара photo+user у оценок),
//   условную ротацию refresh-токена и каскадное удаление;
// - валидирует сценарии отсутствия записей (storage.ErrNotFound) и обработку ошибок контекста.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
// Используется для поиска SQL-миграций в каталоге ./migrations независимо от текущего рабочего каталога.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает временный экземпляр PostgreSQL через testcontainers-go,
// применяет все миграции и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// применяем миграции.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	for _, name := range []string{
		"1_init_users.up.sql",
		"2_init_photos.up.sql",
		"3_init_comments_ratings.up.sql",
	} {
		_, err = pool.Exec(ctx, readMigration(t, name))
		require.NoError(t, err, "apply migration %s", name)
	}

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// seedUser — создаёт пользователя с заданным email и возвращает его.
func seedUser(t *testing.T, st *Storage, email string) *models.User {
	t.Helper()

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     "user_" + uuid.NewString()[:8],
		PasswordHash: "hash",
		Role:         models.RoleUser,
		Allowed:      true,
		Confirmed:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.SaveUser(context.Background(), u))
	return u
}

// seedPhoto — создаёт фотографию пользователя с заданным описанием.
func seedPhoto(t *testing.T, st *Storage, userID uuid.UUID, description string) *models.Photo {
	t.Helper()

	now := time.Now().UTC()
	p := &models.Photo{
		ID:          uuid.New(),
		UserID:      userID,
		ObjectKey:   "photos/" + uuid.NewString(),
		URL:         "http://media.local/" + uuid.NewString(),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.SavePhoto(context.Background(), p))
	return p
}

// TestIntegration_SaveUser_And_Lookup_OK — happy-path: сохранение пользователя
// и последующий поиск по email и ID; CITEXT делает поиск регистронезависимым.
func TestIntegration_SaveUser_And_Lookup_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Email:        "User@Example.Com",
		Username:     "traveller",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
		Allowed:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.SaveUser(context.Background(), u))

	gotByEmail, err := st.UserByEmail(context.Background(), strings.ToLower(u.Email))
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByEmail.ID)
	require.Equal(t, models.RoleAdmin, gotByEmail.Role)
	require.False(t, gotByEmail.Confirmed)
	require.Empty(t, gotByEmail.RefreshToken)
	require.WithinDuration(t, u.CreatedAt, gotByEmail.CreatedAt, time.Second)

	gotByID, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByID.ID)

	count, err := st.CountUsers(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

// TestIntegration_SaveUser_DuplicateEmail — конфликт уникальности по email:
// CITEXT считает адреса равными независимо от регистра.
func TestIntegration_SaveUser_DuplicateEmail(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	seedUser(t, st, "dup@example.com")

	now := time.Now().UTC()
	err := st.SaveUser(context.Background(), &models.User{
		ID:           uuid.New(),
		Email:        "DUP@example.com",
		Username:     "other",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_UserByEmail_NotFound — поиск несуществующего пользователя.
func TestIntegration_UserByEmail_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_RotateRefreshToken_Semantics — условная замена слота:
// совпадение старого значения ротирует, несовпадение — нет (первый успевший
// выигрывает), неизвестный пользователь — ErrNotFound.
func TestIntegration_RotateRefreshToken_Semantics(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := seedUser(t, st, "rotate@example.com")

	require.NoError(t, st.UpdateRefreshToken(context.Background(), u.ID, "refresh-1"))

	rotated, err := st.RotateRefreshToken(context.Background(), u.ID, "refresh-1", "refresh-2")
	require.NoError(t, err)
	require.True(t, rotated)

	// Повторная попытка со старым значением: слот уже занят новым.
	rotated, err = st.RotateRefreshToken(context.Background(), u.ID, "refresh-1", "refresh-3")
	require.NoError(t, err)
	require.False(t, rotated)

	got, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, "refresh-2", got.RefreshToken)

	_, err = st.RotateRefreshToken(context.Background(), uuid.New(), "refresh-2", "refresh-3")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UpdateRefreshToken_ClearsSlot — пустая строка записывает NULL,
// при чтении слот возвращается пустым.
func TestIntegration_UpdateRefreshToken_ClearsSlot(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := seedUser(t, st, "clear@example.com")

	require.NoError(t, st.UpdateRefreshToken(context.Background(), u.ID, "refresh-1"))
	require.NoError(t, st.UpdateRefreshToken(context.Background(), u.ID, ""))

	got, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Empty(t, got.RefreshToken)

	err = st.UpdateRefreshToken(context.Background(), uuid.New(), "refresh-1")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_ConfirmEmail — подтверждение почты: флаг выставляется,
// неизвестный адрес — ErrNotFound.
func TestIntegration_ConfirmEmail(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Email:        "confirm@example.com",
		Username:     "pending",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		Allowed:      true,
		Confirmed:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.SaveUser(context.Background(), u))

	require.NoError(t, st.ConfirmEmail(context.Background(), "Confirm@Example.Com"))

	got, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, got.Confirmed)

	err = st.ConfirmEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_RoleAllowedProfile — смена роли, мягкая блокировка
// и обновление профиля; ListUsers возвращает всех по дате регистрации.
func TestIntegration_RoleAllowedProfile(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := seedUser(t, st, "first@example.com")
	seedUser(t, st, "second@example.com")

	require.NoError(t, st.UpdateUserRole(context.Background(), u.ID, models.RoleModerator))
	require.NoError(t, st.SetUserAllowed(context.Background(), u.ID, false))

	u.Username = "renamed"
	u.PhoneNumber = "+79991234567"
	u.AvatarURL = "http://media.local/avatars/" + u.ID.String()
	require.NoError(t, st.UpdateProfile(context.Background(), u))

	got, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleModerator, got.Role)
	require.False(t, got.Allowed)
	require.Equal(t, "renamed", got.Username)
	require.Equal(t, "+79991234567", got.PhoneNumber)

	all, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, u.ID, all[0].ID)

	require.ErrorIs(t, st.UpdateUserRole(context.Background(), uuid.New(), models.RoleUser), storage.ErrNotFound)
	require.ErrorIs(t, st.SetUserAllowed(context.Background(), uuid.New(), true), storage.ErrNotFound)
}

// TestIntegration_Photos_TagsLifecycle — привязка тегов по имени:
// тег создаётся при первом использовании и переиспользуется дальше,
// повторная привязка к той же фотографии — ErrAlreadyExists,
// отвязка несуществующей связи — ErrNotFound.
func TestIntegration_Photos_TagsLifecycle(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := seedUser(t, st, "tags@example.com")
	first := seedPhoto(t, st, u.ID, "sunset at the beach")
	second := seedPhoto(t, st, u.ID, "mountain trail")

	require.NoError(t, st.AddTagToPhoto(context.Background(), first.ID, "sunset"))
	require.NoError(t, st.AddTagToPhoto(context.Background(), first.ID, "beach"))

	err := st.AddTagToPhoto(context.Background(), first.ID, "sunset")
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	// Тот же тег на другой фотографии — переиспользуется без конфликта.
	require.NoError(t, st.AddTagToPhoto(context.Background(), second.ID, "sunset"))

	got, err := st.PhotoByID(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 2)
	// Теги возвращаются по имени.
	require.Equal(t, "beach", got.Tags[0].Name)
	require.Equal(t, "sunset", got.Tags[1].Name)

	require.NoError(t, st.RemoveTagFromPhoto(context.Background(), first.ID, "beach"))
	require.ErrorIs(t, st.RemoveTagFromPhoto(context.Background(), first.ID, "beach"), storage.ErrNotFound)

	require.NoError(t, st.ClearTags(context.Background(), first.ID))
	got, err = st.PhotoByID(context.Background(), first.ID)
	require.NoError(t, err)
	require.Empty(t, got.Tags)

	// Привязка к несуществующей фотографии — нарушение внешнего ключа.
	require.ErrorIs(t, st.AddTagToPhoto(context.Background(), uuid.New(), "sunset"), storage.ErrNotFound)
}

// TestIntegration_Photos_SearchAndFilter — поиск по тегам и подстроке описания,
// фильтрация по среднему рейтингу и дате создания.
func TestIntegration_Photos_SearchAndFilter(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	owner := seedUser(t, st, "owner@example.com")
	rater := seedUser(t, st, "rater@example.com")

	tagged := seedPhoto(t, st, owner.ID, "Sunset over the bay")
	plain := seedPhoto(t, st, owner.ID, "city streets")

	require.NoError(t, st.AddTagToPhoto(context.Background(), tagged.ID, "sunset"))

	byTag, err := st.SearchByTag(context.Background(), []string{"sunset", "missing"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	require.Equal(t, tagged.ID, byTag[0].ID)

	// ILIKE: регистр подстроки не важен.
	byKeyword, err := st.SearchByKeyword(context.Background(), "SUNSET")
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	require.Equal(t, tagged.ID, byKeyword[0].ID)

	require.NoError(t, st.SaveRating(context.Background(), &models.Rating{
		ID:        uuid.New(),
		PhotoID:   tagged.ID,
		UserID:    rater.ID,
		Value:     5,
		CreatedAt: time.Now().UTC(),
	}))

	minRating := 4.0
	filtered, err := st.FilterPhotos(context.Background(), storage.PhotoFilter{MinRating: &minRating})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, tagged.ID, filtered[0].ID)

	// Без нижней границы в выборке обе фотографии.
	filtered, err = st.FilterPhotos(context.Background(), storage.PhotoFilter{})
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	until := plain.CreatedAt.Add(time.Hour)
	filtered, err = st.FilterPhotos(context.Background(), storage.PhotoFilter{Until: &until})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
}

// TestIntegration_Photos_UpdateDelete — обновление описания и файла,
// каскадное удаление комментариев и оценок вместе с фотографией.
func TestIntegration_Photos_UpdateDelete(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	owner := seedUser(t, st, "cascade@example.com")
	rater := seedUser(t, st, "cascade-rater@example.com")
	photo := seedPhoto(t, st, owner.ID, "before")

	require.NoError(t, st.UpdateDescription(context.Background(), photo.ID, "after"))

	photo.ObjectKey = "photos/replaced"
	photo.URL = "http://media.local/replaced"
	require.NoError(t, st.UpdatePhoto(context.Background(), photo))

	got, err := st.PhotoByID(context.Background(), photo.ID)
	require.NoError(t, err)
	require.Equal(t, "after", got.Description)
	require.Equal(t, "photos/replaced", got.ObjectKey)

	now := time.Now().UTC()
	require.NoError(t, st.SaveComment(context.Background(), &models.Comment{
		ID: uuid.New(), PhotoID: photo.ID, UserID: rater.ID,
		Content: "nice", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, st.SaveRating(context.Background(), &models.Rating{
		ID: uuid.New(), PhotoID: photo.ID, UserID: rater.ID,
		Value: 4, CreatedAt: now,
	}))

	require.NoError(t, st.DeletePhoto(context.Background(), photo.ID))

	_, err = st.PhotoByID(context.Background(), photo.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	comments, err := st.CommentsByPhoto(context.Background(), photo.ID)
	require.NoError(t, err)
	require.Empty(t, comments)

	avg, err := st.AverageForPhoto(context.Background(), photo.ID)
	require.NoError(t, err)
	require.Zero(t, avg)

	require.ErrorIs(t, st.DeletePhoto(context.Background(), photo.ID), storage.ErrNotFound)
	require.ErrorIs(t, st.UpdateDescription(context.Background(), uuid.New(), "x"), storage.ErrNotFound)
}

// TestIntegration_Comments_Lifecycle — создание, порядок выдачи (старые первыми),
// правка и удаление; комментарий к несуществующей фотографии — ErrNotFound.
func TestIntegration_Comments_Lifecycle(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := seedUser(t, st, "comments@example.com")
	photo := seedPhoto(t, st, u.ID, "commented")

	base := time.Now().UTC()
	first := &models.Comment{
		ID: uuid.New(), PhotoID: photo.ID, UserID: u.ID,
		Content: "first", CreatedAt: base, UpdatedAt: base,
	}
	second := &models.Comment{
		ID: uuid.New(), PhotoID: photo.ID, UserID: u.ID,
		Content: "second", CreatedAt: base.Add(time.Second), UpdatedAt: base.Add(time.Second),
	}
	require.NoError(t, st.SaveComment(context.Background(), first))
	require.NoError(t, st.SaveComment(context.Background(), second))

	list, err := st.CommentsByPhoto(context.Background(), photo.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "first", list[0].Content)
	require.Equal(t, "second", list[1].Content)

	require.NoError(t, st.UpdateComment(context.Background(), first.ID, "edited"))

	got, err := st.CommentByID(context.Background(), first.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Content)

	require.NoError(t, st.DeleteComment(context.Background(), first.ID))
	require.ErrorIs(t, st.DeleteComment(context.Background(), first.ID), storage.ErrNotFound)
	_, err = st.CommentByID(context.Background(), first.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	err = st.SaveComment(context.Background(), &models.Comment{
		ID: uuid.New(), PhotoID: uuid.New(), UserID: u.ID,
		Content: "orphan", CreatedAt: base, UpdatedAt: base,
	})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_Ratings_UniquePerUser — одна оценка на пару (фото, пользователь),
// средние значения и счётчики статистики.
func TestIntegration_Ratings_UniquePerUser(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	owner := seedUser(t, st, "stats-owner@example.com")
	alice := seedUser(t, st, "alice@example.com")
	bob := seedUser(t, st, "bob@example.com")
	photo := seedPhoto(t, st, owner.ID, "rated")

	now := time.Now().UTC()
	require.NoError(t, st.SaveRating(context.Background(), &models.Rating{
		ID: uuid.New(), PhotoID: photo.ID, UserID: alice.ID, Value: 5, CreatedAt: now,
	}))
	require.NoError(t, st.SaveRating(context.Background(), &models.Rating{
		ID: uuid.New(), PhotoID: photo.ID, UserID: bob.ID, Value: 2, CreatedAt: now,
	}))

	err := st.SaveRating(context.Background(), &models.Rating{
		ID: uuid.New(), PhotoID: photo.ID, UserID: alice.ID, Value: 1, CreatedAt: now,
	})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	avg, err := st.AverageForPhoto(context.Background(), photo.ID)
	require.NoError(t, err)
	require.InDelta(t, 3.5, avg, 1e-9)

	received, err := st.AverageReceivedByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.InDelta(t, 3.5, received, 1e-9)

	given, err := st.AverageGivenByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.InDelta(t, 5.0, given, 1e-9)

	photoCount, err := st.CountPhotosByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), photoCount)

	commentCount, err := st.CountCommentsByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Zero(t, commentCount)

	// Оценка несуществующей фотографии — нарушение внешнего ключа.
	err = st.SaveRating(context.Background(), &models.Rating{
		ID: uuid.New(), PhotoID: uuid.New(), UserID: alice.ID, Value: 3, CreatedAt: now,
	})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_ContextErrors — отменённый контекст и истёкший дедлайн
// доходят до вызывающего кода.
func TestIntegration_ContextErrors(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.UserByEmail(canceled, "ctx@example.com")
	require.ErrorIs(t, err, context.Canceled)

	expired, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()
	time.Sleep(time.Millisecond)

	_, err = st.ListUsers(expired)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
