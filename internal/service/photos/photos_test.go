package photos

import (
	"context"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/service/auth"
	"github.com/vsmolina/photoshare/internal/storage"
	"github.com/vsmolina/photoshare/mocks"
)

func newSvc(t *testing.T) (*Service, *mocks.MockPhotoStorage, *mocks.MockMediaStorage, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockPhotoStorage(ctrl)
	media := mocks.NewMockMediaStorage(ctrl)

	return New(st, media), st, media, ctrl
}

func owner() *models.User {
	return &models.User{ID: uuid.New(), Role: models.RoleUser}
}

func adminUser() *models.User {
	return &models.User{ID: uuid.New(), Role: models.RoleAdmin}
}

func photoOf(u *models.User, tags ...string) *models.Photo {
	p := &models.Photo{
		ID:        uuid.New(),
		UserID:    u.ID,
		ObjectKey: "photos/" + u.ID.String() + "/x.jpg",
		URL:       "http://cdn.local/x.jpg",
	}
	for _, tag := range tags {
		p.Tags = append(p.Tags, models.Tag{ID: uuid.New(), Name: tag})
	}
	return p
}

func TestUpload_OK(t *testing.T) {
	t.Parallel()

	svc, st, media, ctrl := newSvc(t)
	defer ctrl.Finish()

	u := owner()
	body := strings.NewReader("img-bytes")

	media.EXPECT().
		Upload(gomock.Any(), gomock.Any(), "image/jpeg", int64(9), body).
		Return("http://cdn.local/key.jpg", nil)

	var savedID uuid.UUID
	st.EXPECT().SavePhoto(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Photo) error {
			savedID = p.ID
			require.Equal(t, u.ID, p.UserID)
			require.Equal(t, "http://cdn.local/key.jpg", p.URL)
			require.True(t, strings.HasPrefix(p.ObjectKey, "photos/"+u.ID.String()+"/"))
			return nil
		})
	st.EXPECT().AddTagToPhoto(gomock.Any(), gomock.Any(), "nature").Return(nil)
	st.EXPECT().AddTagToPhoto(gomock.Any(), gomock.Any(), "sunset").Return(nil)
	st.EXPECT().PhotoByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID) (*models.Photo, error) {
			require.Equal(t, savedID, id)
			return &models.Photo{ID: id, UserID: u.ID}, nil
		})

	// Дубликаты и регистр схлопываются до двух тегов.
	got, err := svc.Upload(context.Background(), UploadInput{
		Owner:       u,
		ContentType: "image/jpeg",
		Size:        9,
		Content:     body,
		Description: " desc ",
		Tags:        []string{"Nature", "nature", "Sunset"},
	})
	require.NoError(t, err)
	require.Equal(t, savedID, got.ID)
}

func TestUpload_TooManyTags(t *testing.T) {
	t.Parallel()

	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.Upload(context.Background(), UploadInput{
		Owner:       owner(),
		ContentType: "image/jpeg",
		Size:        1,
		Content:     strings.NewReader("x"),
		Tags:        []string{"a", "b", "c", "d", "e", "f"},
	})
	require.ErrorIs(t, err, ErrTooManyTags)
}

func TestUpload_InvalidMedia(t *testing.T) {
	t.Parallel()

	svc, _, media, ctrl := newSvc(t)
	defer ctrl.Finish()

	media.EXPECT().
		Upload(gomock.Any(), gomock.Any(), "text/plain", gomock.Any(), gomock.Any()).
		Return("", storage.ErrInvalidMedia)

	_, err := svc.Upload(context.Background(), UploadInput{
		Owner:       owner(),
		ContentType: "text/plain",
		Size:        1,
		Content:     strings.NewReader("x"),
	})
	require.ErrorIs(t, err, ErrInvalidMedia)
}

func TestUpload_SaveFailure_RemovesObject(t *testing.T) {
	t.Parallel()

	svc, st, media, ctrl := newSvc(t)
	defer ctrl.Finish()

	media.EXPECT().
		Upload(gomock.Any(), gomock.Any(), "image/png", gomock.Any(), gomock.Any()).
		Return("http://cdn.local/k.png", nil)
	st.EXPECT().SavePhoto(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)
	media.EXPECT().Remove(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Upload(context.Background(), UploadInput{
		Owner:       owner(),
		ContentType: "image/png",
		Size:        1,
		Content:     strings.NewReader("x"),
	})
	require.Error(t, err)
}

func TestPhotoByID_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().PhotoByID(gomock.Any(), id).Return(nil, storage.ErrNotFound)

	_, err := svc.PhotoByID(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_OwnerAndAdminAllowed(t *testing.T) {
	t.Parallel()

	svc, st, media, ctrl := newSvc(t)
	defer ctrl.Finish()

	u := owner()
	p := photoOf(u)

	st.EXPECT().PhotoByID(gomock.Any(), p.ID).Return(p, nil)
	st.EXPECT().DeletePhoto(gomock.Any(), p.ID).Return(nil)
	media.EXPECT().Remove(gomock.Any(), p.ObjectKey).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), u, p.ID))

	st.EXPECT().PhotoByID(gomock.Any(), p.ID).Return(p, nil)
	st.EXPECT().DeletePhoto(gomock.Any(), p.ID).Return(nil)
	media.EXPECT().Remove(gomock.Any(), p.ObjectKey).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), adminUser(), p.ID))
}

func TestDelete_StrangerForbidden(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	p := photoOf(owner())

	st.EXPECT().PhotoByID(gomock.Any(), p.ID).Return(p, nil)

	err := svc.Delete(context.Background(), owner(), p.ID)
	require.ErrorIs(t, err, auth.ErrNotOwner)
}

func TestUpdateDescription_Forbidden(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	p := photoOf(owner())

	st.EXPECT().PhotoByID(gomock.Any(), p.ID).Return(p, nil)

	_, err := svc.UpdateDescription(context.Background(), owner(), p.ID, "new")
	require.ErrorIs(t, err, auth.ErrNotOwner)
}

func TestAddTags_LimitCountsExistingTags(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	u := owner()
	p := photoOf(u, "a", "b", "c", "d")

	st.EXPECT().PhotoByID(gomock.Any(), p.ID).Return(p, nil)

	_, err := svc.AddTags(context.Background(), u, p.ID, []string{"e", "f"})
	require.ErrorIs(t, err, ErrTooManyTags)
}

func TestAddTags_DuplicateTag(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	u := owner()
	p := photoOf(u, "nature")

	st.EXPECT().PhotoByID(gomock.Any(), p.ID).Return(p, nil)
	st.EXPECT().AddTagToPhoto(gomock.Any(), p.ID, "nature").Return(storage.ErrAlreadyExists)

	_, err := svc.AddTags(context.Background(), u, p.ID, []string{"nature"})
	require.ErrorIs(t, err, ErrTagAlreadyAdded)
}

func TestRemoveTag_NotAttached(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	u := owner()
	p := photoOf(u, "nature")

	st.EXPECT().PhotoByID(gomock.Any(), p.ID).Return(p, nil)
	st.EXPECT().RemoveTagFromPhoto(gomock.Any(), p.ID, "ghost").Return(storage.ErrNotFound)

	_, err := svc.RemoveTag(context.Background(), u, p.ID, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearchByTags_NormalizesInput(t *testing.T) {
	t.Parallel()

	svc, st, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SearchByTag(gomock.Any(), []string{"nature", "sunset"}).
		Return([]models.Photo{}, nil)

	_, err := svc.SearchByTags(context.Background(), []string{" Nature ", "SUNSET"})
	require.NoError(t, err)
}

func TestFilter_InvalidBounds(t *testing.T) {
	t.Parallel()

	svc, _, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	lo, hi := 4.0, 2.0
	_, err := svc.Filter(context.Background(), storage.PhotoFilter{MinRating: &lo, MaxRating: &hi})
	require.ErrorIs(t, err, ErrInvalidArgument)
}
