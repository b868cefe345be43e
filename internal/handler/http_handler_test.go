package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsp-live/profile-service/internal/domain"
	"github.com/vsp-live/profile-service/internal/repository"
	"github.com/vsp-live/profile-service/internal/service"
	"github.com/vsp-live/profile-service/pkg/database"
	"github.com/vsp-live/profile-service/pkg/response"
)

// memStorage is an in-memory object store for handler tests.
type memStorage struct {
	objects map[string][]byte
}

func (m *memStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStorage) ObjectURL(key string) string {
	return "https://avatars.test.local/" + key
}

func (m *memStorage) Bucket() string { return "avatars-test" }

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New(&database.Config{
		Driver:   "sqlite",
		FilePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AvatarModel{}, &domain.ProfileModel{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := &memStorage{objects: map[string][]byte{}}
	avatarService := service.NewAvatarService(repository.NewGormAvatarRepository(db), store, nil)
	profileService := service.NewProfileService(repository.NewGormProfileRepository(db), avatarService)

	r := gin.New()
	NewHandler(avatarService, profileService).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doAvatarUpload(t *testing.T, r *gin.Engine, name, fileName string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", name))
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/avatars", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createAvatarViaAPI(t *testing.T, r *gin.Engine, name string) domain.Avatar {
	t.Helper()
	w := doAvatarUpload(t, r, name, name+".png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var avatar domain.Avatar
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avatar))
	return avatar
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateAvatarEndpoint(t *testing.T) {
	r := setupRouter(t)

	t.Run("created", func(t *testing.T) {
		avatar := createAvatarViaAPI(t, r, "pirate")
		assert.NotEmpty(t, avatar.ID)
		assert.Equal(t, "pirate", avatar.AvatarName)
		assert.True(t, strings.HasPrefix(avatar.ImageLink, "https://avatars.test.local/"))
	})

	t.Run("duplicate name", func(t *testing.T) {
		w := doAvatarUpload(t, r, "pirate", "again.png")
		require.Equal(t, http.StatusBadRequest, w.Code)

		body := decodeErrorBody(t, w)
		assert.Equal(t, http.StatusBadRequest, body.Status)
		assert.Equal(t, "Bad Request", body.Error)
		assert.Contains(t, body.Message, "pirate")
		assert.NotEmpty(t, body.Timestamp)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		w := doAvatarUpload(t, r, "sneaky", "payload.exe")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeErrorBody(t, w).Message, ".exe")
	})

	t.Run("missing fields", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/admin/avatars", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetAvatarsEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(t, r, http.MethodGet, "/avatar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	createAvatarViaAPI(t, r, "pirate")
	createAvatarViaAPI(t, r, "ninja")

	w = doRequest(t, r, http.MethodGet, "/avatar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var avatars []domain.Avatar
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avatars))
	assert.Len(t, avatars, 2)
}

func TestDeleteAvatarEndpoint(t *testing.T) {
	r := setupRouter(t)
	avatar := createAvatarViaAPI(t, r, "pirate")

	t.Run("invalid id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/admin/avatars/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/admin/avatars/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("deleted", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/admin/avatars/"+avatar.ID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestCreateProfileEndpoint(t *testing.T) {
	r := setupRouter(t)
	avatar := createAvatarViaAPI(t, r, "pirate")
	userID := uuid.New().String()

	t.Run("created", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/profile/"+userID, domain.CreateProfileRequest{
			Name:     "Alice",
			AvatarID: avatar.ID,
			IsKid:    true,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var profile domain.Profile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.Equal(t, userID, profile.UserID)
		assert.True(t, profile.IsKid)
		require.NotNil(t, profile.Avatar)
		assert.Equal(t, avatar.ImageLink, profile.Avatar.ImageLink)
	})

	t.Run("duplicate name", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/profile/"+userID, domain.CreateProfileRequest{
			Name:     "Alice",
			AvatarID: avatar.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown avatar", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/profile/"+userID, domain.CreateProfileRequest{
			Name:     "Bob",
			AvatarID: uuid.New().String(),
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("validation errors", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/profile/"+userID, map[string]any{
			"name":     strings.Repeat("x", 51),
			"avatarId": "not-a-uuid",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body response.FieldErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "request validation failed", body.Message)
		assert.Contains(t, body.FieldErrors, "name")
		assert.Contains(t, body.FieldErrors, "avatarID")
	})

	t.Run("invalid user id in path", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/profile/not-a-uuid", domain.CreateProfileRequest{
			Name:     "Carol",
			AvatarID: avatar.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeErrorBody(t, w).Message, "userId")
	})
}

func TestGetProfilesEndpoints(t *testing.T) {
	r := setupRouter(t)
	avatar := createAvatarViaAPI(t, r, "pirate")
	userID := uuid.New().String()

	w := doRequest(t, r, http.MethodPost, "/profile/"+userID, domain.CreateProfileRequest{
		Name:     "Alice",
		AvatarID: avatar.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("list", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/profile/"+userID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var profiles []domain.Profile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profiles))
		require.Len(t, profiles, 1)
		assert.Equal(t, created.ID, profiles[0].ID)
	})

	t.Run("get one", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/profile/"+userID+"/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var profile domain.Profile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.Equal(t, "Alice", profile.ProfileName)
	})

	t.Run("other user's profile", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/profile/"+uuid.New().String()+"/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("empty list for unknown user", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/profile/"+uuid.New().String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestUpdateProfileEndpoint(t *testing.T) {
	r := setupRouter(t)
	avatar := createAvatarViaAPI(t, r, "pirate")
	userID := uuid.New().String()

	w := doRequest(t, r, http.MethodPost, "/profile/"+userID, domain.CreateProfileRequest{
		Name:     "Alice",
		AvatarID: avatar.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("updated", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/profile/"+userID+"/"+created.ID, domain.CreateProfileRequest{
			Name:     "Alicia",
			AvatarID: avatar.ID,
			IsKid:    true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var profile domain.Profile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.Equal(t, "Alicia", profile.ProfileName)
		assert.True(t, profile.IsKid)
	})

	t.Run("unknown profile", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/profile/"+userID+"/"+uuid.New().String(), domain.CreateProfileRequest{
			Name:     "Ghost",
			AvatarID: avatar.ID,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteProfileEndpoints(t *testing.T) {
	r := setupRouter(t)
	avatar := createAvatarViaAPI(t, r, "pirate")
	userID := uuid.New().String()

	for _, name := range []string{"Alice", "Bob"} {
		w := doRequest(t, r, http.MethodPost, "/profile/"+userID, domain.CreateProfileRequest{
			Name:     name,
			AvatarID: avatar.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(t, r, http.MethodGet, "/profile/"+userID, nil)
	var profiles []domain.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profiles))
	require.Len(t, profiles, 2)

	t.Run("delete one", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/profile/"+userID+"/"+profiles[0].ID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, r, http.MethodDelete, "/profile/"+userID+"/"+profiles[0].ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "second delete finds nothing")
	})

	t.Run("delete all", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/profile/"+userID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, r, http.MethodGet, "/profile/"+userID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())

		// Repeating the bulk delete stays a 204.
		w = doRequest(t, r, http.MethodDelete, "/profile/"+userID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
