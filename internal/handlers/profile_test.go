package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/Nextbrand18/connectapp/internal/models"
	"github.com/stretchr/testify/require"
)

func TestProfile_PrefillsBio(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice", "alice@example.com", "pw1")
	alice.Bio = "I collect links."
	require.NoError(t, db.Save(&alice).Error)
	h := NewProfileHandler(db, setupStorage(t))

	w := httptest.NewRecorder()
	h.Profile(w, asUser(httptest.NewRequest(http.MethodGet, "/profile", nil), alice.ID))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "I collect links.")
}

func TestProfile_UpdatesBio(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice", "alice@example.com", "pw1")
	h := NewProfileHandler(db, setupStorage(t))

	form := url.Values{"bio": {"New bio text"}}
	w := httptest.NewRecorder()
	h.Profile(w, asUser(formRequest(http.MethodPost, "/profile", form), alice.ID))

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/profile", w.Header().Get("Location"))
	require.Contains(t, flashMessage(t, w), "Profile updated.")

	var got models.User
	require.NoError(t, db.First(&got, alice.ID).Error)
	require.Equal(t, "New bio text", got.Bio)
}

func TestProfile_StoresPictureUnderDeterministicName(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice", "alice@example.com", "pw1")
	uploads := setupStorage(t)
	h := NewProfileHandler(db, uploads)

	req := multipartRequest(t, "/profile", map[string]string{"bio": "hi"}, "picture", "me.png", []byte("pngdata"))
	w := httptest.NewRecorder()
	h.Profile(w, asUser(req, alice.ID))

	require.Equal(t, http.StatusSeeOther, w.Code)
	var got models.User
	require.NoError(t, db.First(&got, alice.ID).Error)
	require.Equal(t, "user_1.png", got.Picture)
	_, err := os.Stat(uploads.Path(got.Picture))
	require.NoError(t, err)
}

func TestProfile_ReplacingPictureRemovesOldFile(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice", "alice@example.com", "pw1")
	uploads := setupStorage(t)
	h := NewProfileHandler(db, uploads)

	req := multipartRequest(t, "/profile", nil, "picture", "me.png", []byte("v1"))
	w := httptest.NewRecorder()
	h.Profile(w, asUser(req, alice.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)

	// A different extension produces a new name; the old file goes away.
	req = multipartRequest(t, "/profile", nil, "picture", "me.jpg", []byte("v2"))
	w = httptest.NewRecorder()
	h.Profile(w, asUser(req, alice.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var got models.User
	require.NoError(t, db.First(&got, alice.ID).Error)
	require.Equal(t, "user_1.jpg", got.Picture)
	_, err := os.Stat(uploads.Path("user_1.jpg"))
	require.NoError(t, err)
	_, err = os.Stat(uploads.Path("user_1.png"))
	require.True(t, os.IsNotExist(err))
}

func TestProfile_DisallowedPictureType(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice", "alice@example.com", "pw1")
	h := NewProfileHandler(db, setupStorage(t))

	req := multipartRequest(t, "/profile", map[string]string{"bio": "hi"}, "picture", "me.bmp", []byte("bmpdata"))
	w := httptest.NewRecorder()
	h.Profile(w, asUser(req, alice.ID))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "File type not allowed.")
	var got models.User
	require.NoError(t, db.First(&got, alice.ID).Error)
	require.Empty(t, got.Picture)
}
