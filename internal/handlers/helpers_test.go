package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Nextbrand18/connectapp/internal/auth"
	"github.com/Nextbrand18/connectapp/internal/models"
	"github.com/Nextbrand18/connectapp/internal/upload"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Link{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setupStorage(t *testing.T) *upload.Storage {
	t.Helper()
	s, err := upload.New(t.TempDir())
	require.NoError(t, err)
	return s
}

func createUser(t *testing.T, db *gorm.DB, username, email, password string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: email}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(&user).Error)
	return user
}

// asUser injects the given user id into the request context, the way the
// session middleware does for authenticated requests.
func asUser(r *http.Request, uid uint) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), uid))
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// multipartRequest builds a POST with text fields and an optional file part.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// flashMessage returns the decoded flash cookie queued on the response, if any.
func flashMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			dec, err := url.QueryUnescape(c.Value)
			require.NoError(t, err)
			return dec
		}
	}
	return ""
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	return nil
}
