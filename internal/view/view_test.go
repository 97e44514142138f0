package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRender_WrapsLayout(t *testing.T) {
	ResetForTests()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	if err := Render(w, r, "login.html", nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("expected layout document wrapper")
	}
	if !strings.Contains(body, "Login") {
		t.Error("expected page content")
	}
}

func TestFlash_RoundTrip(t *testing.T) {
	ResetForTests()

	// Queue a flash, then render the next page carrying its cookie.
	setW := httptest.NewRecorder()
	Flash(setW, "success", "Registration successful.")

	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range setW.Result().Cookies() {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	if err := Render(w, r, "login.html", nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(w.Body.String(), "Registration successful.") {
		t.Error("expected flash message in body")
	}
	if !strings.Contains(w.Body.String(), "flash-success") {
		t.Error("expected flash kind class in body")
	}

	// The cookie is cleared so the notice shows exactly once.
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected flash cookie to be cleared")
	}
}

