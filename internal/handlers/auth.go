package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/Nextbrand18/connectapp/internal/auth"
	"github.com/Nextbrand18/connectapp/internal/models"
	"github.com/Nextbrand18/connectapp/internal/validation"
	"github.com/Nextbrand18/connectapp/internal/view"
	"gorm.io/gorm"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	db       *gorm.DB
	sessions *auth.Sessions
}

func NewAuthHandler(db *gorm.DB, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions}
}

// render uses the shared view.Render to ensure layout, funcs and caching.
func render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "register.html", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	v := make(validation.Violations)
	validation.Required("username", username, v)
	validation.Required("email", email, v)
	if _, seen := v["email"]; !seen {
		validation.Email("email", email, v)
	}
	validation.Required("password", password, v)
	validation.Equal("confirm", confirm, password, v)

	form := map[string]any{"Username": username, "Email": email}
	if !v.Empty() {
		render(w, r, "register.html", map[string]any{"Form": form, "Errors": v})
		return
	}

	user := models.User{Username: username, Email: email}
	if err := user.SetPassword(password); err != nil {
		log.Printf("register: hash password: %v", err)
		render(w, r, "register.html", map[string]any{"Form": form, "Error": "Registration failed."})
		return
	}
	// Uniqueness of username/email is left to the storage constraints; a
	// duplicate insert rolls back and surfaces as a generic failure.
	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("register: create user: %v", err)
		render(w, r, "register.html", map[string]any{"Form": form, "Error": "Registration failed."})
		return
	}

	view.Flash(w, "success", "Registration successful.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		// Already-authenticated visitors go straight to the dashboard.
		if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		render(w, r, "login.html", map[string]any{"Next": r.URL.Query().Get("next")})
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	// The same generic message covers unknown email and wrong password.
	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		render(w, r, "login.html", map[string]any{"Error": "Invalid credentials", "Next": next})
		return
	}
	if !user.CheckPassword(password) {
		render(w, r, "login.html", map[string]any{"Error": "Invalid credentials", "Next": next})
		return
	}

	h.sessions.Create(w, user.ID)
	dest := "/dashboard"
	if next != "" && auth.SafeNext(next) {
		dest = next
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	view.Flash(w, "info", "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
