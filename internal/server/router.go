package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Nextbrand18/connectapp/internal/auth"
	"github.com/Nextbrand18/connectapp/internal/handlers"
	"github.com/Nextbrand18/connectapp/internal/models"
	"github.com/Nextbrand18/connectapp/internal/upload"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, sessions *auth.Sessions, uploads *upload.Storage) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth checks that the session still refers to an existing user.
	sessions.SetVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	ah := handlers.NewAuthHandler(db, sessions)
	ph := handlers.NewProfileHandler(db, uploads)
	lh := handlers.NewLinkHandler(db, uploads)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return sessions.RequireAuth(h)
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /register", ah.Register)
	mux.HandleFunc("POST /register", ah.Register)
	mux.HandleFunc("GET /login", ah.Login)
	mux.HandleFunc("POST /login", ah.Login)
	mux.Handle("GET /logout", requireAuth(ah.Logout))

	mux.Handle("GET /profile", requireAuth(ph.Profile))
	mux.Handle("POST /profile", requireAuth(ph.Profile))

	mux.Handle("GET /dashboard", requireAuth(lh.Dashboard))
	mux.HandleFunc("GET /dashboard/{username}", lh.PublicDashboard)

	mux.Handle("GET /add", requireAuth(lh.Add))
	mux.Handle("POST /add", requireAuth(lh.Add))
	mux.Handle("GET /edit/{id}", requireAuth(lh.Edit))
	mux.Handle("POST /edit/{id}", requireAuth(lh.Edit))
	mux.Handle("GET /delete/{id}", requireAuth(lh.Delete))

	// Static assets and the stored images referenced by links and profiles.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir()))))

	return withRecover(withLogging(sessions.Middleware(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
