package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Nextbrand18/connectapp/internal/auth"
	"github.com/Nextbrand18/connectapp/internal/models"
	"github.com/Nextbrand18/connectapp/internal/upload"
	"github.com/Nextbrand18/connectapp/internal/view"
	"gorm.io/gorm"
)

// maxUploadBytes bounds multipart form memory for image uploads.
const maxUploadBytes = 8 << 20

// ProfileHandler serves the bio and profile-picture form.
type ProfileHandler struct {
	db      *gorm.DB
	uploads *upload.Storage
}

func NewProfileHandler(db *gorm.DB, uploads *upload.Storage) *ProfileHandler {
	return &ProfileHandler{db: db, uploads: uploads}
}

func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var user models.User
	if err := h.db.First(&user, uid).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodGet {
		render(w, r, "profile.html", map[string]any{"Form": profileForm(user), "User": user})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	user.Bio = r.FormValue("bio")

	file, header, err := r.FormFile("picture")
	if err == nil {
		defer file.Close()
		if !upload.Allowed(header.Filename, upload.PictureExts) {
			render(w, r, "profile.html", map[string]any{
				"Form": profileForm(user), "User": user,
				"Errors": map[string]string{"picture": "File type not allowed."},
			})
			return
		}
		old := user.Picture
		name, serr := h.uploads.SavePicture(user.ID, file, header)
		if serr != nil {
			log.Printf("profile: save picture: %v", serr)
			render(w, r, "profile.html", map[string]any{"Form": profileForm(user), "User": user, "Error": "Could not update profile."})
			return
		}
		// The deterministic name only changes with the extension; remove the
		// previous file when it does.
		if old != "" && old != name {
			if rerr := h.uploads.Remove(old); rerr != nil {
				log.Printf("profile: remove old picture %s: %v", old, rerr)
			}
		}
		user.Picture = name
	}

	if err := h.db.Save(&user).Error; err != nil {
		log.Printf("profile: save user %d: %v", user.ID, err)
		render(w, r, "profile.html", map[string]any{"Form": profileForm(user), "User": user, "Error": "Could not update profile."})
		return
	}
	view.Flash(w, "success", "Profile updated.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// profileForm maps the entity to its form-field values for pre-fill.
func profileForm(u models.User) map[string]string {
	return map[string]string{"bio": u.Bio}
}
