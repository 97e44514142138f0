package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Nextbrand18/connectapp/internal/auth"
	"github.com/Nextbrand18/connectapp/internal/models"
	"github.com/Nextbrand18/connectapp/internal/upload"
	"github.com/Nextbrand18/connectapp/internal/validation"
	"github.com/Nextbrand18/connectapp/internal/view"
	"gorm.io/gorm"
)

// LinkHandler serves the dashboards and link CRUD.
type LinkHandler struct {
	db      *gorm.DB
	uploads *upload.Storage
}

func NewLinkHandler(db *gorm.DB, uploads *upload.Storage) *LinkHandler {
	return &LinkHandler{db: db, uploads: uploads}
}

// Dashboard lists the current user's links.
func (h *LinkHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var links []models.Link
	h.db.Where("user_id = ?", uid).Order("created_at desc").Find(&links)
	render(w, r, "dashboard.html", map[string]any{"Links": links})
}

// PublicDashboard lists a user's links by username, without authentication.
func (h *LinkHandler) PublicDashboard(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	var user models.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	var links []models.Link
	h.db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&links)
	render(w, r, "public_dashboard.html", map[string]any{"Links": links, "Owner": user})
}

func (h *LinkHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "add_link.html", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())

	form, violations, file, header, ok := h.parseLinkForm(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}
	if !violations.Empty() {
		render(w, r, "add_link.html", map[string]any{"Form": form, "Errors": violations})
		return
	}

	var image string
	if file != nil {
		name, err := h.uploads.SaveImage(file, header)
		if err != nil {
			log.Printf("add link: save image: %v", err)
			render(w, r, "add_link.html", map[string]any{"Form": form, "Error": "Could not save link."})
			return
		}
		image = name
	}

	link := models.Link{URL: form["url"], Title: form["title"], Notes: form["notes"], Image: image, UserID: uid}
	if err := h.db.Create(&link).Error; err != nil {
		log.Printf("add link: create: %v", err)
		if image != "" {
			if rerr := h.uploads.Remove(image); rerr != nil {
				log.Printf("add link: remove orphan image %s: %v", image, rerr)
			}
		}
		render(w, r, "add_link.html", map[string]any{"Form": form, "Error": "Could not save link."})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *LinkHandler) Edit(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedLink(w, r)
	if !ok {
		return
	}
	if r.Method == http.MethodGet {
		render(w, r, "edit_link.html", map[string]any{"Form": linkForm(link), "Link": link})
		return
	}

	form, violations, file, header, pok := h.parseLinkForm(w, r)
	if !pok {
		return
	}
	if file != nil {
		defer file.Close()
	}
	if !violations.Empty() {
		render(w, r, "edit_link.html", map[string]any{"Form": form, "Link": link, "Errors": violations})
		return
	}

	old := link.Image
	if file != nil {
		name, err := h.uploads.SaveImage(file, header)
		if err != nil {
			log.Printf("edit link %d: save image: %v", link.ID, err)
			render(w, r, "edit_link.html", map[string]any{"Form": form, "Link": link, "Error": "Could not save link."})
			return
		}
		link.Image = name
	}
	link.URL = form["url"]
	link.Title = form["title"]
	link.Notes = form["notes"]

	if err := h.db.Save(&link).Error; err != nil {
		log.Printf("edit link %d: save: %v", link.ID, err)
		if link.Image != old {
			if rerr := h.uploads.Remove(link.Image); rerr != nil {
				log.Printf("edit link %d: remove orphan image %s: %v", link.ID, link.Image, rerr)
			}
		}
		render(w, r, "edit_link.html", map[string]any{"Form": form, "Link": link, "Error": "Could not save link."})
		return
	}
	// Commit first, then drop the replaced file. A crash in between leaves a
	// stray file rather than a broken reference.
	if old != "" && old != link.Image {
		if rerr := h.uploads.Remove(old); rerr != nil {
			log.Printf("edit link %d: remove old image %s: %v", link.ID, old, rerr)
		}
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedLink(w, r)
	if !ok {
		return
	}
	if link.Image != "" {
		if err := h.uploads.Remove(link.Image); err != nil {
			log.Printf("delete link %d: remove image %s: %v", link.ID, link.Image, err)
		}
	}
	if err := h.db.Delete(&link).Error; err != nil {
		log.Printf("delete link %d: %v", link.ID, err)
		view.Flash(w, "error", "Could not delete link.")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ownedLink loads the link addressed by the id path value and enforces
// ownership. Unknown ids 404; links owned by another user redirect to the
// dashboard with a notice and no mutation.
func (h *LinkHandler) ownedLink(w http.ResponseWriter, r *http.Request) (models.Link, bool) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var link models.Link
	if err := h.db.First(&link, "id = ?", r.PathValue("id")).Error; err != nil {
		http.NotFound(w, r)
		return models.Link{}, false
	}
	if link.GetUserID() != uid {
		view.Flash(w, "error", "You cannot modify this link.")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return models.Link{}, false
	}
	return link, true
}

// parseLinkForm reads the shared add/edit form. The returned file is nil when
// no image was supplied; a disallowed image type is reported as a violation.
// A false final return means the request was already answered.
func (h *LinkHandler) parseLinkForm(w http.ResponseWriter, r *http.Request) (map[string]string, validation.Violations, multipart.File, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return nil, nil, nil, nil, false
	}
	form := map[string]string{
		"url":   strings.TrimSpace(r.FormValue("url")),
		"title": strings.TrimSpace(r.FormValue("title")),
		"notes": r.FormValue("notes"),
	}
	v := make(validation.Violations)
	validation.Required("url", form["url"], v)
	if _, seen := v["url"]; !seen {
		validation.URL("url", form["url"], v)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return form, v, nil, nil, true
	}
	if !upload.Allowed(header.Filename, upload.LinkImageExts) {
		file.Close()
		v["image"] = "File type not allowed."
		return form, v, nil, nil, true
	}
	return form, v, file, header, true
}

// linkForm maps the entity to its form-field values for pre-fill.
func linkForm(l models.Link) map[string]string {
	return map[string]string{"url": l.URL, "title": l.Title, "notes": l.Notes}
}
