package models

import "time"

// Link is a bookmarked URL owned by exactly one user. Ownership is enforced
// in the handler layer, not here.
type Link struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `gorm:"size:2048;not null" json:"url"`
	Title     string    `gorm:"size:255" json:"title,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	// Image holds the stored filename of the uploaded image, empty if none.
	Image  string `gorm:"size:255" json:"image,omitempty"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// GetUserID returns the owning user's id.
func (l *Link) GetUserID() uint { return l.UserID }
