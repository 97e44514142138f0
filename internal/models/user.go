package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an account holder. The password is only ever stored as a
// bcrypt hash; plaintext never reaches the database.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	// Picture holds the stored filename of the profile picture, empty if none.
	Picture string `gorm:"size:255" json:"picture,omitempty"`
	Links   []Link `gorm:"foreignKey:UserID" json:"-"`
}

// SetPassword hashes plain with bcrypt and stores the hash on the user.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
