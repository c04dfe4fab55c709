package models

import "time"

// User is an identity record. Email is unique case-insensitively; it is
// lowercased before storage so the unique index enforces that. The password
// hash never leaves the server.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Nickname  string    `json:"nickname" gorm:"size:20;uniqueIndex;not null"`
	CreatedAt time.Time `json:"-"`

	Tasks []Task `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Profile is the outward view of a user: what signup and login return and
// what the session carries. Never includes the password hash.
type Profile struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Nickname: u.Nickname}
}
