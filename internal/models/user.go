// Package models contains data structures for the application's domain models.
package models

// User is a profile row owned by the identity provider. The social graph only reads it.
type User struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Nickname string `gorm:"column:nickname;size:64;index" json:"nickname"`
	Name     string `gorm:"column:nombre;size:128" json:"name"`
	Surname  string `gorm:"column:apellido1;size:128" json:"surname"`
	Contact  string `gorm:"column:mail;size:255;index" json:"contact"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "usuarios"
}

// Profile is the public shape of a user returned by social queries.
type Profile struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Contact  string `json:"contact"`
}

// Profile projects the user onto its public profile.
func (u User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Nickname: u.Nickname,
		Name:     u.Name,
		Surname:  u.Surname,
		Contact:  u.Contact,
	}
}

// Profiles projects a slice of users.
func Profiles(users []User) []Profile {
	out := make([]Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out
}
