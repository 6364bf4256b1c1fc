package models

import "time"

// ContentType distinguishes movies from shows; values match the metadata provider.
type ContentType string

const (
	ContentTypeMovie ContentType = "movie"
	ContentTypeTV    ContentType = "tv"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeTV
}

// Content is a catalog item keyed by its external metadata id.
type Content struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	TMDBID     int64       `gorm:"column:tmdb_id;not null;uniqueIndex" json:"tmdb_id"`
	Title      string      `gorm:"column:titulo;not null" json:"title"`
	Type       ContentType `gorm:"column:tipo;type:varchar(10);not null" json:"type"`
	Genre      string      `gorm:"column:genero" json:"genre"`
	PosterPath string      `gorm:"column:poster_path" json:"poster_ref"`
	Runtime    int         `gorm:"column:duracion" json:"runtime"`
}

// TableName specifies the table name for GORM
func (Content) TableName() string {
	return "contenidos"
}

// Platform is a streaming platform or venue a watch can be attributed to.
type Platform struct {
	ID          string `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Description string `gorm:"column:descripcion" json:"description" yaml:"description"`
}

// TableName specifies the table name for GORM
func (Platform) TableName() string {
	return "plataformas"
}

// WatchLogEntry records one user watching one content item.
type WatchLogEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"column:usuario_id;size:36;not null;index" json:"user_id"`
	ContentID  uint      `gorm:"column:contenido_id;not null;index" json:"content_id"`
	WatchedAt  time.Time `gorm:"column:fecha_hora;not null;index" json:"timestamp"`
	Rating     int       `gorm:"column:nota" json:"rating"`
	PlatformID string    `gorm:"column:plataforma_id;size:64" json:"platform"`
	Comment    string    `gorm:"column:comentarios" json:"comment"`

	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content *Content `gorm:"foreignKey:ContentID" json:"content,omitempty"`
}

// TableName specifies the table name for GORM
func (WatchLogEntry) TableName() string {
	return "visionados"
}

// MinRating and MaxRating bound WatchLogEntry.Rating.
const (
	MinRating = 0
	MaxRating = 10
)

// ActivityOwner is the owner block of an activity item.
type ActivityOwner struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Surname  string `json:"surname"`
}

// ActivityContent is the content block of an activity item.
type ActivityContent struct {
	Title     string      `json:"title"`
	Type      ContentType `json:"type"`
	PosterRef string      `json:"poster_ref"`
}

// ActivityItem is one friend watch shown in the activity feed.
type ActivityItem struct {
	ID        uint            `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	Owner     ActivityOwner   `json:"owner"`
	Content   ActivityContent `json:"content"`
}

// ActivityItemFrom flattens a preloaded entry into the feed shape.
func ActivityItemFrom(e WatchLogEntry) ActivityItem {
	item := ActivityItem{
		ID:        e.ID,
		Timestamp: e.WatchedAt,
		Rating:    e.Rating,
		Comment:   e.Comment,
	}
	if e.User != nil {
		item.Owner = ActivityOwner{Name: e.User.Name, Nickname: e.User.Nickname, Surname: e.User.Surname}
	}
	if e.Content != nil {
		item.Content = ActivityContent{Title: e.Content.Title, Type: e.Content.Type, PosterRef: e.Content.PosterPath}
	}
	return item
}

// WatchStats aggregates a user's history.
type WatchStats struct {
	TotalEntries  int            `json:"total_entries"`
	TotalMinutes  int            `json:"total_minutes"`
	AverageRating float64        `json:"average_rating"`
	ByPlatform    map[string]int `json:"by_platform"`
	ByGenre       map[string]int `json:"by_genre"`
	ByType        map[string]int `json:"by_type"`
	ByMonth       map[string]int `json:"by_month"`
}

// UnknownBucket labels entries without a platform or genre in WatchStats.
const UnknownBucket = "unknown"
