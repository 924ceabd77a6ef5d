// Package domain contains the core data types for the Konakovo site backend.
// It is imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// HeroBlock is the banner shown at the top of the landing page.
// Only the newest active block is ever served.
type HeroBlock struct {
	ID              uuid.UUID
	Title           string
	Description     string
	BackgroundImage string // media path relative to MEDIA_URL, or absolute URL
	Avatar          string
	IsActive        bool
	CreatedAt       time.Time
}

// Review is a guest testimonial for a past event.
type Review struct {
	ID        uuid.UUID
	Avatar    string
	Name      string
	EventName string
	Rating    int // 1..5
	Text      string
	Date      time.Time
	CreatedAt time.Time
}

// ContentType distinguishes text articles from video posts.
type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypeVideo   ContentType = "video"
)

// Valid reports whether c is one of the known content types.
func (c ContentType) Valid() bool {
	return c == ContentTypeArticle || c == ContentTypeVideo
}

// Article is a long-form post or a video entry. Slug is assigned once on
// creation and never changes afterwards.
type Article struct {
	ID                 uuid.UUID
	Title              string
	Slug               string
	ContentType        ContentType
	PreviewImage       string
	PreviewDescription string
	Content            string // sanitized HTML
	VideoURL           string
	IsPublished        bool
	PublishedDate      time.Time
	CreatedAt          time.Time
}

// News is a short announcement. Content is stored as a list of paragraphs.
type News struct {
	ID            uuid.UUID
	Title         string
	Slug          string
	Description   string
	Image         string
	Content       []string
	IsPublished   bool
	PublishedDate time.Time
	CreatedAt     time.Time
}

// Page is a static landing page with ordered sections and a photo gallery.
type Page struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Subtitle    string
	HeroImage   string
	IsPublished bool
	Order       int
	Sections    []PageSection
	Gallery     []GalleryImage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PageSection is one titled block of text on a Page.
type PageSection struct {
	ID     uuid.UUID
	PageID uuid.UUID
	Title  string
	Text   string
	Image  string
	Order  int
}

// GalleryImage is one picture in a Page gallery.
type GalleryImage struct {
	ID     uuid.UUID
	PageID uuid.UUID
	Image  string
	Order  int
}
