package models

import "github.com/uptrace/bun"

// Resource is the base row shared by every resource subtype. Subtype tables
// key on the generated resource id; the natural key is the content path.
type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:r"`

	ID       int    `bun:",pk,autoincrement" json:"id"`
	Path     string `bun:",nullzero" json:"path"`
	Category string `bun:",nullzero" json:"category"`

	SyncColumns

	Tags []*Tag `bun:"m2m:resource_tags,join:Resource=Tag" json:"tags,omitempty"`
}

type ResourceTag struct {
	bun.BaseModel `bun:"table:resource_tags,alias:rt"`

	ResourceID int       `bun:",pk,nullzero" json:"resource_id"`
	Resource   *Resource `bun:"rel:belongs-to,join:resource_id=id" json:"-"`
	TagID      int       `bun:",pk,nullzero" json:"tag_id"`
	Tag        *Tag      `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}

type Book struct {
	bun.BaseModel `bun:"table:books,alias:bk"`

	ResourceID       int     `bun:",pk,nullzero" json:"resource_id"`
	Title            string  `bun:",nullzero" json:"title"`
	Author           string  `json:"author"`
	CoverURL         *string `json:"cover_url"`
	OriginalLanguage *string `json:"original_language"`
	PublicationYear  *int    `json:"publication_year"`

	Localized []*BookLocalized `bun:"rel:has-many,join:resource_id=resource_id" json:"localized,omitempty"`
}

type BookLocalized struct {
	bun.BaseModel `bun:"table:book_localized,alias:bkl"`

	ResourceID int     `bun:",pk,nullzero" json:"resource_id"`
	Language   string  `bun:",pk,nullzero" json:"language"`
	Title      string  `bun:",nullzero" json:"title"`
	Summary    string  `json:"summary"`
	Publisher  *string `json:"publisher"`

	SyncColumns
}

// Builder is a company or project. Builders import before every other
// resource subtype because podcasts, bets, and conferences reference them by
// name.
type Builder struct {
	bun.BaseModel `bun:"table:builders,alias:bu"`

	ResourceID int      `bun:",pk,nullzero" json:"resource_id"`
	Name       string   `bun:",nullzero" json:"name"`
	Category   string   `bun:",nullzero" json:"category"`
	WebsiteURL *string  `json:"website_url"`
	TwitterURL *string  `json:"twitter_url"`
	GithubURL  *string  `json:"github_url"`
	Address    *string  `json:"address"`
	PlaceID    *string  `json:"place_id"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`

	Localized []*BuilderLocalized `bun:"rel:has-many,join:resource_id=resource_id" json:"localized,omitempty"`
}

type BuilderLocalized struct {
	bun.BaseModel `bun:"table:builder_localized,alias:bul"`

	ResourceID  int    `bun:",pk,nullzero" json:"resource_id"`
	Language    string `bun:",pk,nullzero" json:"language"`
	Description string `json:"description"`

	SyncColumns
}

type Conference struct {
	bun.BaseModel `bun:"table:conferences,alias:cf"`

	ResourceID  int     `bun:",pk,nullzero" json:"resource_id"`
	Name        string  `bun:",nullzero" json:"name"`
	Year        int     `json:"year"`
	BuilderName *string `json:"builder_name"`
	Location    string  `json:"location"`
	WebsiteURL  *string `json:"website_url"`
	Description string  `json:"description"`
}

type GlossaryWord struct {
	bun.BaseModel `bun:"table:glossary_words,alias:gw"`

	ResourceID   int    `bun:",pk,nullzero" json:"resource_id"`
	OriginalWord string `bun:",nullzero" json:"original_word"`

	Localized []*GlossaryWordLocalized `bun:"rel:has-many,join:resource_id=resource_id" json:"localized,omitempty"`
}

type GlossaryWordLocalized struct {
	bun.BaseModel `bun:"table:glossary_word_localized,alias:gwl"`

	ResourceID int    `bun:",pk,nullzero" json:"resource_id"`
	Language   string `bun:",pk,nullzero" json:"language"`
	Term       string `bun:",nullzero" json:"term"`
	Definition string `json:"definition"`

	SyncColumns
}

type Newsletter struct {
	bun.BaseModel `bun:"table:newsletters,alias:nl"`

	ResourceID  int     `bun:",pk,nullzero" json:"resource_id"`
	Title       string  `bun:",nullzero" json:"title"`
	Author      string  `json:"author"`
	WebsiteURL  *string `json:"website_url"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
}

type Podcast struct {
	bun.BaseModel `bun:"table:podcasts,alias:pc"`

	ResourceID  int     `bun:",pk,nullzero" json:"resource_id"`
	Name        string  `bun:",nullzero" json:"name"`
	Host        string  `json:"host"`
	BuilderName *string `json:"builder_name"`
	WebsiteURL  *string `json:"website_url"`
	PodcastURL  *string `json:"podcast_url"`
	TwitterURL  *string `json:"twitter_url"`
	Description string  `json:"description"`
	Language    *string `json:"language"`
}

// Bet is an entry of the educational toolkit: slide decks, posters, and other
// downloadable teaching material.
type Bet struct {
	bun.BaseModel `bun:"table:bets,alias:bt"`

	ResourceID       int     `bun:",pk,nullzero" json:"resource_id"`
	Name             string  `bun:",nullzero" json:"name"`
	BuilderName      *string `json:"builder_name"`
	DownloadURL      *string `json:"download_url"`
	ViewURL          *string `json:"view_url"`
	OriginalLanguage *string `json:"original_language"`
}

type Movie struct {
	bun.BaseModel `bun:"table:movies,alias:mv"`

	ResourceID      int     `bun:",pk,nullzero" json:"resource_id"`
	Title           string  `bun:",nullzero" json:"title"`
	Director        string  `json:"director"`
	DurationMinutes *int    `json:"duration_minutes"`
	WebsiteURL      *string `json:"website_url"`
	Description     string  `json:"description"`
	Language        *string `json:"language"`
}

type YoutubeChannel struct {
	bun.BaseModel `bun:"table:youtube_channels,alias:yc"`

	ResourceID  int     `bun:",pk,nullzero" json:"resource_id"`
	Name        string  `bun:",nullzero" json:"name"`
	ChannelURL  string  `bun:",nullzero" json:"channel_url"`
	Language    *string `json:"language"`
	Description string  `json:"description"`
}
