package projects

import "time"

type Project struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Slug        string     `bson:"slug" json:"slug"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	CoverImage  string     `bson:"cover_image" json:"cover_image"`
	Tags        []string   `bson:"tags" json:"tags"`
	DemoURL     string     `bson:"demo_url,omitempty" json:"demo_url,omitempty"`
	RepoURL     string     `bson:"repo_url,omitempty" json:"repo_url,omitempty"`
	Content     string     `bson:"content,omitempty" json:"content,omitempty"`
	Published   bool       `bson:"published" json:"published"`
	Featured    bool       `bson:"featured" json:"featured"`
	Order       int        `bson:"order" json:"order"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
}

// UpsertRequest carries the admin form fields. Slug is optional on create
// (derived from the title) but required on update so edits never silently
// break an existing public link.
type UpsertRequest struct {
	Slug        string   `json:"slug" validate:"omitempty,max=200,slug"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,min=10"`
	CoverImage  string   `json:"cover_image" validate:"required,url"`
	Tags        []string `json:"tags" validate:"required,min=1,dive,required"`
	DemoURL     string   `json:"demo_url" validate:"omitempty,url"`
	RepoURL     string   `json:"repo_url" validate:"omitempty,url"`
	Content     string   `json:"content"`
	Published   *bool    `json:"published"`
	Featured    *bool    `json:"featured"`
	Order       *int     `json:"order" validate:"omitempty,gte=0"`
}

type PublicListFilter struct {
	FeaturedOnly bool
}
