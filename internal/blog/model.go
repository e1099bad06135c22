package blog

import "time"

type Post struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Slug        string     `bson:"slug" json:"slug"`
	Title       string     `bson:"title" json:"title"`
	Excerpt     string     `bson:"excerpt" json:"excerpt"`
	Content     string     `bson:"content" json:"content"`
	CoverImage  string     `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Tags        []string   `bson:"tags" json:"tags"`
	Published   bool       `bson:"published" json:"published"`
	Featured    bool       `bson:"featured" json:"featured"`
	ReadTime    int        `bson:"read_time" json:"read_time"`
	Views       int64      `bson:"views" json:"views"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
}

// UpsertRequest carries the admin form fields. Slug is derived from the
// title on create when omitted and required on update.
type UpsertRequest struct {
	Slug       string   `json:"slug" validate:"omitempty,max=200,slug"`
	Title      string   `json:"title" validate:"required,max=200"`
	Excerpt    string   `json:"excerpt" validate:"required,min=10"`
	Content    string   `json:"content" validate:"required,min=50"`
	CoverImage string   `json:"cover_image" validate:"omitempty,url"`
	Tags       []string `json:"tags" validate:"required,min=1,dive,required"`
	Published  *bool    `json:"published"`
	Featured   *bool    `json:"featured"`
}
