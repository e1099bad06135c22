package settings

import "time"

// SingletonID is the fixed document id: the site has exactly one settings
// record, created lazily on first read.
const SingletonID = "default"

type Settings struct {
	ID           string    `bson:"_id" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Tagline      string    `bson:"tagline" json:"tagline"`
	Bio          string    `bson:"bio" json:"bio"`
	TechStack    []string  `bson:"tech_stack" json:"tech_stack"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	GitHub       string    `bson:"github,omitempty" json:"github,omitempty"`
	LinkedIn     string    `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter      string    `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Location     string    `bson:"location,omitempty" json:"location,omitempty"`
	ProfileImage string    `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Tagline      string   `json:"tagline" validate:"required,min=10"`
	Bio          string   `json:"bio" validate:"required,min=10"`
	TechStack    []string `json:"tech_stack" validate:"required,min=1,dive,required"`
	Email        string   `json:"email" validate:"omitempty,email"`
	GitHub       string   `json:"github" validate:"omitempty,url"`
	LinkedIn     string   `json:"linkedin" validate:"omitempty,url"`
	Twitter      string   `json:"twitter" validate:"omitempty,url"`
	Location     string   `json:"location" validate:"omitempty,max=100"`
	ProfileImage string   `json:"profile_image" validate:"omitempty,url"`
}
