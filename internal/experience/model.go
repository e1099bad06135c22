package experience

import "time"

const (
	TypeWork      = "work"
	TypeEducation = "education"
	TypeVolunteer = "volunteer"
)

func IsValidType(value string) bool {
	switch value {
	case TypeWork, TypeEducation, TypeVolunteer:
		return true
	}
	return false
}

type Experience struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Type         string     `bson:"type" json:"type"`
	Title        string     `bson:"title" json:"title"`
	Organization string     `bson:"organization" json:"organization"`
	Location     string     `bson:"location,omitempty" json:"location,omitempty"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	Skills       []string   `bson:"skills" json:"skills"`
	StartDate    time.Time  `bson:"start_date" json:"start_date"`
	EndDate      *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Current      bool       `bson:"current" json:"current"`
	Order        int        `bson:"order" json:"order"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	Type         string   `json:"type" validate:"required,oneof=work education volunteer"`
	Title        string   `json:"title" validate:"required,max=200"`
	Organization string   `json:"organization" validate:"required,max=200"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Skills       []string `json:"skills"`
	StartDate    string   `json:"start_date" validate:"required,date"`
	EndDate      string   `json:"end_date" validate:"omitempty,date"`
	Current      *bool    `json:"current"`
	Order        *int     `json:"order" validate:"omitempty,gte=0"`
}

type ListFilter struct {
	Type string
}
