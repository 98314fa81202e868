package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrProfileNotFound = errors.New("profile not found")

// Experience is an embedded entry of the Profile aggregate. Entry ids are
// generated at insertion time and are unique within the parent document.
type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        string             `bson:"from" json:"from"`
	To          string             `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy" json:"fieldofstudy"`
	From         string             `bson:"from" json:"from"`
	To           string             `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

type Social struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// Owner is the name/avatar projection of the owning user, joined into
// reads the way the original document references are resolved.
type Owner struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
}

// Profile is the aggregate root: one document per user, keyed on the
// owning user's id, with experience/education embedded most-recent-first.
type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         primitive.ObjectID `bson:"user" json:"-"`
	User           *Owner             `bson:"-" json:"user,omitempty"`
	Company        string             `bson:"company,omitempty" json:"company,omitempty"`
	Website        string             `bson:"website,omitempty" json:"website,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Status         string             `bson:"status" json:"status"`
	Skills         []string           `bson:"skills" json:"skills"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	GithubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Experience     []Experience       `bson:"experience" json:"experience"`
	Education      []Education        `bson:"education" json:"education"`
	Social         Social             `bson:"social" json:"social"`
	Date           time.Time          `bson:"date" json:"date"`
}

// Fields is the partial-update record for an upsert. An empty string means
// "not supplied": the field is left untouched on an existing document and
// simply absent on insert. Skills and Social follow the same rule with nil.
type Fields struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         []string
	Social         map[string]string
}

// ParseSkills splits a comma-separated skill list into trimmed entries,
// order preserved.
func ParseSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	skills := make([]string, len(parts))
	for i, p := range parts {
		skills[i] = strings.TrimSpace(p)
	}
	return skills
}

type Repository interface {
	// Upsert applies fields as a $set-style merge keyed on the owner id,
	// inserting the document if none exists, and returns the post-image.
	Upsert(ctx context.Context, userID primitive.ObjectID, fields Fields) (*Profile, error)

	// GetByUserID returns the profile with the owner join, or
	// ErrProfileNotFound.
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*Profile, error)

	// List returns every profile with the owner join; empty slice when
	// none exist.
	List(ctx context.Context) ([]Profile, error)

	// AddExperience/AddEducation push the entry to the front of the
	// sequence. The aggregate must already exist (ErrProfileNotFound).
	AddExperience(ctx context.Context, userID primitive.ObjectID, entry Experience) (*Profile, error)
	AddEducation(ctx context.Context, userID primitive.ObjectID, entry Education) (*Profile, error)

	// RemoveExperience/RemoveEducation pull every entry matching entryID;
	// a missing entry is a no-op and the updated profile is returned.
	RemoveExperience(ctx context.Context, userID, entryID primitive.ObjectID) (*Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID primitive.ObjectID) (*Profile, error)

	// DeleteByUserID removes the profile document; deleting an absent
	// profile is not an error.
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
}
