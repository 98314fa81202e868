package post

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

type Like struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	User primitive.ObjectID `bson:"user" json:"user"`
}

type Comment struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	User   primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
	Date   time.Time          `bson:"date" json:"date"`
}

// Post carries a denormalized copy of the author's name/avatar so reads
// never need a join. Likes hold at most one entry per user.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Text     string             `bson:"text" json:"text"`
	Name     string             `bson:"name" json:"name"`
	Avatar   string             `bson:"avatar" json:"avatar"`
	Likes    []Like             `bson:"likes" json:"likes"`
	Comments []Comment          `bson:"comments" json:"comments"`
	Date     time.Time          `bson:"date" json:"date"`
}

// LikedBy reports whether userID already has a like on the post.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l.User == userID {
			return true
		}
	}
	return false
}

type Repository interface {
	Save(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByAuthor removes every post authored by userID and returns
	// the number removed. Used by the cascading account delete.
	DeleteByAuthor(ctx context.Context, userID primitive.ObjectID) (int64, error)
	AddLike(ctx context.Context, postID primitive.ObjectID, like Like) (*Post, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*Post, error)
	AddComment(ctx context.Context, postID primitive.ObjectID, comment Comment) (*Post, error)
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*Post, error)
}
