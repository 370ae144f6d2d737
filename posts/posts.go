package posts

import (
	"math"
	"time"
)

const (
	MinPageLimit = 10
	MaxPageLimit = 50
	IDLength     = 16
)

// Post is one blog entry. Creator is the author's account internal id.
type Post struct {
	ID        string     `json:"id" bson:"id"`
	Creator   string     `json:"creator" bson:"creator"`
	Title     string     `json:"title" bson:"title"`
	Body      string     `json:"body" bson:"body"`
	Draft     bool       `json:"draft" bson:"draft"`
	Hidden    bool       `json:"hidden" bson:"hidden"`
	Created   *time.Time `json:"created" bson:"created"`
	Published *time.Time `json:"published" bson:"published"`
	LastEdit  *time.Time `json:"last_edit" bson:"last_edit"`
}

// Visible reports whether anyone may read the post without owning it.
func (p *Post) Visible() bool {
	return !p.Draft && !p.Hidden
}

// Upload is the request body for creating or editing a post. Nil fields are left unchanged
// on edit and rejected on create.
type Upload struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// Page selects a window of the published posts.
type Page struct {
	Number int64
	Limit  int64
}

// NewPage clamps limit into [MinPageLimit, MaxPageLimit] and number to at least 1. number is
// also capped so that Skip()+Limit stays within int64.
func NewPage(number, limit int64) Page {
	switch {
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	case limit < MinPageLimit:
		limit = MinPageLimit
	}
	if number < 1 {
		number = 1
	}
	if maxNumber := math.MaxInt64 / limit; number > maxNumber {
		number = maxNumber
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Skip() int64 {
	return (p.Number - 1) * p.Limit
}
