package bookshelf

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. Usernames are unique; the uuid primary key
// exists for repository tooling and never leaves the API surface.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Groups        []*Group   `bun:"rel:has-many,join:username=parent_username" json:"groups,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Author is a book author. The (first, last) name pair is unique.
type Author struct {
	bun.BaseModel `bun:"table:authors,alias:aut"`
	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	FirstName     string  `bun:"first_name,notnull,unique:authors_full_name" json:"first_name"`
	LastName      string  `bun:"last_name,notnull,unique:authors_full_name" json:"last_name"`
	Books         []*Book `bun:"rel:has-many,join:id=author_id" json:"books,omitempty"`
}

// Genre is keyed by its name.
type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:gnr"`
	Name          string  `bun:"name,pk" json:"name"`
	Description   *string `bun:"description" json:"description,omitempty"`
	Books         []*Book `bun:"m2m:book_genres,join:Genre=Book" json:"books,omitempty"`
}

// Group is a shelf owned by a user. The (name, parent) pair is unique.
// The parent key targets users: group nesting is single level.
type Group struct {
	bun.BaseModel  `bun:"table:groups,alias:grp"`
	ID             int64   `bun:"id,pk,autoincrement" json:"id"`
	ParentUsername string  `bun:"parent_username,notnull,unique:groups_name_parent" json:"parent_username"`
	Name           string  `bun:"name,notnull,unique:groups_name_parent" json:"name"`
	Description    *string `bun:"description" json:"description,omitempty"`
	Parent         *User   `bun:"rel:belongs-to,join:parent_username=username" json:"-"`
	Books          []*Book `bun:"rel:has-many,join:id=group_id" json:"books,omitempty"`
}

// Book belongs to exactly one author and one group. The (group, title)
// pair is unique.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:bok"`
	ID            int64    `bun:"id,pk,autoincrement" json:"id"`
	Title         string   `bun:"title,notnull,unique:books_group_title" json:"title"`
	AuthorID      int64    `bun:"author_id,notnull" json:"author_id"`
	GroupID       int64    `bun:"group_id,notnull,unique:books_group_title" json:"group_id"`
	Rating        int16    `bun:"rating,notnull,default:0" json:"rating"`
	IsFavorite    bool     `bun:"is_favorite,notnull,default:false" json:"is_favorite"`
	Author        *Author  `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Group         *Group   `bun:"rel:belongs-to,join:group_id=id" json:"-"`
	Genres        []*Genre `bun:"m2m:book_genres,join:Book=Genre" json:"genres,omitempty"`
}

// BookGenre is the join table for the book/genre many-to-many relation.
type BookGenre struct {
	bun.BaseModel `bun:"table:book_genres,alias:bkg"`
	BookID        int64  `bun:"book_id,pk" json:"book_id"`
	Book          *Book  `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	GenreName     string `bun:"genre_name,pk" json:"genre_name"`
	Genre         *Genre `bun:"rel:belongs-to,join:genre_name=name" json:"-"`
}

// UserInfo is the wire shape returned from sign-in and registration.
type UserInfo struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JWT       string `json:"jwt,omitempty"`
}

// GroupInfo is the wire shape for a shelf.
type GroupInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AuthorInfo is the wire shape for an author.
type AuthorInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// GenreInfo is the wire shape for a genre.
type GenreInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BookInfo is the wire shape for a book.
type BookInfo struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Rating     int16    `json:"rating"`
	IsFavorite bool     `json:"isFavorite"`
	Genres     []string `json:"genres"`
}

// GenerateData builds the response payload for a user, attaching the
// freshly issued token.
func (u *User) GenerateData(token string) UserInfo {
	return UserInfo{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		JWT:       token,
	}
}

func (g *Group) GenerateData() GroupInfo {
	info := GroupInfo{Name: g.Name}
	if g.Description != nil {
		info.Description = *g.Description
	}
	return info
}

func (a *Author) GenerateData() AuthorInfo {
	return AuthorInfo{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

func (g *Genre) GenerateData() GenreInfo {
	info := GenreInfo{Name: g.Name}
	if g.Description != nil {
		info.Description = *g.Description
	}
	return info
}

func (b *Book) GenerateData() BookInfo {
	info := BookInfo{
		ID:         b.ID,
		Title:      b.Title,
		Rating:     b.Rating,
		IsFavorite: b.IsFavorite,
		Genres:     make([]string, 0, len(b.Genres)),
	}

	if b.Author != nil {
		info.Author = b.Author.FirstName + " " + b.Author.LastName
	}

	for _, genre := range b.Genres {
		info.Genres = append(info.Genres, genre.Name)
	}

	return info
}
