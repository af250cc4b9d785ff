package bookshelf

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Users() Users
	Authors() Authors
	Genres() Genres
	Groups() Groups
	Books() Books

	DB() *bun.DB
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}

type mngr struct {
	db      *bun.DB
	users   Users
	authors Authors
	genres  Genres
	groups  Groups
	books   Books
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	// The m2m relation needs the join model registered before any query
	// touches it.
	db.RegisterModel((*BookGenre)(nil))

	return &mngr{
		db:      db,
		users:   NewUsersRepository(db),
		authors: NewAuthorsRepository(db),
		genres:  NewGenresRepository(db),
		groups:  NewGroupsRepository(db),
		books:   NewBooksRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.authors == nil {
		return errors.New("repository authors should be initialized")
	}

	if m.genres == nil {
		return errors.New("repository genres should be initialized")
	}

	if m.groups == nil {
		return errors.New("repository groups should be initialized")
	}

	if m.books == nil {
		return errors.New("repository books should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) DB() *bun.DB {
	return m.db
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Authors() Authors {
	return m.authors
}

func (m mngr) Genres() Genres {
	return m.genres
}

func (m mngr) Groups() Groups {
	return m.groups
}

func (m mngr) Books() Books {
	return m.books
}

// CreateSchema creates every table if missing, in dependency order. It is
// the startup equivalent of running migrations and is also used by the
// test harness against in-memory SQLite. Foreign keys cascade so that
// deleting an author, group, or genre takes its dependent books and join
// rows with it, and a genre rename follows through to its join rows.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	db.RegisterModel((*BookGenre)(nil))

	tables := []*bun.CreateTableQuery{
		db.NewCreateTable().Model((*User)(nil)),
		db.NewCreateTable().Model((*Author)(nil)),
		db.NewCreateTable().Model((*Genre)(nil)),
		db.NewCreateTable().Model((*Group)(nil)).
			ForeignKey(`("parent_username") REFERENCES "users" ("username") ON DELETE CASCADE`),
		db.NewCreateTable().Model((*Book)(nil)).
			ForeignKey(`("author_id") REFERENCES "authors" ("id") ON DELETE CASCADE`).
			ForeignKey(`("group_id") REFERENCES "groups" ("id") ON DELETE CASCADE`),
		db.NewCreateTable().Model((*BookGenre)(nil)).
			ForeignKey(`("book_id") REFERENCES "books" ("id") ON DELETE CASCADE`).
			ForeignKey(`("genre_name") REFERENCES "genres" ("name") ON DELETE CASCADE ON UPDATE CASCADE`),
	}

	for _, table := range tables {
		if _, err := table.IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
