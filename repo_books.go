package bookshelf

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type Books interface {
	Create(ctx context.Context, username string, req AddBookRequest) (*Book, error)
	GetByTitleForUser(ctx context.Context, username, title string) (*Book, error)
	ListByUser(ctx context.Context, username string) ([]*Group, error)
}

type books struct {
	db *bun.DB
}

var _ Books = (*books)(nil)

func NewBooksRepository(db *bun.DB) Books {
	return &books{db: db}
}

// Create resolves the group, author, and genre references and inserts the
// book plus its genre links in one transaction. Any unresolved reference
// aborts the whole request; no partial record is persisted.
func (b *books) Create(ctx context.Context, username string, req AddBookRequest) (*Book, error) {
	record := &Book{
		Title:      req.Title,
		Rating:     req.Rating,
		IsFavorite: req.IsFavorite,
	}

	err := b.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		group, err := resolveGroupTx(ctx, tx, username, req.GroupName)
		if err != nil {
			return err
		}
		record.GroupID = group.ID

		author, err := resolveAuthorTx(ctx, tx, req.AuthorID)
		if err != nil {
			return err
		}
		record.AuthorID = author.ID
		record.Author = author

		genres, err := resolveGenresTx(ctx, tx, req.Genres)
		if err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateRecord
			}
			return errors.Wrap(err, errors.CategoryInternal, "failed to insert book")
		}

		if err := replaceBookGenresTx(ctx, tx, record.ID, genres); err != nil {
			return err
		}
		record.Genres = genres

		return nil
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetByTitleForUser loads an edit target by title, scoped to the shelves
// of the claimed user so one account cannot reach into another's books.
func (b *books) GetByTitleForUser(ctx context.Context, username, title string) (*Book, error) {
	record := &Book{}
	err := b.db.NewSelect().
		Model(record).
		Relation("Author").
		Relation("Genres").
		Join("JOIN groups AS grp ON grp.id = ?TableAlias.group_id").
		Where("grp.parent_username = ?", username).
		Where("?TableAlias.title = ?", title).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return record, nil
}

// ListByUser returns the user's shelves with their books, authors, and
// genres attached, ready to be keyed by group descriptor.
func (b *books) ListByUser(ctx context.Context, username string) ([]*Group, error) {
	var records []*Group
	err := b.db.NewSelect().
		Model(&records).
		Relation("Books").
		Relation("Books.Author").
		Relation("Books.Genres").
		Where("?TableAlias.parent_username = ?", username).
		Order("name").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}
