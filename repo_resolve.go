package bookshelf

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// resolveGroupTx finds a shelf by (parent, name). A miss is an unresolved
// reference, fatal for the surrounding request.
func resolveGroupTx(ctx context.Context, tx bun.IDB, parentUsername, name string) (*Group, error) {
	record := &Group{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.parent_username = ?", parentUsername).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrUnresolvedReference, ErrUnresolvedReference.Category, "group not found").
				WithCode(ErrUnresolvedReference.Code).
				WithTextCode(ErrUnresolvedReference.TextCode).
				WithMetadata(map[string]any{"group": name, "parent": parentUsername})
		}
		return nil, err
	}

	return record, nil
}

func resolveAuthorTx(ctx context.Context, tx bun.IDB, id int64) (*Author, error) {
	record := &Author{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrUnresolvedReference, ErrUnresolvedReference.Category, "author not found").
				WithCode(ErrUnresolvedReference.Code).
				WithTextCode(ErrUnresolvedReference.TextCode).
				WithMetadata(map[string]any{"author_id": id})
		}
		return nil, err
	}

	return record, nil
}

// resolveGenresTx resolves every named genre; a single miss fails the
// whole set.
func resolveGenresTx(ctx context.Context, tx bun.IDB, names []string) ([]*Genre, error) {
	resolved := make([]*Genre, 0, len(names))
	for _, name := range names {
		record := &Genre{}
		err := tx.NewSelect().
			Model(record).
			Where("?TableAlias.name = ?", name).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errors.Wrap(ErrUnresolvedReference, ErrUnresolvedReference.Category, "genre not found").
					WithCode(ErrUnresolvedReference.Code).
					WithTextCode(ErrUnresolvedReference.TextCode).
					WithMetadata(map[string]any{"genre": name})
			}
			return nil, err
		}

		resolved = append(resolved, record)
	}

	return resolved, nil
}

// replaceBookGenresTx swaps a book's genre links for the given resolved
// set.
func replaceBookGenresTx(ctx context.Context, tx bun.IDB, bookID int64, genres []*Genre) error {
	if _, err := tx.NewDelete().
		Model((*BookGenre)(nil)).
		Where("book_id = ?", bookID).
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to clear genre links")
	}

	if len(genres) == 0 {
		return nil
	}

	links := make([]*BookGenre, 0, len(genres))
	for _, genre := range genres {
		links = append(links, &BookGenre{
			BookID:    bookID,
			GenreName: genre.Name,
		})
	}

	if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to insert genre links")
	}

	return nil
}

const pgUniqueViolation = "23505"

// isUniqueViolation recognizes uniqueness-constraint failures from both
// drivers we run against: pgdriver in production and the sqlite shim in
// tests. Repository layers wrap driver errors, and the wrappers keep the
// driver message on an inner link rather than the top-level Error(), so
// the sqlite check walks the whole chain.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}

	for e := err; e != nil; {
		if strings.Contains(e.Error(), "UNIQUE constraint failed") {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}

	return false
}
