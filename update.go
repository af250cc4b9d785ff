package bookshelf

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// EditPayload is carried by every edit request: KeepRecord selects
// between applying partial field updates (true) and deleting the target
// (false).
type EditPayload interface {
	KeepRecord() bool
}

// Editable merges the present fields of an edit onto the receiver.
// Implementations are bun model pointers; they resolve association
// references against tx and leave scalar persistence to the pipeline.
type Editable[E EditPayload] interface {
	ApplyEdit(ctx context.Context, tx bun.IDB, edit E) error
}

// UpdateRecord applies the edit-or-delete decision to an already loaded
// target inside a single transaction. With KeepRecord false the target is
// deleted and field values in the request are ignored; dependent rows go
// with it through the cascading foreign keys the schema declares.
// Otherwise present fields overwrite the target and the merged record is
// written back. A
// write that matches zero rows means the record changed or vanished
// underneath us and is reported as a conflict.
func UpdateRecord[E EditPayload](ctx context.Context, db *bun.DB, target Editable[E], edit E) error {
	return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if !edit.KeepRecord() {
			res, err := tx.NewDelete().Model(target).WherePK().Exec(ctx)
			if err != nil {
				return errors.Wrap(err, errors.CategoryInternal, "failed to delete record")
			}
			return ensureAffected(res)
		}

		if err := target.ApplyEdit(ctx, tx, edit); err != nil {
			return err
		}

		res, err := tx.NewUpdate().Model(target).WherePK().Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateRecord
			}
			return errors.Wrap(err, errors.CategoryInternal, "failed to update record")
		}
		return ensureAffected(res)
	})
}

// UpdateUserRecord is the restricted pipeline variant for accounts:
// deletion is not wired, so a KeepRecord false request is rejected before
// touching the store.
func UpdateUserRecord(ctx context.Context, db *bun.DB, target *User, edit EditUserRequest) error {
	if !edit.KeepRecord() {
		return errors.New("account deletion is not supported", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return UpdateRecord(ctx, db, target, edit)
}

func ensureAffected(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read affected rows")
	}
	if rows == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

// ApplyEdit for User. Password edits re-hash; unset fields keep their
// prior values.
func (u *User) ApplyEdit(ctx context.Context, tx bun.IDB, edit EditUserRequest) error {
	if edit.FirstName != nil {
		u.FirstName = *edit.FirstName
	}
	if edit.LastName != nil {
		u.LastName = *edit.LastName
	}
	if edit.Password != nil {
		hash, err := HashPassword(*edit.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	return nil
}

func (a *Author) ApplyEdit(ctx context.Context, tx bun.IDB, edit EditAuthorRequest) error {
	if edit.FirstName != nil {
		a.FirstName = *edit.FirstName
	}
	if edit.LastName != nil {
		a.LastName = *edit.LastName
	}
	return nil
}

// ApplyEdit for Genre. The name is the primary key, so a rename has to
// move the row and its join-table references before the pipeline writes
// the remaining fields back under the new key.
func (g *Genre) ApplyEdit(ctx context.Context, tx bun.IDB, edit EditOrganizationRequest) error {
	if edit.Description != nil {
		g.Description = edit.Description
	}

	if edit.Name == nil || *edit.Name == g.Name {
		return nil
	}

	newName := *edit.Name

	res, err := tx.NewUpdate().
		Model((*Genre)(nil)).
		Set("name = ?", newName).
		Where("name = ?", g.Name).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to rename genre")
	}
	if err := ensureAffected(res); err != nil {
		return err
	}

	// No-op when the engine already cascaded the rename.
	if _, err := tx.NewUpdate().
		Model((*BookGenre)(nil)).
		Set("genre_name = ?", newName).
		Where("genre_name = ?", g.Name).
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to move genre references")
	}

	g.Name = newName
	return nil
}

func (g *Group) ApplyEdit(ctx context.Context, tx bun.IDB, edit EditOrganizationRequest) error {
	if edit.Name != nil {
		g.Name = *edit.Name
	}
	if edit.Description != nil {
		g.Description = edit.Description
	}
	return nil
}

// ApplyEdit for Book. Association fields are resolved against the
// repositories before substitution; an unresolved reference fails the
// whole edit.
func (b *Book) ApplyEdit(ctx context.Context, tx bun.IDB, edit EditBookRequest) error {
	if edit.Title != nil {
		b.Title = *edit.Title
	}
	if edit.Rating != nil {
		b.Rating = *edit.Rating
	}
	if edit.IsFavorite != nil {
		b.IsFavorite = *edit.IsFavorite
	}

	if edit.AuthorID != nil {
		author, err := resolveAuthorTx(ctx, tx, *edit.AuthorID)
		if err != nil {
			return err
		}
		b.AuthorID = author.ID
	}

	if edit.GroupName != nil {
		current := &Group{}
		err := tx.NewSelect().Model(current).Where("?TableAlias.id = ?", b.GroupID).Scan(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to load current group")
		}

		next, err := resolveGroupTx(ctx, tx, current.ParentUsername, *edit.GroupName)
		if err != nil {
			return err
		}
		b.GroupID = next.ID
	}

	if edit.Genres != nil {
		genres, err := resolveGenresTx(ctx, tx, *edit.Genres)
		if err != nil {
			return err
		}
		if err := replaceBookGenresTx(ctx, tx, b.ID, genres); err != nil {
			return err
		}
		b.Genres = genres
	}

	return nil
}
