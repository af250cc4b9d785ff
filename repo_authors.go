package bookshelf

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type Authors interface {
	Create(ctx context.Context, record *Author) (*Author, error)
	GetByID(ctx context.Context, id int64) (*Author, error)
	List(ctx context.Context) ([]*Author, error)
}

type authors struct {
	db *bun.DB
}

var _ Authors = (*authors)(nil)

func NewAuthorsRepository(db *bun.DB) Authors {
	return &authors{db: db}
}

// Create inserts a new author. The (first, last) name pair is unique; a
// duplicate surfaces as a conflict.
func (a *authors) Create(ctx context.Context, record *Author) (*Author, error) {
	if _, err := a.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRecord
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert author")
	}
	return record, nil
}

func (a *authors) GetByID(ctx context.Context, id int64) (*Author, error) {
	record := &Author{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
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

func (a *authors) List(ctx context.Context) ([]*Author, error) {
	var records []*Author
	if err := a.db.NewSelect().Model(&records).Order("last_name", "first_name").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}
