package bookshelf

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type Genres interface {
	Create(ctx context.Context, record *Genre) (*Genre, error)
	GetByName(ctx context.Context, name string) (*Genre, error)
	List(ctx context.Context) ([]*Genre, error)
}

type Groups interface {
	Create(ctx context.Context, record *Group) (*Group, error)
	GetByNameAndParent(ctx context.Context, parentUsername, name string) (*Group, error)
	ListByParent(ctx context.Context, parentUsername string) ([]*Group, error)
}

type genres struct {
	db *bun.DB
}

type groups struct {
	db *bun.DB
}

var (
	_ Genres = (*genres)(nil)
	_ Groups = (*groups)(nil)
)

func NewGenresRepository(db *bun.DB) Genres {
	return &genres{db: db}
}

func NewGroupsRepository(db *bun.DB) Groups {
	return &groups{db: db}
}

func (g *genres) Create(ctx context.Context, record *Genre) (*Genre, error) {
	if _, err := g.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRecord
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert genre")
	}
	return record, nil
}

func (g *genres) GetByName(ctx context.Context, name string) (*Genre, error) {
	record := &Genre{}
	err := g.db.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
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

func (g *genres) List(ctx context.Context) ([]*Genre, error) {
	var records []*Genre
	if err := g.db.NewSelect().Model(&records).Order("name").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts a new shelf. The (name, parent) pair is unique per user;
// a duplicate surfaces as a conflict.
func (g *groups) Create(ctx context.Context, record *Group) (*Group, error) {
	if _, err := g.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRecord
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert group")
	}
	return record, nil
}

func (g *groups) GetByNameAndParent(ctx context.Context, parentUsername, name string) (*Group, error) {
	record := &Group{}
	err := g.db.NewSelect().
		Model(record).
		Where("?TableAlias.parent_username = ?", parentUsername).
		Where("?TableAlias.name = ?", name).
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

func (g *groups) ListByParent(ctx context.Context, parentUsername string) ([]*Group, error) {
	var records []*Group
	err := g.db.NewSelect().
		Model(&records).
		Where("?TableAlias.parent_username = ?", parentUsername).
		Order("name").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}
