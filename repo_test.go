package bookshelf_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-bookshelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorUniqueness(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repos := bookshelf.NewRepositoryManager(db)

	_, err := repos.Authors().Create(ctx, &bookshelf.Author{FirstName: "Ursula", LastName: "Le Guin"})
	require.NoError(t, err)

	t.Run("duplicate pair conflicts", func(t *testing.T) {
		_, err := repos.Authors().Create(ctx, &bookshelf.Author{FirstName: "Ursula", LastName: "Le Guin"})
		assert.ErrorIs(t, err, bookshelf.ErrDuplicateRecord)
	})

	t.Run("same first name different last name is fine", func(t *testing.T) {
		_, err := repos.Authors().Create(ctx, &bookshelf.Author{FirstName: "Ursula", LastName: "Vernon"})
		assert.NoError(t, err)
	})
}

func TestGenreUniqueness(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repos := bookshelf.NewRepositoryManager(db)

	_, err := repos.Genres().Create(ctx, &bookshelf.Genre{Name: "fantasy"})
	require.NoError(t, err)

	_, err = repos.Genres().Create(ctx, &bookshelf.Genre{Name: "fantasy"})
	assert.ErrorIs(t, err, bookshelf.ErrDuplicateRecord)
}

func TestGroupUniqueness(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repos := bookshelf.NewRepositoryManager(db)

	seedUser(t, repos, "alice", "pw1")
	seedUser(t, repos, "bob", "pw2")
	seedGroup(t, repos, "alice", "favorites")

	t.Run("same name under the same user conflicts", func(t *testing.T) {
		_, err := repos.Groups().Create(ctx, &bookshelf.Group{
			ParentUsername: "alice",
			Name:           "favorites",
		})
		assert.ErrorIs(t, err, bookshelf.ErrDuplicateRecord)
	})

	t.Run("same name under another user is fine", func(t *testing.T) {
		_, err := repos.Groups().Create(ctx, &bookshelf.Group{
			ParentUsername: "bob",
			Name:           "favorites",
		})
		assert.NoError(t, err)
	})
}

func TestBooksCreate(t *testing.T) {
	ctx := context.Background()

	newFixture := func(t *testing.T) (bookshelf.RepositoryManager, *bookshelf.Author) {
		t.Helper()

		db := setupDB(t)
		repos := bookshelf.NewRepositoryManager(db)

		seedUser(t, repos, "alice", "pw1")
		seedGroup(t, repos, "alice", "favorites")
		author := seedAuthor(t, repos, "Ursula", "Le Guin")
		seedGenre(t, repos, "scifi")

		return repos, author
	}

	t.Run("resolves references and links genres", func(t *testing.T) {
		repos, author := newFixture(t)

		book, err := repos.Books().Create(ctx, "alice", bookshelf.AddBookRequest{
			Title:      "The Dispossessed",
			AuthorID:   author.ID,
			GroupName:  "favorites",
			Rating:     9,
			IsFavorite: true,
			Genres:     []string{"scifi"},
		})
		require.NoError(t, err)
		assert.NotZero(t, book.ID)

		stored, err := repos.Books().GetByTitleForUser(ctx, "alice", "The Dispossessed")
		require.NoError(t, err)
		assert.Equal(t, author.ID, stored.AuthorID)
		assert.True(t, stored.IsFavorite)
		assert.ElementsMatch(t, []string{"scifi"}, genreNames(stored))
	})

	t.Run("duplicate title in the same group conflicts", func(t *testing.T) {
		repos, author := newFixture(t)

		req := bookshelf.AddBookRequest{
			Title:     "The Dispossessed",
			AuthorID:  author.ID,
			GroupName: "favorites",
		}

		_, err := repos.Books().Create(ctx, "alice", req)
		require.NoError(t, err)

		_, err = repos.Books().Create(ctx, "alice", req)
		assert.ErrorIs(t, err, bookshelf.ErrDuplicateRecord)
	})

	t.Run("unknown group fails without inserting", func(t *testing.T) {
		repos, author := newFixture(t)

		_, err := repos.Books().Create(ctx, "alice", bookshelf.AddBookRequest{
			Title:     "The Dispossessed",
			AuthorID:  author.ID,
			GroupName: "missing-shelf",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, bookshelf.ErrUnresolvedReference)

		_, err = repos.Books().GetByTitleForUser(ctx, "alice", "The Dispossessed")
		assert.ErrorIs(t, err, bookshelf.ErrRecordNotFound)
	})

	t.Run("unknown genre aborts the whole insert", func(t *testing.T) {
		repos, author := newFixture(t)

		_, err := repos.Books().Create(ctx, "alice", bookshelf.AddBookRequest{
			Title:     "The Dispossessed",
			AuthorID:  author.ID,
			GroupName: "favorites",
			Genres:    []string{"scifi", "horror"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, bookshelf.ErrUnresolvedReference)

		_, err = repos.Books().GetByTitleForUser(ctx, "alice", "The Dispossessed")
		assert.ErrorIs(t, err, bookshelf.ErrRecordNotFound)
	})

	t.Run("another user's group is not visible", func(t *testing.T) {
		repos, author := newFixture(t)
		seedUser(t, repos, "bob", "pw2")

		_, err := repos.Books().Create(ctx, "bob", bookshelf.AddBookRequest{
			Title:     "The Dispossessed",
			AuthorID:  author.ID,
			GroupName: "favorites",
		})
		assert.ErrorIs(t, err, bookshelf.ErrUnresolvedReference)
	})
}

func TestBooksListByUser(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repos := bookshelf.NewRepositoryManager(db)

	seedUser(t, repos, "alice", "pw1")
	seedGroup(t, repos, "alice", "favorites")
	seedGroup(t, repos, "alice", "backlog")
	author := seedAuthor(t, repos, "Ursula", "Le Guin")
	seedGenre(t, repos, "scifi")

	_, err := repos.Books().Create(ctx, "alice", bookshelf.AddBookRequest{
		Title:     "The Dispossessed",
		AuthorID:  author.ID,
		GroupName: "favorites",
		Genres:    []string{"scifi"},
	})
	require.NoError(t, err)

	groups, err := repos.Books().ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// ordered by name: backlog first, favorites second
	assert.Equal(t, "backlog", groups[0].Name)
	assert.Empty(t, groups[0].Books)

	require.Len(t, groups[1].Books, 1)
	book := groups[1].Books[0]
	assert.Equal(t, "The Dispossessed", book.Title)
	require.NotNil(t, book.Author)
	assert.Equal(t, "Le Guin", book.Author.LastName)
	assert.ElementsMatch(t, []string{"scifi"}, genreNames(book))
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repos := bookshelf.NewRepositoryManager(db)

	t.Run("create assigns an id", func(t *testing.T) {
		user := seedUser(t, repos, "alice", "pw1")
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", user.ID.String())
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		hash, err := bookshelf.HashPassword("pw2")
		require.NoError(t, err)

		_, err = repos.Users().Create(ctx, &bookshelf.User{
			Username:     "alice",
			FirstName:    "Other",
			LastName:     "Person",
			PasswordHash: hash,
		})
		assert.ErrorIs(t, err, bookshelf.ErrDuplicateRecord)
	})

	t.Run("lookup by username loads groups", func(t *testing.T) {
		seedGroup(t, repos, "alice", "favorites")

		user, err := repos.Users().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, user.Groups, 1)
		assert.Equal(t, "favorites", user.Groups[0].Name)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repos.Users().GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, bookshelf.ErrUserNotFound)
	})
}
