// Package bookshelf implements the backend for a personal book-library
// application: account registration and sign-in backed by JWT bearer
// tokens and an in-process session store, plus CRUD over users, authors,
// genres, groups, and books with a shared partial-update pipeline.
package bookshelf
