package bookshelf

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// SignInRequest payload
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// CreateAccountRequest payload
type CreateAccountRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

func (r CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 128)),
	)
}

// EditUserRequest carries partial updates for an account. Account
// deletion is not wired through this request; Keep is accepted for shape
// compatibility with the other edit payloads but must be true.
type EditUserRequest struct {
	Keep      bool    `json:"keep"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (r EditUserRequest) KeepRecord() bool { return r.Keep }

func (r EditUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Keep, validation.Required.Error("account deletion is not supported")),
	)
}

// AddBookRequest payload. Group and author references are resolved before
// insert; an unresolved reference fails the whole request.
type AddBookRequest struct {
	Title      string   `json:"title"`
	AuthorID   int64    `json:"authorId"`
	GroupName  string   `json:"groupName"`
	Rating     int16    `json:"rating"`
	IsFavorite bool     `json:"isFavorite"`
	Genres     []string `json:"genres"`
}

func (r AddBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.AuthorID, validation.Required),
		validation.Field(&r.GroupName, validation.Required),
		validation.Field(&r.Rating, validation.Min(0), validation.Max(10)),
	)
}

// EditBookRequest identifies its target by the book's current title.
type EditBookRequest struct {
	Keep       bool      `json:"keep"`
	OldTitle   string    `json:"oldTitle"`
	Title      *string   `json:"title,omitempty"`
	AuthorID   *int64    `json:"authorId,omitempty"`
	GroupName  *string   `json:"groupName,omitempty"`
	Rating     *int16    `json:"rating,omitempty"`
	IsFavorite *bool     `json:"isFavorite,omitempty"`
	Genres     *[]string `json:"genres,omitempty"`
}

func (r EditBookRequest) KeepRecord() bool { return r.Keep }

func (r EditBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldTitle, validation.Required),
	)
}

// AddAuthorRequest payload
type AddAuthorRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r AddAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
	)
}

// EditAuthorRequest identifies its target by id.
type EditAuthorRequest struct {
	Keep      bool    `json:"keep"`
	ID        int64   `json:"id"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

func (r EditAuthorRequest) KeepRecord() bool { return r.Keep }

func (r EditAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}

// OrganizationPayload is the shared add shape for genres and groups.
type OrganizationPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r OrganizationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// EditOrganizationRequest identifies a genre or group by its current
// name.
type EditOrganizationRequest struct {
	Keep        bool    `json:"keep"`
	OldName     string  `json:"oldName"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r EditOrganizationRequest) KeepRecord() bool { return r.Keep }

func (r EditOrganizationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldName, validation.Required),
	)
}
