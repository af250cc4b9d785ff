package bookshelf

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPConfig configures the HTTP controller.
type HTTPConfig struct {
	// Tokens, when set, lets the protection middleware reject tampered or
	// expired tokens before the session lookup.
	Tokens TokenService

	// ErrorHandler renders failed requests (default: RenderError).
	ErrorHandler func(ctx router.Context, err error) error

	Logger Logger
}

// HTTPController wires the library routes to the authenticator and the
// repositories.
type HTTPController struct {
	auth   *Auther
	repos  RepositoryManager
	config HTTPConfig
	logger Logger
}

// NewHTTPController creates the controller covering account, book,
// author, group, and genre routes.
func NewHTTPController(auth *Auther, repos RepositoryManager, cfg HTTPConfig) *HTTPController {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = RenderError
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	return &HTTPController{
		auth:   auth,
		repos:  repos,
		config: cfg,
		logger: cfg.Logger,
	}
}

// RegisterRoutes registers every route. Literal paths go first so the
// username wildcard routes cannot shadow them.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	protected := Protected(c.auth, AuthMiddlewareConfig{
		Tokens:       c.config.Tokens,
		ParamName:    "username",
		ErrorHandler: c.config.ErrorHandler,
	})

	// Author and genre routes carry no username to match against; any
	// live session may touch the shared catalog.
	signedIn := Protected(c.auth, AuthMiddlewareConfig{
		Tokens:       c.config.Tokens,
		ErrorHandler: c.config.ErrorHandler,
	})

	group.Get("/", c.Greeting)

	group.Post("/sign-in", c.SignIn)
	group.Post("/create-user", c.CreateAccount)
	group.Post("/sign-out/:username", c.SignOut)
	group.Post("/modify-user/:username", c.ModifyUser, protected)

	group.Post("/add-author", c.AddAuthor, signedIn)
	group.Get("/authors", c.GetAuthors, signedIn)
	group.Post("/edit-author", c.EditAuthor, signedIn)

	group.Post("/add-genre", c.AddGenre, signedIn)
	group.Get("/genres", c.GetGenres, signedIn)
	group.Post("/edit-genre", c.EditGenre, signedIn)

	group.Post("/:username/add-book", c.AddBook, protected)
	group.Get("/:username/books", c.GetBooks, protected)
	group.Post("/:username/edit-book", c.EditBook, protected)

	group.Post("/:username/add-group", c.AddGroup, protected)
	group.Get("/:username/groups", c.GetGroups, protected)
	group.Post("/:username/edit-group", c.EditGroup, protected)
}

// Greeting answers the root route.
func (c *HTTPController) Greeting(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Hello!",
	})
}

// SignIn verifies credentials and returns the user payload with a fresh
// token. Unknown users and bad passwords produce distinct statuses.
func (c *HTTPController) SignIn(ctx router.Context) error {
	var req SignInRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	result, err := c.auth.Login(ctx.Context(), req.Username, req.Password)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result.User.GenerateData(result.Token))
}

// CreateAccount registers a new user and signs it in.
func (c *HTTPController) CreateAccount(ctx router.Context) error {
	var req CreateAccountRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	result, err := c.auth.Register(ctx.Context(), req)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result.User.GenerateData(result.Token))
}

// SignOut drops the presented token's session.
func (c *HTTPController) SignOut(ctx router.Context) error {
	username := ctx.Param("username")

	if err := c.auth.Logout(ctx.GetString("Authorization", ""), username); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "signed out",
	})
}

// ModifyUser applies a partial update to the account named in the path.
func (c *HTTPController) ModifyUser(ctx router.Context) error {
	username := ctx.Param("username")

	var req EditUserRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	target, err := c.repos.Users().GetByUsername(ctx.Context(), username)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	if err := UpdateUserRecord(ctx.Context(), c.repos.DB(), target, req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, target.GenerateData(""))
}

// AddBook inserts a book into one of the user's groups. Group, author,
// and genre references must already exist.
func (c *HTTPController) AddBook(ctx router.Context) error {
	username := ctx.Param("username")

	var req AddBookRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	book, err := c.repos.Books().Create(ctx.Context(), username, req)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, book.GenerateData())
}

// ShelfData is the wire shape for a group and its books.
type ShelfData struct {
	Group GroupInfo  `json:"group"`
	Books []BookInfo `json:"books"`
}

// GetBooks returns the user's collection keyed by group.
func (c *HTTPController) GetBooks(ctx router.Context) error {
	username := ctx.Param("username")

	groups, err := c.repos.Books().ListByUser(ctx.Context(), username)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	result := make([]ShelfData, 0, len(groups))
	for _, group := range groups {
		shelf := ShelfData{
			Group: group.GenerateData(),
			Books: make([]BookInfo, 0, len(group.Books)),
		}
		for _, book := range group.Books {
			shelf.Books = append(shelf.Books, book.GenerateData())
		}
		result = append(result, shelf)
	}

	return ctx.JSON(router.StatusOK, result)
}

// EditBook updates or deletes the book identified by its current title.
func (c *HTTPController) EditBook(ctx router.Context) error {
	username := ctx.Param("username")

	var req EditBookRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	target, err := c.repos.Books().GetByTitleForUser(ctx.Context(), username, req.OldTitle)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	if err := UpdateRecord(ctx.Context(), c.repos.DB(), target, req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "ok",
	})
}

// AddAuthor inserts a new author. A duplicate (first, last) pair is a
// conflict.
func (c *HTTPController) AddAuthor(ctx router.Context) error {
	var req AddAuthorRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	author, err := c.repos.Authors().Create(ctx.Context(), &Author{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, author.GenerateData())
}

// GetAuthors lists every author.
func (c *HTTPController) GetAuthors(ctx router.Context) error {
	authors, err := c.repos.Authors().List(ctx.Context())
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	result := make([]AuthorInfo, 0, len(authors))
	for _, author := range authors {
		result = append(result, author.GenerateData())
	}

	return ctx.JSON(router.StatusOK, result)
}

// EditAuthor updates or deletes the author identified by id.
func (c *HTTPController) EditAuthor(ctx router.Context) error {
	var req EditAuthorRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	target, err := c.repos.Authors().GetByID(ctx.Context(), req.ID)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	if err := UpdateRecord(ctx.Context(), c.repos.DB(), target, req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "ok",
	})
}

// AddGenre inserts a new genre.
func (c *HTTPController) AddGenre(ctx router.Context) error {
	var req OrganizationPayload
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	genre, err := c.repos.Genres().Create(ctx.Context(), &Genre{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, genre.GenerateData())
}

// GetGenres lists every genre.
func (c *HTTPController) GetGenres(ctx router.Context) error {
	genres, err := c.repos.Genres().List(ctx.Context())
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	result := make([]GenreInfo, 0, len(genres))
	for _, genre := range genres {
		result = append(result, genre.GenerateData())
	}

	return ctx.JSON(router.StatusOK, result)
}

// EditGenre updates or deletes the genre identified by its current name.
func (c *HTTPController) EditGenre(ctx router.Context) error {
	var req EditOrganizationRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	target, err := c.repos.Genres().GetByName(ctx.Context(), req.OldName)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	if err := UpdateRecord(ctx.Context(), c.repos.DB(), target, req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "ok",
	})
}

// AddGroup inserts a new shelf under the user's account.
func (c *HTTPController) AddGroup(ctx router.Context) error {
	username := ctx.Param("username")

	var req OrganizationPayload
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	group, err := c.repos.Groups().Create(ctx.Context(), &Group{
		Name:           req.Name,
		Description:    req.Description,
		ParentUsername: username,
	})
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, group.GenerateData())
}

// GetGroups lists the user's shelves.
func (c *HTTPController) GetGroups(ctx router.Context) error {
	username := ctx.Param("username")

	groups, err := c.repos.Groups().ListByParent(ctx.Context(), username)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	result := make([]GroupInfo, 0, len(groups))
	for _, group := range groups {
		result = append(result, group.GenerateData())
	}

	return ctx.JSON(router.StatusOK, result)
}

// EditGroup updates or deletes one of the user's shelves.
func (c *HTTPController) EditGroup(ctx router.Context) error {
	username := ctx.Param("username")

	var req EditOrganizationRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	target, err := c.repos.Groups().GetByNameAndParent(ctx.Context(), username, req.OldName)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	if err := UpdateRecord(ctx.Context(), c.repos.DB(), target, req); err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "ok",
	})
}

type validator interface {
	Validate() error
}

// bind parses and validates a request body. Parse failures are reported
// as bad input before any state is touched.
func (c *HTTPController) bind(ctx router.Context, payload validator) error {
	if err := ctx.Bind(payload); err != nil {
		c.logger.Warn("unable to parse request body", "error", err)
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body").
			WithTextCode(TextCodeMalformedRequest).
			WithCode(errors.CodeBadRequest)
	}

	return payload.Validate()
}
