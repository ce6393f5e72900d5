package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/api/metrics"
	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// UserHandler serves sign-up, login and account management.
type UserHandler struct {
	auth    ports.AuthService
	users   ports.UserService
	uploads ports.UploadService
	log     zerolog.Logger
}

func NewUserHandler(auth ports.AuthService, users ports.UserService, uploads ports.UploadService, log zerolog.Logger) *UserHandler {
	return &UserHandler{auth: auth, users: users, uploads: uploads, log: log}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Description  Accepts JSON or multipart form data; a multipart request may carry an avatar in the "image" field.
// @Tags         users
// @Accept       json,mpfd
// @Produce      json
// @Param        body   body      createUserRequest  true   "Account details"
// @Param        image  formData  file               false  "Avatar (jpeg, png, gif or pdf, max 6 MiB)"
// @Success      201    {object}  userResponse
// @Failure      400    {object}  ValidationErrorResponse
// @Failure      409    {object}  ErrorResponse
// @Failure      415    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	p, err := ctxPayload(c)
	if err != nil {
		return err
	}

	in := ports.RegisterInput{
		FullName: p.String("fullName"),
		Login:    p.String("login"),
		Password: p.String("password"),
	}

	fh, err := optionalFile(c, "image")
	if err != nil {
		return err
	}
	var avatar *domain.UploadedFile
	if fh != nil {
		avatar, err = storeUpload(c, h.uploads, fh)
		if err != nil {
			return err
		}
		in.Image = &avatar.Path
	}

	ctx := c.Request().Context()
	user, err := h.auth.Register(ctx, in)
	if err != nil {
		if avatar != nil {
			if derr := h.uploads.Discard(context.WithoutCancel(ctx), avatar); derr != nil {
				h.log.Warn().Err(derr).Str("path", avatar.Path).Msg("failed to discard avatar of rejected sign-up")
			}
		}
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns an access/refresh token pair.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  ports.TokenPair
// @Failure      400   {object}  ValidationErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	p, err := ctxPayload(c)
	if err != nil {
		return err
	}

	pair, err := h.auth.Login(c.Request().Context(), p.String("login"), p.String("password"))
	switch {
	case err == nil:
		metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return err
	case errors.Is(err, domain.ErrTooManyAttempts):
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return err
	default:
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new token pair.
//
// @Summary      Refresh tokens
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  ports.TokenPair
// @Failure      400   {object}  ValidationErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /users/refresh [post]
func (h *UserHandler) Refresh(c echo.Context) error {
	p, err := ctxPayload(c)
	if err != nil {
		return err
	}

	pair, err := h.auth.Refresh(c.Request().Context(), p.String("refreshToken"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

// List returns all accounts, optionally filtered by login.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Substring of the login"
// @Success      200     {array}   userResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Me returns the caller's own account.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), principal.ID)
	if errors.Is(err, domain.ErrNotFound) {
		// Token outlived its account.
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token").SetInternal(err)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Get returns one account.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update applies a partial change to an account. Users may edit themselves;
// admins may edit anyone and change roles. Explicit nulls are ignored.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  ValidationErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := ctxPayload(c)
	if err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), principal, id, p.Fields(updateUserSchema))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes an account.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
