// Copyright (c) 2026 Edubridge. All rights reserved.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edubridge/portal/internal/admins"
	"github.com/edubridge/portal/internal/authn"
	"github.com/edubridge/portal/internal/platform/middleware"
	requestutil "github.com/edubridge/portal/internal/platform/request"
	"github.com/edubridge/portal/internal/platform/respond"
	"github.com/edubridge/portal/internal/platform/validate"
)

// # Definitions & Constructors

// AdminHandler implements the local-admin authentication HTTP endpoints.
//
// # Scope
//
// This handler covers the full staff session lifecycle: registration,
// login, refresh rotation, and logout.
type AdminHandler struct {
	adminService *admins.Service
}

// NewAdminHandler constructs a new [AdminHandler] with its service dependency.
func NewAdminHandler(service *admins.Service) *AdminHandler {
	return &AdminHandler{adminService: service}
}

// Routes returns a [chi.Router] configured with the admin routes.
//
// # Endpoints
//   - POST /login   : Authenticates and returns a token pair.
//   - POST /refresh : Rotates a refresh token.
//   - POST /logout  : Revokes a refresh token.
//   - POST /register: Creates a new staff account (existing admins only).
func (handler *AdminHandler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	// Protected endpoints: only an existing administrator may enroll staff
	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authn.IsAnyAdmin))
		r.Post("/register", handler.register)
	})

	return router
}

// # Request Payloads

type adminRegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AdminType string `json:"admin_type"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
register handles the creation of a new staff account.

POST /api/v1/admins/register

Description: Validates input, checks for identity conflicts, and persists a
new staff account. Requires an authenticated administrator.

Request:
  - Body: adminRegisterRequest (Username, Email, Password, AdminType)

Response:
  - 201: Admin: Created staff account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *AdminHandler) register(writer http.ResponseWriter, request *http.Request) {
	var input adminRegisterRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(admins.FieldUsername, input.Username).
		MinLen(admins.FieldUsername, input.Username, 3).
		Required(admins.FieldEmail, input.Email).
		Email(admins.FieldEmail, input.Email).
		Required(admins.FieldPassword, input.Password).
		MinLen(admins.FieldPassword, input.Password, 8)

	if input.AdminType != "" {
		validator.OneOf("admin_type", input.AdminType, admins.AdminTypeStaff, admins.AdminTypeSuper)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.adminService.Register(request.Context(), admins.RegisterInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		AdminType: input.AdminType,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, admin)
}

// sessionPayload shapes an admin session for the response envelope.
func sessionPayload(session *admins.Session) map[string]any {
	return map[string]any{
		admins.FieldAccessToken:  session.AccessToken,
		admins.FieldRefreshToken: session.RefreshToken,
		admins.FieldTokenType:    "Bearer",
		admins.FieldExpiresIn:    session.ExpiresIn / time.Second,
	}
}

/*
login authenticates a staff account and issues a token pair.

POST /api/v1/admins/login

Description: Verifies credentials and returns RS256-signed access and
refresh tokens carrying the local-admin claim set.

Request:
  - Body: adminLoginRequest (Username, Password)

Response:
  - 200: Session: Access and refresh tokens
  - 401: ErrUnauthorized: Invalid credentials
  - 403: ErrForbidden: Account inactive
*/
func (handler *AdminHandler) login(writer http.ResponseWriter, request *http.Request) {
	var input adminLoginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(admins.FieldUsername, input.Username)
	validator.Required(admins.FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.adminService.Login(request.Context(), admins.LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessionPayload(session))
}

/*
refresh rotates a refresh token into a fresh token pair.

POST /api/v1/admins/refresh

Description: Verifies the refresh token, denylists it, and issues a new
access and refresh pair.

Request:
  - Body: adminRefreshRequest (RefreshToken)

Response:
  - 200: Session: Rotated token pair
  - 401: ErrUnauthorized: Invalid, expired, or revoked refresh token
*/
func (handler *AdminHandler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input adminRefreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(admins.FieldRefreshToken, "is required"))
		return
	}

	session, err := handler.adminService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessionPayload(session))
}

/*
logout revokes a refresh token.

POST /api/v1/admins/logout

Description: Denylists the presented refresh token for the rest of its
lifetime. Idempotent; an already invalid token still returns 204.

Request:
  - Body: adminRefreshRequest (RefreshToken)

Response:
  - 204: No Content: Session terminated
*/
func (handler *AdminHandler) logout(writer http.ResponseWriter, request *http.Request) {
	var input adminRefreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken != "" {
		if err := handler.adminService.Logout(request.Context(), input.RefreshToken); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.NoContent(writer)
}
