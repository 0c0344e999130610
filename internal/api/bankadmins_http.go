// Copyright (c) 2026 Edubridge. All rights reserved.

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edubridge/portal/internal/authn"
	"github.com/edubridge/portal/internal/bankadmins"
	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/constants"
	"github.com/edubridge/portal/internal/platform/middleware"
	requestutil "github.com/edubridge/portal/internal/platform/request"
	"github.com/edubridge/portal/internal/platform/respond"
	"github.com/edubridge/portal/internal/platform/validate"
	"github.com/edubridge/portal/pkg/pagination"
)

// # Definitions & Constructors

// BankAdminHandler implements the bank-admin HTTP endpoints.
//
// # Scope
//
// Session endpoints delegate credentials to the external provider; the
// management endpoints (listing, approval) are guarded behind the any-admin
// predicate.
type BankAdminHandler struct {
	bankAdminService *bankadmins.Service
}

// NewBankAdminHandler constructs a new [BankAdminHandler] with its service dependency.
func NewBankAdminHandler(service *bankadmins.Service) *BankAdminHandler {
	return &BankAdminHandler{bankAdminService: service}
}

// Routes returns a [chi.Router] configured with the bank-admin routes.
//
// # Endpoints
//   - POST  /signup         : Registers with the provider and mirrors locally.
//   - POST  /signin         : Authenticates and enforces the approval gates.
//   - POST  /refresh        : Rotates a provider session.
//   - POST  /logout         : Revokes a provider session.
//   - GET   /               : Lists accounts (any admin).
//   - PATCH /{id}/approval  : Updates the approval flag (any admin).
func (handler *BankAdminHandler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signUp)
	router.Post("/signin", handler.signIn)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authn.IsAnyAdmin))
		r.Get("/", handler.list)
		r.Patch("/{id}/approval", handler.approve)
	})

	return router
}

// # Request Payloads

type bankAdminSignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BankName  string `json:"bank_name"`
}

type bankAdminSignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type bankAdminRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type approvalRequest struct {
	IsApproved bool `json:"is_approved"`
}

/*
signUp registers a bank admin with the credential provider.

POST /api/v1/bank-admins/signup

Description: The provider owns the password; a local mirror row is created
unapproved and awaits administrator approval.

Request:
  - Body: bankAdminSignUpRequest (Email, Password, FirstName, LastName, BankName)

Response:
  - 201: BankAdmin: Mirrored local account
  - 409: ErrConflict: Email already registered with the provider
  - 503: ErrServiceUnavailable: Provider outage
*/
func (handler *BankAdminHandler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input bankAdminSignUpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(bankadmins.FieldEmail, input.Email).
		Email(bankadmins.FieldEmail, input.Email).
		Required(bankadmins.FieldPassword, input.Password).
		MinLen(bankadmins.FieldPassword, input.Password, 8).
		Required(bankadmins.FieldFirstName, input.FirstName).
		Required(bankadmins.FieldLastName, input.LastName).
		Required(bankadmins.FieldBankName, input.BankName)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.bankAdminService.SignUp(request.Context(), bankadmins.SignUpInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		BankName:  input.BankName,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, admin)
}

/*
signIn authenticates a bank admin through the credential provider.

POST /api/v1/bank-admins/signin

Description: The provider validates the password; the local account must be
approved, active, and email-confirmed before a session is returned.

Request:
  - Body: bankAdminSignInRequest (Email, Password)

Response:
  - 200: Session and account
  - 401: ErrUnauthorized: Invalid credentials or no local account
  - 403: ErrForbidden: Unapproved, unconfirmed, or inactive account
*/
func (handler *BankAdminHandler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input bankAdminSignInRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(bankadmins.FieldEmail, input.Email)
	validator.Required(bankadmins.FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.bankAdminService.SignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"session": result.Session,
		"admin":   result.Admin,
	})
}

/*
refresh rotates a provider session.

POST /api/v1/bank-admins/refresh

Request:
  - Body: bankAdminRefreshRequest (RefreshToken)

Response:
  - 200: Session: Rotated provider session
  - 401: ErrUnauthorized: Invalid refresh token
*/
func (handler *BankAdminHandler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input bankAdminRefreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(bankadmins.FieldRefreshToken, "is required"))
		return
	}

	session, err := handler.bankAdminService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
logout revokes the provider session behind the presented bearer token.

POST /api/v1/bank-admins/logout

Description: Passes the caller's own access token through to the provider.
Idempotent.

Response:
  - 204: No Content: Session terminated
  - 401: ErrUnauthorized: Missing bearer token
*/
func (handler *BankAdminHandler) logout(writer http.ResponseWriter, request *http.Request) {

	// The provider revokes by access token, so it is read straight from the header
	header := request.Header.Get(constants.HeaderAuthorization)
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		respond.Error(writer, request, apperr.Unauthorized("Missing bearer token"))
		return
	}
	accessToken := strings.TrimPrefix(header, constants.BearerPrefix)

	if err := handler.bankAdminService.Logout(request.Context(), accessToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
list returns a page of bank admin accounts.

GET /api/v1/bank-admins?page=&limit=

Response:
  - 200: []BankAdmin with pagination metadata
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *BankAdminHandler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	listing, total, err := handler.bankAdminService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listing, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
approve updates the approval flag on a bank admin account.

PATCH /api/v1/bank-admins/{id}/approval

Description: Records the acting administrator and decision time. The acting
identity comes from the resolved principal or service caller.

Request:
  - Body: approvalRequest (IsApproved)

Response:
  - 200: Message: Approval updated
  - 404: ErrNotFound: Unknown account
*/
func (handler *BankAdminHandler) approve(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required("id", id).UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input approvalRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err := handler.bankAdminService.Approve(request.Context(), id, input.IsApproved, actingIdentity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		bankadmins.FieldMessage:    "Approval updated",
		bankadmins.FieldIsApproved: input.IsApproved,
	})
}
