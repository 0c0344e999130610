// Copyright (c) 2026 Edubridge. All rights reserved.

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edubridge/portal/internal/authn"
	"github.com/edubridge/portal/internal/platform/middleware"
	requestutil "github.com/edubridge/portal/internal/platform/request"
	"github.com/edubridge/portal/internal/platform/respond"
	"github.com/edubridge/portal/internal/platform/validate"
	"github.com/edubridge/portal/internal/servicekeys"
	"github.com/edubridge/portal/internal/students"
	"github.com/edubridge/portal/pkg/pagination"
)

// # Definitions & Constructors

// StudentHandler implements the student HTTP endpoints.
//
// Students are never registered through this API; rows are provisioned
// just-in-time by the authentication pipeline when a student token is first
// seen. The endpoints here expose the resulting identities.
type StudentHandler struct {
	studentService *students.Service
}

// NewStudentHandler constructs a new [StudentHandler] with its service dependency.
func NewStudentHandler(service *students.Service) *StudentHandler {
	return &StudentHandler{studentService: service}
}

// Routes returns a [chi.Router] configured with the student routes.
//
// # Endpoints
//   - GET   /me             : Returns the calling student's own identity.
//   - GET   /               : Lists students (any admin).
//   - GET   /{id}           : Fetches one student (any admin).
//   - PATCH /{id}/approval  : Updates the approval flag (any admin).
func (handler *StudentHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authn.IsStudent))
		r.Get("/me", handler.me)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authn.IsAnyAdmin))
		r.Get("/", handler.list)
		r.Get("/{id}", handler.get)
		r.Patch("/{id}/approval", handler.approve)
	})

	return router
}

/*
me returns the identity of the calling student.

GET /api/v1/students/me

Description: The identity was already resolved (and provisioned if needed) by
the authentication pipeline, so this is a pure context read.

Response:
  - 200: Student: The caller's own record
  - 401: ErrUnauthorized: No student principal on the request
*/
func (handler *StudentHandler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, principal.Student())
}

/*
get fetches a single student by identifier.

GET /api/v1/students/{id}

Response:
  - 200: Student: The requested record
  - 404: ErrNotFound: Unknown student
*/
func (handler *StudentHandler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required("id", id).UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	student, err := handler.studentService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, student)
}

/*
list returns a page of student identities.

GET /api/v1/students?page=&limit=

Response:
  - 200: []Student with pagination metadata
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *StudentHandler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	listing, total, err := handler.studentService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listing, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
approve updates the approval flag on a student identity.

PATCH /api/v1/students/{id}/approval

Request:
  - Body: approvalRequest (IsApproved)

Response:
  - 200: Message: Approval updated
  - 404: ErrNotFound: Unknown student
*/
func (handler *StudentHandler) approve(writer http.ResponseWriter, request *http.Request) {
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

	err := handler.studentService.Approve(request.Context(), id, input.IsApproved, actingIdentity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message":                "Approval updated",
		students.FieldIsApproved: input.IsApproved,
	})
}

// actingIdentity labels whoever performed an administrative action, for the
// audit columns. Admin principals win over service callers when both are on
// the request.
func actingIdentity(request *http.Request) string {
	if principal := authn.FromContext(request.Context()); principal != nil {
		return principal.Label()
	}
	if caller := servicekeys.FromContext(request.Context()); caller != nil {
		return fmt.Sprintf("service:%s", caller.Name)
	}
	return "unknown"
}
