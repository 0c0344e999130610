// Copyright (c) 2026 Edubridge. All rights reserved.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edubridge/portal/internal/authn"
	"github.com/edubridge/portal/internal/platform/middleware"
	requestutil "github.com/edubridge/portal/internal/platform/request"
	"github.com/edubridge/portal/internal/platform/respond"
	"github.com/edubridge/portal/internal/platform/validate"
	"github.com/edubridge/portal/internal/servicekeys"
)

// # Definitions & Constructors

// ServiceKeyHandler implements the service key management endpoints.
type ServiceKeyHandler struct {
	serviceKeyService *servicekeys.Service
}

// NewServiceKeyHandler constructs a new [ServiceKeyHandler] with its service dependency.
func NewServiceKeyHandler(service *servicekeys.Service) *ServiceKeyHandler {
	return &ServiceKeyHandler{serviceKeyService: service}
}

// Routes returns a [chi.Router] configured with the service key routes.
//
// # Endpoints
//   - POST / : Issues a new service key (any admin).
func (handler *ServiceKeyHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authn.IsAnyAdmin))
		r.Post("/", handler.issue)
	})

	return router
}

type serviceKeyIssueRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

/*
issue mints a new opaque service API key.

POST /api/v1/service-keys

Description: The plaintext key appears exactly once in this response; only its
hash is stored.

Request:
  - Body: serviceKeyIssueRequest (Name, Category)

Response:
  - 201: IssuedKey: Caller metadata plus the one-time plaintext key
  - 400: ErrValidation: Unknown category
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *ServiceKeyHandler) issue(writer http.ResponseWriter, request *http.Request) {
	var input serviceKeyIssueRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		Required("category", input.Category).
		OneOf("category", input.Category,
			string(servicekeys.CategoryAdmin),
			string(servicekeys.CategoryBankAdmin),
			string(servicekeys.CategoryPayments),
			string(servicekeys.CategoryStudent),
			string(servicekeys.CategoryAPIBackend))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.serviceKeyService.Issue(request.Context(), servicekeys.IssueInput{
		Name:     input.Name,
		Category: servicekeys.Category(input.Category),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, issued)
}
