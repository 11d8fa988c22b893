package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/middleware"
	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/models"
	"github.com/api-sage/intl-payments-portal/src/internal/commons"
	"github.com/api-sage/intl-payments-portal/src/internal/logger"
)

type CustomerService interface {
	RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (commons.Response[models.RegisterCustomerResponse], error)
	AuthenticateCustomer(ctx context.Context, req models.CustomerLoginRequest) (commons.Response[models.CustomerLoginResponse], error)
	GetCustomerProfile(ctx context.Context, customerID string) (commons.Response[models.CustomerProfileResponse], error)
}

type StaffService interface {
	AuthenticateEmployee(ctx context.Context, req models.EmployeeLoginRequest) (commons.Response[models.EmployeeLoginResponse], error)
}

type AuthController struct {
	customers CustomerService
	staff     StaffService
}

func NewAuthController(customers CustomerService, staff StaffService) *AuthController {
	return &AuthController{customers: customers, staff: staff}
}

func (c *AuthController) RegisterRoutes(mux *http.ServeMux, customerAuth func(http.Handler) http.Handler) {
	mux.Handle("/auth/register", http.HandlerFunc(c.register))
	mux.Handle("/auth/login", http.HandlerFunc(c.login))
	mux.Handle("/auth/employee-login", http.HandlerFunc(c.employeeLogin))

	meHandler := http.Handler(http.HandlerFunc(c.me))
	if customerAuth != nil {
		meHandler = customerAuth(meHandler)
	}
	mux.Handle("/auth/me", meHandler)
}

func (c *AuthController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.RegisterCustomerResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.RegisterCustomerResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.customers.RegisterCustomer(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		switch response.Message {
		case "validation failed":
			status = http.StatusBadRequest
		case "customer already exists":
			status = http.StatusConflict
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.CustomerLoginResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.CustomerLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CustomerLoginResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.customers.AuthenticateCustomer(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		switch response.Message {
		case "validation failed":
			status = http.StatusBadRequest
		case "invalid credentials":
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AuthController) employeeLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.EmployeeLoginResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.EmployeeLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.EmployeeLoginResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.staff.AuthenticateEmployee(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		switch response.Message {
		case "validation failed":
			status = http.StatusBadRequest
		case "invalid credentials":
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AuthController) me(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.CustomerProfileResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.CustomerProfileResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.customers.GetCustomerProfile(r.Context(), principal.ID)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "customer not found" {
			status = http.StatusNotFound
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
