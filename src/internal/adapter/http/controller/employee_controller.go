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

type VerificationService interface {
	ListPendingPayments(ctx context.Context) (commons.Response[[]models.PaymentResponse], error)
	VerifyPayment(ctx context.Context, staffID string, req models.VerifyPaymentRequest) (commons.Response[models.PaymentResponse], error)
	ListProcessedPayments(ctx context.Context, staffID string) (commons.Response[[]models.PaymentResponse], error)
}

type EmployeeController struct {
	service VerificationService
}

func NewEmployeeController(service VerificationService) *EmployeeController {
	return &EmployeeController{service: service}
}

func (c *EmployeeController) RegisterRoutes(mux *http.ServeMux, employeeAuth func(http.Handler) http.Handler) {
	pendingHandler := http.Handler(http.HandlerFunc(c.pendingPayments))
	verifyHandler := http.Handler(http.HandlerFunc(c.verifyPayment))
	processedHandler := http.Handler(http.HandlerFunc(c.processedPayments))
	if employeeAuth != nil {
		pendingHandler = employeeAuth(pendingHandler)
		verifyHandler = employeeAuth(verifyHandler)
		processedHandler = employeeAuth(processedHandler)
	}
	mux.Handle("/employee/pending-payments", pendingHandler)
	mux.Handle("/employee/verify-payment", verifyHandler)
	mux.Handle("/employee/processed-payments", processedHandler)
}

func (c *EmployeeController) pendingPayments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.PaymentResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.ListPendingPayments(r.Context())
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *EmployeeController) verifyPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.PaymentResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.PaymentResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.PaymentResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.VerifyPayment(r.Context(), principal.ID, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		switch response.Message {
		case "validation failed":
			status = http.StatusBadRequest
		case "payment not found or already processed":
			status = http.StatusNotFound
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *EmployeeController) processedPayments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.PaymentResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[[]models.PaymentResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.ListProcessedPayments(r.Context(), principal.ID)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
