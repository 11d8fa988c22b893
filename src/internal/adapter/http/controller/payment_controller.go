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
	"github.com/api-sage/intl-payments-portal/src/internal/usecase/services"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, customerID string, req models.CreatePaymentRequest, provenance services.Provenance) (commons.Response[models.PaymentResponse], error)
	ListCustomerPayments(ctx context.Context, customerID string) (commons.Response[[]models.PaymentResponse], error)
	GetPayment(ctx context.Context, customerID string, paymentID string) (commons.Response[models.PaymentResponse], error)
}

// PaymentController serves the customer-facing payment endpoints; the
// employee verification queue lives on EmployeeController.
type PaymentController struct {
	service PaymentService
}

func NewPaymentController(service PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

func (c *PaymentController) RegisterRoutes(mux *http.ServeMux, customerAuth func(http.Handler) http.Handler) {
	createHandler := http.Handler(http.HandlerFunc(c.createPayment))
	historyHandler := http.Handler(http.HandlerFunc(c.paymentHistory))
	detailHandler := http.Handler(http.HandlerFunc(c.paymentDetail))
	if customerAuth != nil {
		createHandler = customerAuth(createHandler)
		historyHandler = customerAuth(historyHandler)
		detailHandler = customerAuth(detailHandler)
	}
	mux.Handle("/payments/create", createHandler)
	mux.Handle("/payments/history", historyHandler)
	mux.Handle("/payments/detail", detailHandler)
}

func (c *PaymentController) createPayment(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.PaymentResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	provenance := services.Provenance{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}

	response, err := c.service.CreatePayment(r.Context(), principal.ID, req, provenance)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *PaymentController) paymentHistory(w http.ResponseWriter, r *http.Request) {
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

	response, err := c.service.ListCustomerPayments(r.Context(), principal.ID)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *PaymentController) paymentDetail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
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

	response, err := c.service.GetPayment(r.Context(), principal.ID, r.URL.Query().Get("id"))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		switch response.Message {
		case "validation failed":
			status = http.StatusBadRequest
		case "payment not found":
			status = http.StatusNotFound
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
