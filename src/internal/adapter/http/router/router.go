package router

import "net/http"

type AuthRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, customerAuth func(http.Handler) http.Handler)
}

type PaymentRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, customerAuth func(http.Handler) http.Handler)
}

type EmployeeRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, employeeAuth func(http.Handler) http.Handler)
}

func New(
	authController AuthRouteRegistrar,
	paymentController PaymentRouteRegistrar,
	employeeController EmployeeRouteRegistrar,
	customerAuth func(http.Handler) http.Handler,
	employeeAuth func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	if authController != nil {
		authController.RegisterRoutes(mux, customerAuth)
	}
	if paymentController != nil {
		paymentController.RegisterRoutes(mux, customerAuth)
	}
	if employeeController != nil {
		employeeController.RegisterRoutes(mux, employeeAuth)
	}

	return mux
}
