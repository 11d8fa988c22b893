package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>International Payments Portal API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "International Payments Portal API",
    "version": "1.0.0"
  },
  "paths": {
    "/auth/register": {
      "post": {
        "summary": "Register customer",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["firstName", "lastName", "idNumber", "accountNumber", "password"],
                "properties": {
                  "firstName": {"type": "string"},
                  "middleName": {"type": "string"},
                  "lastName": {"type": "string"},
                  "idNumber": {"type": "string"},
                  "accountNumber": {"type": "string"},
                  "password": {"type": "string", "format": "password", "minLength": 12}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "409": {"description": "Customer already exists"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/auth/login": {
      "post": {
        "summary": "Customer login",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["userName", "accountNumber", "password"],
                "properties": {
                  "userName": {"type": "string", "example": "Jane Doe"},
                  "accountNumber": {"type": "string"},
                  "password": {"type": "string", "format": "password"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Login successful"},
          "400": {"description": "Validation error"},
          "401": {"description": "Invalid credentials"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/auth/employee-login": {
      "post": {
        "summary": "Employee login",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "password"],
                "properties": {
                  "email": {"type": "string", "format": "email"},
                  "password": {"type": "string", "format": "password"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Login successful"},
          "400": {"description": "Validation error"},
          "401": {"description": "Invalid credentials"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/auth/me": {
      "get": {
        "summary": "Authenticated customer profile",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Profile fetched"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Customer not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/payments/create": {
      "post": {
        "summary": "Create payment (PENDING)",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["amount", "currency", "provider", "swiftCode", "cardBrand", "cardLast4", "expiryMonth", "expiryYear"],
                "properties": {
                  "amount": {"type": "string", "example": "1250.00"},
                  "currency": {"type": "string", "pattern": "^[A-Z]{3}$"},
                  "provider": {"type": "string"},
                  "swiftCode": {"type": "string", "example": "ABSA-ZA-JJ"},
                  "cardBrand": {"type": "string", "enum": ["VISA", "MASTERCARD", "AMEX", "UNKNOWN"]},
                  "cardLast4": {"type": "string", "pattern": "^\\d{4}$"},
                  "expiryMonth": {"type": "integer", "minimum": 1, "maximum": 12},
                  "expiryYear": {"type": "integer"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Payment created"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/payments/history": {
      "get": {
        "summary": "Authenticated customer's payment history",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Payments fetched"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/payments/detail": {
      "get": {
        "summary": "Fetch one payment by id",
        "security": [{"BearerAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "query",
            "required": true,
            "schema": {"type": "string", "format": "uuid"}
          }
        ],
        "responses": {
          "200": {"description": "Payment fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Payment not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/employee/pending-payments": {
      "get": {
        "summary": "Verification queue",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Pending payments fetched"},
          "401": {"description": "Unauthorized"},
          "403": {"description": "Forbidden"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/employee/verify-payment": {
      "post": {
        "summary": "Accept or reject a pending payment",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["paymentId", "action"],
                "properties": {
                  "paymentId": {"type": "string", "format": "uuid"},
                  "action": {"type": "string", "enum": ["ACCEPT", "REJECT"]},
                  "swiftCode": {"type": "string", "example": "ABSAZAJJ"},
                  "comment": {"type": "string", "maxLength": 1000}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Payment verified"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "403": {"description": "Forbidden"},
          "404": {"description": "Payment not found or already processed"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/employee/processed-payments": {
      "get": {
        "summary": "Payments verified by the caller",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Processed payments fetched"},
          "401": {"description": "Unauthorized"},
          "403": {"description": "Forbidden"},
          "500": {"description": "Server error"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BearerAuth": {
        "type": "http",
        "scheme": "bearer",
        "bearerFormat": "JWT"
      }
    }
  }
}`
