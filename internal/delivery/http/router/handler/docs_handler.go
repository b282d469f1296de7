package handler

import (
	"net/http"

	"stringbox/config"

	"github.com/labstack/echo/v4"
)

// DocsHandler serves the machine-readable API description. The document is
// assembled from the route contracts by hand and served for documentation
// only; the handlers remain the source of truth.
type DocsHandler struct {
	doc map[string]any
}

// NewDocsHandler is the constructor for DocsHandler, injected by Fx.
func NewDocsHandler(cfg *config.Config) *DocsHandler {
	return &DocsHandler{doc: buildOpenAPIDoc(cfg)}
}

// OpenAPI serves the OpenAPI 3 document as JSON.
func (h *DocsHandler) OpenAPI(c echo.Context) error {
	return c.JSON(http.StatusOK, h.doc)
}

func buildOpenAPIDoc(cfg *config.Config) map[string]any {
	errorSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":  map[string]any{"type": "string", "example": "failed"},
			"message": map[string]any{"type": "string"},
		},
	}
	tokenPairSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":        map[string]any{"type": "string", "example": "success"},
			"message":       map[string]any{"type": "string"},
			"access_token":  map[string]any{"type": "string"},
			"refresh_token": map[string]any{"type": "string"},
			"token_type":    map[string]any{"type": "string", "example": "bearer"},
		},
	}
	credentialsSchema := map[string]any{
		"type":     "object",
		"required": []string{"email", "password"},
		"properties": map[string]any{
			"email":    map[string]any{"type": "string", "format": "email"},
			"password": map[string]any{"type": "string", "minLength": 8},
		},
	}

	jsonBody := func(schema map[string]any) map[string]any {
		return map[string]any{
			"content": map[string]any{
				"application/json": map[string]any{"schema": schema},
			},
		}
	}
	errorResponse := func(description string) map[string]any {
		resp := jsonBody(errorSchema)
		resp["description"] = description

		return resp
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   cfg.Env.ServiceName,
			"version": "1.0.0",
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"bearerAuth": map[string]any{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"paths": map[string]any{
			"/api/v1/auth/register": map[string]any{
				"post": map[string]any{
					"summary":     "Register a new account",
					"requestBody": jsonBody(credentialsSchema),
					"responses": map[string]any{
						"201": func() map[string]any {
							resp := jsonBody(tokenPairSchema)
							resp["description"] = "Account created, token pair issued"

							return resp
						}(),
						"400": errorResponse("Malformed or missing input"),
						"409": errorResponse("Email already registered"),
					},
				},
			},
			"/api/v1/auth/login": map[string]any{
				"post": map[string]any{
					"summary":     "Log in with email and password",
					"requestBody": jsonBody(credentialsSchema),
					"responses": map[string]any{
						"200": func() map[string]any {
							resp := jsonBody(tokenPairSchema)
							resp["description"] = "Fresh token pair"

							return resp
						}(),
						"400": errorResponse("Malformed or missing input"),
						"401": errorResponse("Invalid email or password"),
					},
				},
			},
			"/api/v1/auth/refresh": map[string]any{
				"post": map[string]any{
					"summary": "Exchange a refresh token for a new access token",
					"requestBody": jsonBody(map[string]any{
						"type":     "object",
						"required": []string{"refresh_token"},
						"properties": map[string]any{
							"refresh_token": map[string]any{"type": "string"},
						},
					}),
					"responses": map[string]any{
						"200": func() map[string]any {
							resp := jsonBody(map[string]any{
								"type": "object",
								"properties": map[string]any{
									"status":       map[string]any{"type": "string", "example": "success"},
									"message":      map[string]any{"type": "string"},
									"access_token": map[string]any{"type": "string"},
									"token_type":   map[string]any{"type": "string", "example": "bearer"},
								},
							})
							resp["description"] = "New access token"

							return resp
						}(),
						"400": errorResponse("Missing refresh token"),
						"401": errorResponse("Invalid or expired refresh token"),
					},
				},
			},
			"/api/v1/strings/save": map[string]any{
				"post": map[string]any{
					"summary":  "Save a string",
					"security": []map[string]any{{"bearerAuth": []string{}}},
					"requestBody": jsonBody(map[string]any{
						"type":     "object",
						"required": []string{"string"},
						"properties": map[string]any{
							"string": map[string]any{"type": "string", "minLength": 1, "maxLength": 10000},
						},
					}),
					"responses": map[string]any{
						"201": func() map[string]any {
							resp := jsonBody(map[string]any{
								"type": "object",
								"properties": map[string]any{
									"status":  map[string]any{"type": "string", "example": "success"},
									"message": map[string]any{"type": "string"},
									"id":      map[string]any{"type": "integer", "format": "int64"},
								},
							})
							resp["description"] = "String saved"

							return resp
						}(),
						"400": errorResponse("Invalid string"),
						"401": errorResponse("Missing or invalid access token"),
					},
				},
			},
			"/api/v1/strings/random": map[string]any{
				"get": map[string]any{
					"summary": "Fetch one stored string at random",
					"responses": map[string]any{
						"200": func() map[string]any {
							resp := jsonBody(map[string]any{
								"type": "object",
								"properties": map[string]any{
									"random_string": map[string]any{"type": "string"},
								},
							})
							resp["description"] = "One stored string"

							return resp
						}(),
						"404": errorResponse("No strings found"),
					},
				},
			},
		},
	}
}
