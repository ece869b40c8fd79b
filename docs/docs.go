// Package docs registers the OpenAPI description of the JSON API.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/messages": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Send a contact message",
                "parameters": [
                    {
                        "description": "Message",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CreateMessageRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CreateMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ValidationErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/profiles": {
            "get": {
                "description": "The owner comes first and is flagged as founder",
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "List active team profiles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProfileListResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/projects": {
            "get": {
                "description": "Newest first, optionally narrowed to one category",
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "List projects",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Category filter; All or empty returns everything",
                        "name": "category",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProjectListResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/projects/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Get a project",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProjectResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}}
            }
        },
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}}
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateMessageRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "message": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "subject": {"type": "string"}
            }
        },
        "dto.CreateMessageResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "details": {},
                "status": {"type": "string"}
            }
        },
        "dto.ProfileListResponse": {
            "type": "object",
            "properties": {
                "profiles": {"type": "array", "items": {"$ref": "#/definitions/dto.ProfileResponse"}}
            }
        },
        "dto.ProfileResponse": {
            "type": "object",
            "properties": {
                "bio": {"type": "string"},
                "current_project": {"type": "string"},
                "education": {"type": "string"},
                "email": {"type": "string"},
                "experience": {"type": "string"},
                "founder": {"type": "boolean"},
                "github": {"type": "string"},
                "id": {"type": "string"},
                "linkedin": {"type": "string"},
                "location": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "profile_image": {"type": "string"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "dto.ProjectListResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"type": "string"}},
                "projects": {"type": "array", "items": {"$ref": "#/definitions/dto.ProjectResponse"}},
                "total": {"type": "integer"}
            }
        },
        "dto.ProjectResponse": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "details": {"type": "string"},
                "id": {"type": "string"},
                "image_url": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"}
            }
        },
        "dto.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "missing": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Portfolio Site API",
	Description:      "Public content and contact endpoints of the portfolio site",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
