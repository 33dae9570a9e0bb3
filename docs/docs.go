// Package docs holds the generated Swagger specification. Regenerate with
// `swag init -g cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a new user",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Log in and receive a JWT",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks with optional status, category, priority, and q filters",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Create a task",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/tasks/{id}": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Retrieve a task with its notes",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Tasks"],
                "summary": "Update a task",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Delete a task",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/tasks/{id}/complete": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Complete a task and record earned effort points",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Already completed"}}
            }
        },
        "/api/tasks/{id}/reopen": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Reopen a completed task, keeping its completion history",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "List categories with task counts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Categories"],
                "summary": "Create a category",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/notes": {
            "get": {
                "tags": ["Notes"],
                "summary": "List notes, optionally for one task",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Notes"],
                "summary": "Add a note to a task",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/analytics/dashboard": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Dashboard counts, period points, upcoming and overdue tasks",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/analytics/effort-points": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Effort point totals for period=today|week|month|year|all",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/analytics/category-breakdown": {
            "get": {
                "tags": ["Analytics"],
                "summary": "All-time points grouped by category",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/analytics/completion-history": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Recent completions, newest first",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "TodoTracker API",
	Description:      "Personal task tracking with effort point analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
