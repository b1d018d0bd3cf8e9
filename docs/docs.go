// Package docs holds the OpenAPI description served under /swagger.
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
        "/auth/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange the owner passphrase for a bearer token",
                "parameters": [
                    {"description": "credentials", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/http.tokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.tokenResponse"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/planner/bootstrap": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["planner"],
                "summary": "Create folders, daily file and tracker, migrate tasks, refresh the summary",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/planner/daily": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["planner"],
                "summary": "Create today's task file",
                "responses": {"200": {"description": "already present"}, "201": {"description": "created"}}
            }
        },
        "/planner/today": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["planner"],
                "summary": "Open tasks of today",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/planner/tasks": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["planner"],
                "summary": "Append an open task to today's file",
                "parameters": [
                    {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/http.addTaskRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/planner/migrate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["planner"],
                "summary": "Carry unfinished tasks from the last daily file",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/planner/tracker": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["planner"],
                "summary": "Per category totals of the current tracker",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["planner"],
                "summary": "Create this week's habit tracker",
                "responses": {"200": {"description": "already present"}, "201": {"description": "created"}}
            }
        },
        "/summary": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["summary"],
                "summary": "Regenerate Summary.md for the week containing date",
                "parameters": [
                    {"type": "string", "description": "YYYY-MM-DD, defaults to today", "name": "date", "in": "query"},
                    {"type": "boolean", "description": "queue the job instead of waiting", "name": "async", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/summary/weekly": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["summary"],
                "summary": "Task statistics of the task week containing date",
                "parameters": [{"type": "string", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/summary/chart": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["summary"],
                "summary": "Chart block of the current summary, decoded",
                "responses": {"200": {"description": "OK"}, "404": {"description": "no chart block"}}
            }
        },
        "/summary/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["summary"],
                "summary": "Archived weekly snapshots, newest first",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/summary/snapshot": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["summary"],
                "summary": "Archived snapshot of the health week containing date",
                "parameters": [{"type": "string", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Habit categories of the health week containing date",
                "parameters": [{"type": "string", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "http.tokenRequest": {
            "type": "object",
            "required": ["passphrase", "subject"],
            "properties": {
                "passphrase": {"type": "string", "minLength": 8},
                "subject": {"type": "string"}
            }
        },
        "http.tokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "token_type": {"type": "string"}
            }
        },
        "http.addTaskRequest": {
            "type": "object",
            "properties": {"text": {"type": "string", "maxLength": 500}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kanso Planner API",
	Description:      "Weekly summary engine over a markdown planner vault.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
