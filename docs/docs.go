// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/apexcrm/main.go
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
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Вход в систему",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "login", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Текущий пользователь", "responses": {"200": {"description": "OK"}}}
        },
        "/deals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Deals"],
                "summary": "Список сделок",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "stage", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Deals"],
                "summary": "Создать сделку",
                "parameters": [{"name": "deal", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Deal"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/deals/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Deals"], "summary": "Сделка по id", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Deals"], "summary": "Обновить сделку", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"name": "deal", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Deal"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Deals"], "summary": "Удалить сделку", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/pipeline/board": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Pipeline"], "summary": "Канбан-доска", "parameters": [{"type": "string", "name": "q", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/pipeline/stages": {
            "get": {"tags": ["Pipeline"], "summary": "Этапы воронки", "responses": {"200": {"description": "OK"}}}
        },
        "/pipeline/deals/{id}/move": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Pipeline"], "summary": "Перенести сделку на этап", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/contacts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Contacts"], "summary": "Список контактов", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Contacts"], "summary": "Создать контакт", "responses": {"201": {"description": "Created"}}}
        },
        "/campaigns": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Campaigns"], "summary": "Список кампаний", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Campaigns"], "summary": "Создать кампанию", "responses": {"201": {"description": "Created"}}}
        },
        "/tickets": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Tickets"], "summary": "Список обращений", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Tickets"], "summary": "Создать обращение", "responses": {"201": {"description": "Created"}}}
        },
        "/tickets/{id}/status": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Tickets"], "summary": "Сменить статус обращения", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Dashboard"], "summary": "Сводка дашборда", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/pipeline.pdf": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Reports"], "summary": "PDF-отчёт по воронке", "produces": ["application/pdf"], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.Deal": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "customer": {"type": "string"},
                "value": {"type": "number"},
                "stage": {"type": "string", "enum": ["lead", "qualified", "proposal", "negotiation", "closed"]},
                "probability": {"type": "integer"},
                "expected_close_date": {"type": "string", "example": "2024-01-31"},
                "type": {"type": "string", "enum": ["company", "individual"]},
                "contact": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ApexCRM API",
	Description:      "Sales pipeline, contacts, campaigns and support tickets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
