// Package docs registers the OpenAPI document served at /swagger.
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
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "Register new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Login user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Get current user", "responses": {"200": {"description": "OK"}}}},
        "/users/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Get user document", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/users/username/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Get username by id", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/users/username-info": {"post": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Get recipient info", "responses": {"200": {"description": "OK"}}}},
        "/users/remove-card": {"post": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Remove saved card", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/users/add-friend": {"post": {"security": [{"BearerAuth": []}], "tags": ["Friends"], "summary": "Send friend request", "responses": {"200": {"description": "OK"}}}},
        "/users/friends-info": {"post": {"security": [{"BearerAuth": []}], "tags": ["Friends"], "summary": "Friends and requests details", "responses": {"200": {"description": "OK"}}}},
        "/users/accept-friend-request": {"post": {"security": [{"BearerAuth": []}], "tags": ["Friends"], "summary": "Accept friend request", "responses": {"200": {"description": "OK"}}}},
        "/users/decline-friend-request": {"post": {"security": [{"BearerAuth": []}], "tags": ["Friends"], "summary": "Decline friend request", "responses": {"200": {"description": "OK"}}}},
        "/users/cancel-friend-request": {"post": {"security": [{"BearerAuth": []}], "tags": ["Friends"], "summary": "Cancel friend request", "responses": {"200": {"description": "OK"}}}},
        "/users/delete-friend": {"post": {"security": [{"BearerAuth": []}], "tags": ["Friends"], "summary": "Remove friend", "responses": {"200": {"description": "OK"}}}},
        "/feed": {"get": {"security": [{"BearerAuth": []}], "tags": ["Feed"], "summary": "Friends feed", "responses": {"200": {"description": "OK"}}}},
        "/transactions": {"get": {"security": [{"BearerAuth": []}], "tags": ["Transactions"], "summary": "List transactions", "responses": {"200": {"description": "OK"}}}},
        "/transactions/deposit": {"post": {"security": [{"BearerAuth": []}], "tags": ["Transactions"], "summary": "Deposit", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/transactions/withdraw": {"post": {"security": [{"BearerAuth": []}], "tags": ["Transactions"], "summary": "Withdraw", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/transactions/send": {"post": {"security": [{"BearerAuth": []}], "tags": ["Transactions"], "summary": "Send money", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/transactions/request": {"post": {"security": [{"BearerAuth": []}], "tags": ["Transactions"], "summary": "Request money", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "peerpay API",
	Description:      "Peer-to-peer payments and friends feed API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
