// Package docs registers the OpenAPI document served under /swagger.
//
// Regenerate the full document from the handler annotations with:
//
//	swag init -g internal/api/router.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/v1/auth/signup": {"post": {"tags": ["auth"], "summary": "Create an account"}},
        "/v1/auth/signin": {"post": {"tags": ["auth"], "summary": "Sign in"}},
        "/v1/auth/signout": {"post": {"tags": ["auth"], "summary": "Sign out", "security": [{"BearerAuth": []}]}},
        "/v1/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh the session token", "security": [{"BearerAuth": []}]}},
        "/v1/auth/session": {"get": {"tags": ["auth"], "summary": "Current identity"}},
        "/v1/practitioners": {"get": {"tags": ["directory"], "summary": "List practitioners"}},
        "/v1/practitioners/{id}/slots": {"get": {"tags": ["directory"], "summary": "Open slots for a practitioner"}},
        "/v1/services": {"get": {"tags": ["directory"], "summary": "List services"}},
        "/v1/appointments": {
            "get": {"tags": ["appointments"], "summary": "My appointments", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["appointments"], "summary": "Book an appointment", "security": [{"BearerAuth": []}]}
        },
        "/v1/appointments/{id}": {
            "get": {"tags": ["appointments"], "summary": "Get an appointment", "security": [{"BearerAuth": []}]},
            "patch": {"tags": ["appointments"], "summary": "Edit an appointment", "security": [{"BearerAuth": []}]}
        },
        "/v1/appointments/{id}/cancel": {"post": {"tags": ["appointments"], "summary": "Cancel an appointment", "security": [{"BearerAuth": []}]}},
        "/v1/users/{id}/appointments": {"get": {"tags": ["appointments"], "summary": "Appointments of a user", "security": [{"BearerAuth": []}]}},
        "/v1/contact": {"post": {"tags": ["contact"], "summary": "Send a contact message"}},
        "/v1/admin/appointments": {
            "get": {"tags": ["admin"], "summary": "All appointments", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["admin"], "summary": "Book for a requester", "security": [{"BearerAuth": []}]}
        },
        "/v1/admin/appointments/{id}/status": {"put": {"tags": ["admin"], "summary": "Change appointment status", "security": [{"BearerAuth": []}]}},
        "/v1/admin/dashboard": {"get": {"tags": ["admin"], "summary": "Dashboard counts", "security": [{"BearerAuth": []}]}},
        "/v1/admin/users": {"get": {"tags": ["admin"], "summary": "Registered users", "security": [{"BearerAuth": []}]}},
        "/v1/admin/promotions": {"post": {"tags": ["admin"], "summary": "Promote to admin", "security": [{"BearerAuth": []}]}},
        "/v1/admin/contact": {"get": {"tags": ["admin"], "summary": "Contact messages", "security": [{"BearerAuth": []}]}},
        "/v1/admin/contact/{id}/read": {"post": {"tags": ["admin"], "summary": "Mark a contact message read", "security": [{"BearerAuth": []}]}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Clinic Booking API",
	Description:      "Appointment booking for the clinic: directory, self-service bookings and the staff console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
