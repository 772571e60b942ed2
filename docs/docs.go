// Package docs provides Swagger documentation for the Notify CSC API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "contact": {
            "name": "Notify CSC"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Bearer access token from /auth/login"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a staff account",
                "description": "New accounts are pending until an admin approves them",
                "operationId": "register",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/User"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "409": {"description": "E-mail already registered", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in",
                "operationId": "login",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/AuthResult"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "403": {"description": "Account awaiting approval", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current principal",
                "operationId": "me",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Principal", "schema": {"$ref": "#/definitions/Principal"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/public/check-insurance": {
            "post": {
                "tags": ["Public"],
                "summary": "Check insurance status",
                "description": "Looks up by vehicle registration or mobile number and returns masked summaries only. Rate limited per client IP.",
                "operationId": "checkInsurance",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckInsuranceRequest"}}
                ],
                "responses": {
                    "200": {"description": "Match", "schema": {"$ref": "#/definitions/CheckInsuranceResponse"}},
                    "400": {"description": "Malformed input", "schema": {"$ref": "#/definitions/CheckInsuranceResponse"}},
                    "404": {"description": "No insurance record found", "schema": {"$ref": "#/definitions/CheckInsuranceResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/CheckInsuranceResponse"}},
                    "500": {"description": "Generic failure", "schema": {"$ref": "#/definitions/CheckInsuranceResponse"}}
                }
            }
        },
        "/public/announcements": {
            "get": {
                "tags": ["Public"],
                "summary": "List published announcements",
                "operationId": "listPublishedAnnouncements",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Page", "schema": {"$ref": "#/definitions/AnnouncementPage"}}
                }
            }
        },
        "/public/devices": {
            "post": {
                "tags": ["Public"],
                "summary": "Register a push device token",
                "operationId": "registerDevice",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeviceInput"}}
                ],
                "responses": {
                    "204": {"description": "Stored"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/insurances": {
            "get": {
                "tags": ["Insurances"],
                "summary": "List insurance records",
                "description": "Status, search and expiry range facets are AND-ed. Results are sorted by expiry date ascending.",
                "operationId": "listInsurances",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["EXPIRED", "EXPIRING_SOON", "EXPIRING_WARNING", "EXPIRING_UPCOMING", "ACTIVE"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer", "default": 1},
                    {"name": "limit", "in": "query", "type": "integer", "default": 10, "maximum": 100},
                    {"name": "expiryFrom", "in": "query", "type": "string", "format": "date"},
                    {"name": "expiryTo", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "Page", "schema": {"$ref": "#/definitions/InsurancePage"}},
                    "400": {"description": "Bad query parameter", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "post": {
                "tags": ["Insurances"],
                "summary": "Create an insurance record",
                "operationId": "createInsurance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InsuranceInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Insurance"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/insurances/{insurance_id}": {
            "get": {
                "tags": ["Insurances"],
                "summary": "Get an insurance record",
                "operationId": "getInsurance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "insurance_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Record", "schema": {"$ref": "#/definitions/InsuranceView"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "patch": {
                "tags": ["Insurances"],
                "summary": "Update an insurance record (admin)",
                "operationId": "updateInsurance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "insurance_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InsuranceInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/InsuranceView"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "403": {"description": "Not an admin", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["Insurances"],
                "summary": "Soft-delete an insurance record (creator or admin)",
                "operationId": "deleteInsurance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "insurance_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/MessageResponse"}},
                    "403": {"description": "Not creator or admin", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/insurances/{insurance_id}:remind": {
            "post": {
                "tags": ["Reminders"],
                "summary": "Send an expiry reminder SMS",
                "description": "Allowed only when the policy expires within 0 to 30 days",
                "operationId": "sendReminder",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "insurance_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Reminder sent", "schema": {"$ref": "#/definitions/Reminder"}},
                    "400": {"description": "Outside reminder window or no mobile number", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "502": {"description": "Delivery failed", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/insurances/{insurance_id}/reminders": {
            "get": {
                "tags": ["Reminders"],
                "summary": "Reminder history, newest first",
                "operationId": "listReminders",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "insurance_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "History", "schema": {"type": "array", "items": {"$ref": "#/definitions/Reminder"}}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Counts per expiry bucket",
                "operationId": "dashboardStats",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Statistics", "schema": {"$ref": "#/definitions/DashboardStats"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List accounts (admin)",
                "operationId": "listUsers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "Users", "schema": {"type": "array", "items": {"$ref": "#/definitions/User"}}}
                }
            }
        },
        "/users/{user_id}:approve": {
            "post": {
                "tags": ["Users"],
                "summary": "Approve a pending account (admin)",
                "operationId": "approveUser",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "user_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Approved", "schema": {"$ref": "#/definitions/User"}},
                    "409": {"description": "Not pending", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/users/{user_id}:reject": {
            "post": {
                "tags": ["Users"],
                "summary": "Reject a pending account (admin)",
                "operationId": "rejectUser",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "user_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rejected", "schema": {"$ref": "#/definitions/User"}},
                    "409": {"description": "Not pending", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List all announcements (admin)",
                "operationId": "listAnnouncements",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Page", "schema": {"$ref": "#/definitions/AnnouncementPage"}}
                }
            },
            "post": {
                "tags": ["Announcements"],
                "summary": "Create an announcement (admin)",
                "description": "With notify=true on a published announcement, a push broadcast is queued",
                "operationId": "createAnnouncement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnnouncementInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Announcement"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/announcements/{announcement_id}": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Get an announcement (admin)",
                "operationId": "getAnnouncement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "announcement_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Announcement", "schema": {"$ref": "#/definitions/Announcement"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "patch": {
                "tags": ["Announcements"],
                "summary": "Update an announcement (admin)",
                "operationId": "updateAnnouncement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "announcement_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnnouncementInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Announcement"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["Announcements"],
                "summary": "Soft-delete an announcement (admin)",
                "operationId": "deleteAnnouncement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "announcement_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/MessageResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterInput": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string", "format": "email"},
                "password": {"type": "string", "minLength": 8}
            }
        },
        "LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "format": "email"},
                "password": {"type": "string"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "staff"]},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "Principal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "staff"]}
            }
        },
        "AuthResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"},
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "CheckInsuranceRequest": {
            "type": "object",
            "required": ["searchType"],
            "properties": {
                "searchType": {"type": "string", "enum": ["vehicle", "mobile"]},
                "vehicleNumber": {"type": "string", "example": "KL01AB1234"},
                "mobileNumber": {"type": "string", "example": "9876543210"}
            }
        },
        "MaskedInsurance": {
            "type": "object",
            "properties": {
                "maskedVehicleNumber": {"type": "string", "example": "KL******34"},
                "insuranceStatus": {"type": "string", "enum": ["ACTIVE", "EXPIRING", "EXPIRED", "UNKNOWN"]},
                "daysToExpiry": {"type": "integer"}
            }
        },
        "CheckInsuranceResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/MaskedInsurance"}},
                "count": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "InsuranceInput": {
            "type": "object",
            "required": ["registrationNumber", "customerName", "mobileNumber", "vehicleType", "insuranceType", "policyStartDate", "policyExpiryDate"],
            "properties": {
                "registrationNumber": {"type": "string"},
                "customerName": {"type": "string"},
                "mobileNumber": {"type": "string", "pattern": "^[0-9]{10}$"},
                "alternateMobileNumber": {"type": "string", "pattern": "^[0-9]{10}$"},
                "vehicleType": {"type": "string", "enum": ["Two Wheeler", "Four Wheeler", "Goods", "Passenger"]},
                "insuranceType": {"type": "string", "enum": ["Third Party", "Package", "Standalone OD"]},
                "policyStartDate": {"type": "string", "format": "date"},
                "policyExpiryDate": {"type": "string", "format": "date"},
                "remarks": {"type": "string"}
            }
        },
        "Insurance": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "registrationNumber": {"type": "string"},
                "customerName": {"type": "string"},
                "mobileNumber": {"type": "string"},
                "alternateMobileNumber": {"type": "string"},
                "vehicleType": {"type": "string"},
                "insuranceType": {"type": "string"},
                "policyStartDate": {"type": "string", "format": "date-time"},
                "policyExpiryDate": {"type": "string", "format": "date-time"},
                "remarks": {"type": "string"},
                "createdBy": {"type": "string"},
                "createdByName": {"type": "string"},
                "isDeleted": {"type": "boolean"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "InsuranceView": {
            "allOf": [
                {"$ref": "#/definitions/Insurance"},
                {
                    "type": "object",
                    "properties": {
                        "daysRemaining": {"type": "integer"},
                        "expiryStatus": {"type": "string", "enum": ["EXPIRED", "EXPIRING_SOON", "EXPIRING_WARNING", "EXPIRING_UPCOMING", "ACTIVE"]}
                    }
                }
            ]
        },
        "InsurancePage": {
            "type": "object",
            "properties": {
                "insurances": {"type": "array", "items": {"$ref": "#/definitions/InsuranceView"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "pages": {"type": "integer"}
            }
        },
        "DashboardStats": {
            "type": "object",
            "properties": {
                "totalActive": {"type": "integer"},
                "totalExpired": {"type": "integer"},
                "expiringSoon": {"type": "integer"},
                "expiringWarning": {"type": "integer"},
                "expiringUpcoming": {"type": "integer"}
            }
        },
        "Reminder": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "insuranceId": {"type": "string"},
                "customerName": {"type": "string"},
                "registrationNumber": {"type": "string"},
                "sentBy": {"type": "string"},
                "sentByName": {"type": "string"},
                "channel": {"type": "string", "enum": ["SMS"]},
                "status": {"type": "string", "enum": ["SENT", "FAILED"]},
                "message": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "AnnouncementInput": {
            "type": "object",
            "required": ["title", "content"],
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "imageUrl": {"type": "string", "format": "uri"},
                "published": {"type": "boolean"},
                "notify": {"type": "boolean"}
            }
        },
        "Announcement": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "imageUrl": {"type": "string"},
                "published": {"type": "boolean"},
                "pushStatus": {"type": "string", "enum": ["none", "pending", "sent", "failed"]},
                "pushSent": {"type": "integer"},
                "pushFailed": {"type": "integer"},
                "createdBy": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "AnnouncementPage": {
            "type": "object",
            "properties": {
                "announcements": {"type": "array", "items": {"$ref": "#/definitions/Announcement"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "pages": {"type": "integer"}
            }
        },
        "DeviceInput": {
            "type": "object",
            "required": ["token"],
            "properties": {
                "token": {"type": "string"},
                "platform": {"type": "string", "enum": ["web", "android", "ios"]}
            }
        },
        "MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "ProblemDetails": {
            "type": "object",
            "description": "RFC 7807 Problem Details",
            "properties": {
                "type": {"type": "string", "example": "about:blank"},
                "title": {"type": "string", "example": "Not Found"},
                "status": {"type": "integer", "example": 404},
                "detail": {"type": "string", "example": "Insurance record not found"}
            }
        }
    },
    "tags": [
        {"name": "Auth", "description": "Registration and sign-in"},
        {"name": "Public", "description": "Unauthenticated lookup, announcements and device registration"},
        {"name": "Insurances", "description": "Insurance expiry records"},
        {"name": "Reminders", "description": "Expiry reminders"},
        {"name": "Dashboard", "description": "Expiry statistics"},
        {"name": "Users", "description": "Account approval"},
        {"name": "Announcements", "description": "News items and push broadcasts"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Notify CSC API",
	Description:      "Vehicle insurance expiry tracking, masked public lookup and reminders",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
