// Package docs registers the swagger document for the inquiry API.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/inquiry": {
            "post": {
                "description": "Validate a visit inquiry, notify staff and acknowledge the visitor.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["inquiry"],
                "summary": "Submit Inquiry",
                "parameters": [
                    {"type": "string", "description": "Car type", "name": "car_type", "in": "formData", "required": true},
                    {"type": "string", "description": "Name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Name (kana)", "name": "name_kana", "in": "formData", "required": true},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Phone (digits only)", "name": "phone", "in": "formData", "required": true},
                    {"type": "string", "description": "Visit date (YYYY-MM-DD)", "name": "visit_date", "in": "formData", "required": true},
                    {"type": "string", "description": "Visit time slot", "name": "visit_time", "in": "formData", "required": true},
                    {"type": "string", "description": "Store", "name": "store", "in": "formData", "required": true},
                    {"type": "string", "description": "Message", "name": "message", "in": "formData"},
                    {"type": "string", "description": "Present when the privacy policy is accepted", "name": "privacy_agree", "in": "formData", "required": true},
                    {"type": "string", "description": "Anti-forgery token", "name": "csrf_token", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "303": {"description": "Redirect to the thanks page for plain form posts"},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/inquiry/rules": {
            "get": {
                "description": "The ordered rule set the form controller enforces before submitting.",
                "produces": ["application/json"],
                "tags": ["inquiry"],
                "summary": "Inquiry Validation Rules",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/response.Response"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/validation.Rule"}}}}
                            ]
                        }
                    }
                }
            }
        },
        "/inquiry/token": {
            "get": {
                "description": "Issue a token to post back in the csrf_token field.",
                "produces": ["application/json"],
                "tags": ["inquiry"],
                "summary": "Issue Anti-Forgery Token",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/response.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/v1.TokenData"}}}
                            ]
                        }
                    },
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "v1.TokenData": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "validation.Rule": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "label": {"type": "string"},
                "check": {"type": "string", "enum": ["required", "email", "digits", "agreed", "not_past"]},
                "message": {"type": "string"},
                "pattern": {"type": "string"},
                "scope": {"type": "string", "enum": ["both", "client"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Kei no Mori Inquiry API",
	Description:      "Visit inquiry form backend for the Kei no Mori summer campaign.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
