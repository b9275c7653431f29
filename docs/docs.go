// Package docs is generated by swaggo/swag. Regenerate with `swag init -g cmd/api/main.go`.
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
        "/dehu/notification/update": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhook"],
                "summary": "Notification update webhook",
                "parameters": [
                    {
                        "description": "Pushed notifications",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.webhookRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.webhookResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.webhookError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.webhookError"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "List notifications",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.NotificationListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/notifications/fetch": {
            "post": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Fetch pending notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.FetchResult"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/notifications/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Get notification",
                "parameters": [{"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Notification"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/notifications/{id}/attachments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "List notification attachments",
                "parameters": [{"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Attachment"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/notifications/{id}/process": {
            "post": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Accept notification",
                "parameters": [{"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ProcessResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/notifications/{id}/receipt": {
            "get": {
                "produces": ["application/json"],
                "tags": ["receipts"],
                "summary": "Download receipt",
                "parameters": [{"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ReceiptPDF"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/notifications/{id}/receipt/archive": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["receipts"],
                "summary": "Get archived receipt",
                "parameters": [{"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["receipts"],
                "summary": "Archive receipt",
                "parameters": [{"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.ArchivedReceipt"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.webhookError": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "status": {"type": "string"}}
        },
        "handler.webhookRequest": {
            "type": "object",
            "properties": {
                "notifications": {"type": "array", "items": {"$ref": "#/definitions/service.PushNotification"}}
            }
        },
        "handler.webhookResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "integer"},
                "message": {"type": "string"},
                "status": {"type": "string"},
                "updated": {"type": "integer"}
            }
        },
        "model.Attachment": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "metadata": {"type": "string"},
                "mimetype": {"type": "string"},
                "name": {"type": "string"},
                "notification_id": {"type": "string"},
                "reference": {"type": "string"}
            }
        },
        "model.Notification": {
            "type": "object",
            "properties": {
                "available_date": {"type": "string"},
                "created_at": {"type": "string"},
                "dehu_id": {"type": "string"},
                "description": {"type": "string"},
                "document_content": {"type": "string"},
                "document_hash": {"type": "string"},
                "document_hash_algorithm": {"type": "string"},
                "document_metadata": {"type": "string"},
                "document_mimetype": {"type": "string"},
                "document_name": {"type": "string"},
                "has_attachments": {"type": "boolean"},
                "holder_name": {"type": "string"},
                "holder_nif": {"type": "string"},
                "id": {"type": "string"},
                "issuer_entity": {"type": "string"},
                "issuer_root_entity": {"type": "string"},
                "notification_type": {"type": "string"},
                "origin_code": {"type": "integer"},
                "receipt_csv": {"type": "string"},
                "receipt_reference": {"type": "string"},
                "recipient_name": {"type": "string"},
                "recipient_nif": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "accepted", "rejected", "expired", "read"]},
                "subject": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "model.ReceiptPDF": {
            "type": "object",
            "properties": {"content": {"type": "string"}, "mimetype": {"type": "string"}, "name": {"type": "string"}}
        },
        "service.ArchivedReceipt": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "name": {"type": "string"},
                "size": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "service.AttachmentReport": {
            "type": "object",
            "properties": {
                "created": {"type": "array", "items": {"$ref": "#/definitions/model.Attachment"}},
                "skipped": {"type": "array", "items": {"$ref": "#/definitions/service.Skip"}}
            }
        },
        "service.FetchResult": {
            "type": "object",
            "properties": {"created": {"type": "integer"}, "seen": {"type": "integer"}, "skipped": {"type": "integer"}}
        },
        "service.NotificationListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Notification"}},
                "total": {"type": "integer"}
            }
        },
        "service.ProcessResult": {
            "type": "object",
            "properties": {
                "attachments": {"$ref": "#/definitions/service.AttachmentReport"},
                "notification": {"$ref": "#/definitions/model.Notification"}
            }
        },
        "service.PushNotification": {
            "type": "object",
            "required": ["identificador"],
            "properties": {
                "codigoOrigen": {"type": "integer"},
                "concepto": {"type": "string"},
                "descripcion": {"type": "string"},
                "estado": {"type": "string"},
                "fechaPuestaDisposicion": {"type": "string"},
                "identificador": {"type": "string"},
                "organismoEmisor": {"type": "object", "properties": {"nombreOrganismo": {"type": "string"}}},
                "organismoEmisorRaiz": {"type": "object", "properties": {"nombreOrganismo": {"type": "string"}}},
                "tipoEnvio": {"type": "string"},
                "titular": {"type": "object", "properties": {"nifTitular": {"type": "string"}, "nombreTitular": {"type": "string"}}}
            }
        },
        "service.Skip": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "reason": {"type": "string"}, "reference": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DEHU Sync API",
	Description:      "Mirrors DEHU notifications, accepts them and archives their receipts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
