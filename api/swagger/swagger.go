package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Class Navigation API",
        "description": "Sidebar navigation, breadcrumbs and class exports for the staff portal",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Navigation", "description": "Sidebar tree, breadcrumbs and exports"},
        {"name": "Observability", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check against postgres and redis",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Process level counters",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/navigation": {
            "get": {
                "tags": ["Navigation"],
                "summary": "Sidebar navigation for the signed in user",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SidebarEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/navigation/breadcrumbs": {
            "get": {
                "tags": ["Navigation"],
                "summary": "Breadcrumb trail for a portal path",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "path", "in": "query", "type": "string", "maxLength": 2048, "description": "Portal path, defaults to /"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid path", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/navigation/export": {
            "get": {
                "tags": ["Navigation"],
                "summary": "Download the class navigation as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/navigation/refresh": {
            "post": {
                "tags": ["Navigation"],
                "summary": "Drop the cached classes of the signed in user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Refreshed"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "NavigationNode": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "url": {"type": "string"},
                "children": {"type": "array", "items": {"$ref": "#/definitions/NavigationNode"}}
            }
        },
        "NavigationGroup": {
            "type": "object",
            "properties": {
                "group": {"type": "string", "enum": ["Home", "Classes", "Grades", "Attendance", "Schedule"]},
                "title": {"type": "string"},
                "url": {"type": "string"},
                "icon": {"type": "string", "enum": ["LayoutDashboard", "BookOpen", "Fingerprint", "CalendarDays", "Users"]},
                "isActive": {"type": "boolean"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/NavigationNode"}}
            }
        },
        "UserProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "avatar": {"type": "string"}
            }
        },
        "SidebarData": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/UserProfile"},
                "navMain": {"type": "array", "items": {"$ref": "#/definitions/NavigationGroup"}}
            }
        },
        "BreadcrumbItem": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "url": {"type": "string"},
                "isCurrent": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "SidebarEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/SidebarData"},
                "meta": {
                    "type": "object",
                    "properties": {
                        "cache_hit": {"type": "boolean"},
                        "processing_time_ms": {"type": "integer"}
                    }
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
