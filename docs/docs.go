// Package docs registers the OpenAPI description served at /swagger.
// Keep it in step with the @Router annotations in internal/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "in": "header", "name": "Cookie"},
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "security": [{"CookieAuth": []}, {"BearerAuth": []}],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Log in",
                "description": "Verifies credentials and sets the session cookie",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Bad password", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Unknown email", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Log out", "responses": {"200": {"description": "OK"}}}},
        "/auth/register": {
            "post": {
                "tags": ["auth"], "summary": "Register a user",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Not authenticated"}}}},
        "/auth/users": {
            "get": {
                "tags": ["users"], "summary": "List users",
                "parameters": [
                    {"in": "query", "name": "role", "type": "string"},
                    {"in": "query", "name": "designation", "type": "string"},
                    {"in": "query", "name": "userType", "type": "string"},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/{id}": {
            "get": {"tags": ["users"], "summary": "Get a user", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["users"], "summary": "Update a user", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user (admin)", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/auth/{id}/reset-password": {
            "put": {"tags": ["users"], "summary": "Reset a password (admin)", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/jobs": {
            "get": {
                "tags": ["jobs"], "summary": "List jobs",
                "parameters": [{"in": "query", "name": "assignedTo", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Job"}}}}
            }
        },
        "/jobs/create": {
            "post": {
                "tags": ["jobs"], "summary": "Create a job",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateJobRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/jobs/external-users": {"get": {"tags": ["jobs"], "summary": "Vendor users", "responses": {"200": {"description": "OK"}}}},
        "/jobs/signed-url": {"post": {"tags": ["jobs"], "summary": "Signed upload URL for a status attachment", "responses": {"200": {"description": "OK"}}}},
        "/jobs/signed-url-gcs": {"post": {"tags": ["jobs"], "summary": "Signed upload URL for a job attachment", "responses": {"200": {"description": "OK"}}}},
        "/jobs/{id}": {
            "get": {"tags": ["jobs"], "summary": "Get a job", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Job"}}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["jobs"], "summary": "Delete a job", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid id"}, "404": {"description": "Not found"}}}
        },
        "/jobs/{jobId}/approve": {
            "post": {"tags": ["jobs"], "summary": "Approve a job", "parameters": [{"in": "path", "name": "jobId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/jobs/{jobId}/update-status": {
            "post": {
                "tags": ["jobs"], "summary": "Append a status entry",
                "parameters": [
                    {"in": "path", "name": "jobId", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown status"}, "404": {"description": "Not found"}}
            }
        },
        "/jobs/{jobId}/assign": {
            "post": {
                "tags": ["jobs"], "summary": "Assign a job",
                "parameters": [
                    {"in": "path", "name": "jobId", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AssignJobRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid assignee"}, "404": {"description": "Not found"}}
            }
        },
        "/upload": {
            "get": {
                "tags": ["documents"], "summary": "List documents",
                "parameters": [
                    {"in": "query", "name": "documentType", "type": "string"},
                    {"in": "query", "name": "languages", "type": "string"},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "starred", "type": "boolean"},
                    {"in": "query", "name": "myDocuments", "type": "boolean"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/upload/generate-signed-url": {"post": {"tags": ["documents"], "summary": "Start a document upload", "responses": {"200": {"description": "OK"}}}},
        "/upload/save-document": {"post": {"tags": ["documents"], "summary": "Finish a document upload", "responses": {"200": {"description": "OK"}, "400": {"description": "Missing metadata"}}}},
        "/upload/get-brandtreasury/{fileId}": {"get": {"tags": ["documents"], "summary": "Get a document", "parameters": [{"in": "path", "name": "fileId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/upload/download/{fileId}": {"get": {"tags": ["documents"], "summary": "Read-signed download URL", "parameters": [{"in": "path", "name": "fileId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/upload/update-thumbnail/{fileId}": {
            "put": {
                "tags": ["documents"], "summary": "Add a thumbnail", "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "path", "name": "fileId", "type": "string", "required": true},
                    {"in": "formData", "name": "thumbnail", "type": "file", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Maximum 4 thumbnails allowed"}}
            }
        },
        "/upload/{id}/approval": {"post": {"tags": ["documents"], "summary": "Approve or unapprove a document", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/upload/{id}": {"delete": {"tags": ["documents"], "summary": "Delete a document", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/upload/delete-thumbnail": {"post": {"tags": ["documents"], "summary": "Delete a thumbnail", "responses": {"200": {"description": "OK"}, "400": {"description": "Not a thumbnail"}}}},
        "/upload/delete-document": {"post": {"tags": ["documents"], "summary": "Delete a document by body id", "responses": {"200": {"description": "OK"}}}},
        "/upload/star/{documentId}": {"patch": {"tags": ["documents"], "summary": "Star or unstar a document", "parameters": [{"in": "path", "name": "documentId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/brand-treasury": {"get": {"tags": ["documents"], "summary": "List documents", "deprecated": true, "responses": {"200": {"description": "OK"}}}},
        "/brand-treasury/{id}": {
            "get": {"tags": ["documents"], "summary": "Get a document", "deprecated": true, "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["documents"], "summary": "Update document metadata", "deprecated": true, "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["documents"], "summary": "Delete a document", "deprecated": true, "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/profile-pic/upload-profile-pic": {
            "post": {
                "tags": ["profile"], "summary": "Upload a profile picture", "consumes": ["multipart/form-data"],
                "parameters": [{"in": "formData", "name": "profilePic", "type": "file", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/profile-pic/get-profile-pic": {"get": {"tags": ["profile"], "summary": "Read-signed profile picture URL", "responses": {"200": {"description": "OK"}, "404": {"description": "No picture"}}}},
        "/profile-pic/delete-profile-pic": {"delete": {"tags": ["profile"], "summary": "Delete the profile picture", "responses": {"200": {"description": "OK"}}}},
        "/audit-logs": {
            "get": {
                "tags": ["ops"], "summary": "List audit log entries",
                "parameters": [
                    {"in": "query", "name": "actorId", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "email", "password", "userType", "designation"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "contactNumber": {"type": "string"},
                "role": {"type": "string", "enum": ["MASTER_ADMIN", "ADMIN", "MANAGER", "USER"]},
                "userType": {"type": "string", "enum": ["internal", "vendor"]},
                "designation": {"type": "string"},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "dob": {"type": "string", "format": "date-time"}
            }
        },
        "CreateJobRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "type": {"type": "string"},
                "priority": {"type": "string"},
                "offerType": {"type": "string"},
                "zone": {"type": "string"},
                "state": {"type": "string"},
                "language": {"type": "string"},
                "product": {"type": "string"},
                "brand": {"type": "string"},
                "model": {"type": "string"},
                "offerDetails": {"type": "string"},
                "otherDetails": {"type": "string"},
                "attachment": {"type": "string"},
                "dueDate": {"type": "string"},
                "assignedTo": {"type": "string"}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["Approved", "Completed", "Rejected", "Resubmitted", "Inprogress", "Hold", "Submitted"]},
                "comment": {"type": "string"},
                "attachment": {"type": "string"}
            }
        },
        "AssignJobRequest": {
            "type": "object",
            "required": ["assignedTo"],
            "properties": {"assignedTo": {"type": "string"}, "comment": {"type": "string"}}
        },
        "HistoryEntry": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "comment": {"type": "string"},
                "attachment": {"type": "string"},
                "attachmentUrl": {"type": "string"},
                "updatedBy": {"type": "object"},
                "date": {"type": "string", "format": "date-time"}
            }
        },
        "Job": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "title": {"type": "string"},
                "attachment": {"type": "string"},
                "attachmentUrl": {"type": "string"},
                "assignedTo": {"type": "object"},
                "createdBy": {"type": "object"},
                "approvedBy": {"type": "object"},
                "decisionHistory": {"type": "array", "items": {"$ref": "#/definitions/HistoryEntry"}},
                "statusHistory": {"type": "array", "items": {"$ref": "#/definitions/HistoryEntry"}},
                "finalStatus": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Catena API",
	Description:      "Users, the Brand Treasury document catalog and the job approval workflow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
