package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gestion Etudiants API",
        "description": "Student records: etudiants, cours, inscriptions and statistics",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Etudiants", "description": "Student registry"},
        {"name": "Cours", "description": "Course catalogue"},
        {"name": "Inscriptions", "description": "Enrollment ledger and statistics"},
        {"name": "Authentication", "description": "Optional administrator login"}
    ],
    "paths": {
        "/etudiants": {
            "get": {
                "tags": ["Etudiants"],
                "summary": "List students",
                "parameters": [
                    {"name": "nom", "in": "query", "type": "string"},
                    {"name": "prenom", "in": "query", "type": "string"},
                    {"name": "email", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/StudentWithEnrollments"}}}
                }
            },
            "post": {
                "tags": ["Etudiants"],
                "summary": "Create student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Student"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ValidationBody"}}
                }
            }
        },
        "/etudiants/{id}": {
            "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Etudiants"],
                "summary": "Get student with enrollments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentWithEnrollments"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Etudiants"],
                "summary": "Update student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Student"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ValidationBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Etudiants"],
                "summary": "Delete student and their enrollments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/etudiants/{id}/inscriptions": {
            "get": {
                "tags": ["Etudiants"],
                "summary": "List a student's enrollments",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Enrollment"}}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/etudiants/{id}/releve": {
            "get": {
                "tags": ["Etudiants"],
                "summary": "Download transcript",
                "produces": ["application/pdf"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "PDF document", "schema": {"type": "file"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/cours": {
            "get": {
                "tags": ["Cours"],
                "summary": "List courses",
                "parameters": [
                    {"name": "intitule", "in": "query", "type": "string"},
                    {"name": "professeur", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}
                }
            },
            "post": {
                "tags": ["Cours"],
                "summary": "Create course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CoursePayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Course"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ValidationBody"}}
                }
            }
        },
        "/cours/{id}": {
            "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Cours"],
                "summary": "Get course with enrollments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Course"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Cours"],
                "summary": "Update course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CoursePayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Course"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ValidationBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Cours"],
                "summary": "Delete course without enrollments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "400": {"description": "Course still has enrollments", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/cours/{id}/inscriptions": {
            "get": {
                "tags": ["Cours"],
                "summary": "List a course's enrollments",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Enrollment"}}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/inscriptions": {
            "get": {
                "tags": ["Inscriptions"],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "anneeAcademique", "in": "query", "type": "string"},
                    {"name": "semestre", "in": "query", "type": "integer"},
                    {"name": "etudiantId", "in": "query", "type": "integer"},
                    {"name": "coursId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Enrollment"}}}
                }
            },
            "post": {
                "tags": ["Inscriptions"],
                "summary": "Enroll a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/ValidationBody"}},
                    "404": {"description": "Student or course not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/inscriptions/stats": {
            "get": {
                "tags": ["Inscriptions"],
                "summary": "Enrollment statistics",
                "parameters": [{"name": "anneeAcademique", "in": "query", "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrollmentStats"}}
                }
            }
        },
        "/inscriptions/export": {
            "get": {
                "tags": ["Inscriptions"],
                "summary": "Export enrollments as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "anneeAcademique", "in": "query", "type": "string"},
                    {"name": "semestre", "in": "query", "type": "integer"},
                    {"name": "etudiantId", "in": "query", "type": "integer"},
                    {"name": "coursId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "CSV document", "schema": {"type": "file"}}
                }
            }
        },
        "/inscriptions/{id}": {
            "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "tags": ["Inscriptions"],
                "summary": "Get enrollment",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Inscriptions"],
                "summary": "Update enrollment grade",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"note": {"type": "number"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "400": {"description": "Validation", "schema": {"$ref": "#/definitions/ValidationBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Inscriptions"],
                "summary": "Delete enrollment",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "matricule": {"type": "string"},
                "nom": {"type": "string"},
                "prenom": {"type": "string"},
                "dateNaissance": {"type": "string", "format": "date-time"},
                "email": {"type": "string"},
                "telephone": {"type": "string", "x-nullable": true},
                "adresse": {"type": "string", "x-nullable": true},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "StudentWithEnrollments": {
            "allOf": [
                {"$ref": "#/definitions/Student"},
                {"type": "object", "properties": {"inscriptions": {"type": "array", "items": {"$ref": "#/definitions/Enrollment"}}}}
            ]
        },
        "StudentPayload": {
            "type": "object",
            "properties": {
                "matricule": {"type": "string"},
                "nom": {"type": "string"},
                "prenom": {"type": "string"},
                "dateNaissance": {"type": "string", "example": "2000-01-15"},
                "email": {"type": "string"},
                "telephone": {"type": "string"},
                "adresse": {"type": "string"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "code": {"type": "string"},
                "intitule": {"type": "string"},
                "description": {"type": "string", "x-nullable": true},
                "credits": {"type": "integer"},
                "professeur": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "CoursePayload": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "intitule": {"type": "string"},
                "description": {"type": "string"},
                "credits": {"type": "integer", "default": 3},
                "professeur": {"type": "string"}
            }
        },
        "Enrollment": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "etudiantId": {"type": "integer"},
                "coursId": {"type": "integer"},
                "anneeAcademique": {"type": "string", "example": "2023-2024"},
                "semestre": {"type": "integer", "enum": [1, 2]},
                "note": {"type": "number", "x-nullable": true},
                "dateInscription": {"type": "string", "format": "date-time"},
                "etudiant": {"$ref": "#/definitions/Student"},
                "cours": {"$ref": "#/definitions/Course"}
            }
        },
        "EnrollmentPayload": {
            "type": "object",
            "properties": {
                "etudiantId": {"type": "integer"},
                "coursId": {"type": "integer"},
                "anneeAcademique": {"type": "string", "example": "2023-2024"},
                "semestre": {"type": "integer", "default": 1},
                "note": {"type": "number"}
            }
        },
        "EnrollmentStats": {
            "type": "object",
            "properties": {
                "totalInscriptions": {"type": "integer"},
                "totalEtudiants": {"type": "integer"},
                "totalCours": {"type": "integer"},
                "moyenneNotes": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "coursId": {"type": "integer"},
                            "moyenne": {"type": "number"}
                        }
                    }
                }
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresIn": {"type": "integer"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "ValidationBody": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"type": "string"}}
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
