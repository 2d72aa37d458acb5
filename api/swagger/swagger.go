package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Timetable API",
        "description": "Personal timetables with custom courses and weekly time-conflict checks",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Timetables", "description": "Term-scoped timetables owned by the caller"},
        {"name": "Enrollments", "description": "Courses placed on a timetable"},
        {"name": "Courses", "description": "Catalog of enrollable courses"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses available for a term",
                "parameters": [
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "semester", "in": "query", "required": true, "type": "string", "enum": ["SPRING", "SUMMER", "FALL", "WINTER"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List my timetables",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "enum": ["SPRING", "SUMMER", "FALL", "WINTER"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Create timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{timetableId}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get timetable",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Timetables"],
                "summary": "Rename timetable",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RenameTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete timetable and its enrollments",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{timetableId}/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Download a timetable",
                "produces": ["text/calendar", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["ics", "csv", "pdf"], "default": "ics"}
                ],
                "responses": {
                    "200": {"description": "Rendered file", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{timetableId}/enrolls": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments, newest first",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrollmentListEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll an existing course",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/EnrollmentEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Time conflict or already enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{timetableId}/enrolls/custom": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Create a custom course and enroll it",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCustomCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/EnrollmentEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Time conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{timetableId}/enrolls/{enrollId}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get enrollment",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"},
                    {"name": "enrollId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrollmentEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Remove an enrollment",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"},
                    {"name": "enrollId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{timetableId}/enrolls/{enrollId}/custom": {
            "patch": {
                "tags": ["Enrollments"],
                "summary": "Partially update an enrolled custom course",
                "description": "Omitted keys are kept. null clears courseNumber, lectureNumber, credit and instructor. courseTitle and timeSlots reject null.",
                "parameters": [
                    {"name": "timetableId", "in": "path", "required": true, "type": "integer"},
                    {"name": "enrollId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CustomCoursePatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrollmentEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Course is not editable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Time conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TimeSlot": {
            "type": "object",
            "required": ["dayOfWeek", "startMinute", "endMinute"],
            "properties": {
                "dayOfWeek": {"type": "string", "enum": ["MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"]},
                "startMinute": {"type": "integer", "minimum": 0, "maximum": 1439},
                "endMinute": {"type": "integer", "minimum": 1, "maximum": 1440}
            }
        },
        "CreateTimetableRequest": {
            "type": "object",
            "required": ["name", "year", "semester"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "year": {"type": "integer"},
                "semester": {"type": "string", "enum": ["SPRING", "SUMMER", "FALL", "WINTER"]}
            }
        },
        "RenameTimetableRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 100}
            }
        },
        "CreateCustomCourseRequest": {
            "type": "object",
            "required": ["year", "semester", "courseTitle", "timeSlots"],
            "properties": {
                "year": {"type": "integer"},
                "semester": {"type": "string", "enum": ["SPRING", "SUMMER", "FALL", "WINTER"]},
                "courseTitle": {"type": "string", "maxLength": 200},
                "timeSlots": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/TimeSlot"}},
                "courseNumber": {"type": "string"},
                "lectureNumber": {"type": "string"},
                "credit": {"type": "integer", "minimum": 0},
                "instructor": {"type": "string"}
            }
        },
        "CustomCoursePatch": {
            "type": "object",
            "properties": {
                "courseTitle": {"type": "string"},
                "timeSlots": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/TimeSlot"}},
                "courseNumber": {"type": "string", "x-nullable": true},
                "lectureNumber": {"type": "string", "x-nullable": true},
                "credit": {"type": "integer", "x-nullable": true},
                "instructor": {"type": "string", "x-nullable": true}
            }
        },
        "EnrollCourseRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "integer"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "year": {"type": "integer"},
                "semester": {"type": "string"},
                "courseTitle": {"type": "string"},
                "origin": {"type": "string", "enum": ["CUSTOM", "CRAWLED"]},
                "courseNumber": {"type": "string"},
                "lectureNumber": {"type": "string"},
                "credit": {"type": "integer"},
                "instructor": {"type": "string"},
                "timeSlots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}}
            }
        },
        "Enrollment": {
            "type": "object",
            "properties": {
                "enrollId": {"type": "integer"},
                "course": {"$ref": "#/definitions/Course"}
            }
        },
        "EnrollmentEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Enrollment"}
            }
        },
        "EnrollmentListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Enrollment"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "enum": ["NOT_FOUND", "INVALID_REQUEST", "CONFLICT", "NOT_EDITABLE", "UNAUTHORIZED", "INTERNAL_ERROR"]},
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
