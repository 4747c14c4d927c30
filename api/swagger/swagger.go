package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HR Admin API",
        "description": "HR administration backend: org structure, employees and period-scoped evaluations",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Session lifecycle"},
        {"name": "Departments", "description": "Organizational unit tree"},
        {"name": "Positions", "description": "Job titles"},
        {"name": "Levels", "description": "Seniority labels"},
        {"name": "Employees", "description": "Employee master data and associations"},
        {"name": "Periods", "description": "Evaluation periods"},
        {"name": "Attendance", "description": "Per-period attendance counters"},
        {"name": "Templates", "description": "Evaluation form definitions"},
        {"name": "Evaluations", "description": "Scored evaluations and exports"}
    ],
    "paths": {
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Open a session",
                "responses": {
                    "200": {"description": "Session token and profile"},
                    "422": {"description": "Invalid credentials"}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the current session",
                "responses": {
                    "200": {"description": "Logged out"}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current session's employee profile",
                "responses": {
                    "200": {"description": "Employee profile"}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Departments"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Departments"],
                "summary": "Create department",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Create employee",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/evaluations": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "List evaluations",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Evaluations"],
                "summary": "Create evaluation",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Duplicate evaluation for the period"}
                }
            }
        },
        "/evaluations/{id}/export": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "Export an evaluation as PDF",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "PDF document"}}
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
