// Package docs содержит описание HTTP API в формате Swagger 2.0 для /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Регистрация пользователя",
                "parameters": [
                    {
                        "description": "Email и пароль",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/signup.Request"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Email уже зарегистрирован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/signin": {
            "post": {
                "description": "Проверяет email и пароль, возвращает JWT сессии.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Вход пользователя",
                "parameters": [
                    {
                        "description": "Учетные данные",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/signin.Request"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/response.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/models.Session"}}}
                            ]
                        }
                    },
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/signout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Отзывает текущий токен до окончания срока его действия.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Выход",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Токен недействителен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/records": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Возвращает записи владельца со статусом срочности: все, в пределах 6 месяцев или по дате истечения.",
                "produces": ["application/json"],
                "tags": ["Records"],
                "summary": "Список партий",
                "parameters": [
                    {
                        "enum": ["all", "near-expiry", "by-expiry"],
                        "type": "string",
                        "default": "all",
                        "description": "all | near-expiry | by-expiry",
                        "name": "view",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/response.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/list.Result"}}}
                            ]
                        }
                    },
                    "401": {"description": "Нет сессии", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Неизвестное представление", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "503": {"description": "Хранилище недоступно", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Проверяет и сохраняет запись. Дата истечения принимается в свободной форме и приводится к YYYY-MM-DD.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Records"],
                "summary": "Добавить партию",
                "parameters": [
                    {
                        "description": "Название, количество, дата истечения",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/intake.Candidate"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/response.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/records.Record"}}}
                            ]
                        }
                    },
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Нет сессии", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "503": {"description": "Хранилище недоступно", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/records/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "CSV с колонками product_name, quantity, expiry_date, status для выбранного представления.",
                "produces": ["text/csv"],
                "tags": ["Records"],
                "summary": "Скачать отчет NAFDAC",
                "parameters": [
                    {
                        "enum": ["all", "near-expiry", "by-expiry"],
                        "type": "string",
                        "default": "all",
                        "description": "all | near-expiry | by-expiry",
                        "name": "view",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "401": {"description": "Нет сессии", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Неизвестное представление", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "503": {"description": "Хранилище недоступно", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "intake.Candidate": {
            "type": "object",
            "required": ["expiry_date", "product_name"],
            "properties": {
                "expiry_date": {"type": "string", "example": "2025-03-16"},
                "product_name": {"type": "string", "maxLength": 200, "example": "Amoxicillin"},
                "quantity": {"type": "integer", "minimum": 1, "example": 5}
            }
        },
        "list.Result": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "No products expiring within 6 months."},
                "records": {"type": "array", "items": {"$ref": "#/definitions/records.Classified"}},
                "view": {"type": "string", "example": "near-expiry"}
            }
        },
        "models.Session": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "expires_at": {"type": "string"},
                "token": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "records.Classified": {
            "type": "object",
            "properties": {
                "days_to_expiry": {"type": "integer", "example": 10},
                "expiry_date": {"type": "string", "example": "2025-01-25"},
                "id": {"type": "string"},
                "product_name": {"type": "string", "example": "Paracetamol 500mg"},
                "quantity": {"type": "integer", "example": 10},
                "status": {"type": "string", "example": "URGENT"},
                "status_label": {"type": "string", "example": "Urgent: <1 month"}
            }
        },
        "records.Record": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "expiry_date": {"type": "string", "example": "2025-01-25"},
                "id": {"type": "string", "example": "5b0c3e7e-8f7a-4d43-9a53-0a3f4bb1d0a1"},
                "product_name": {"type": "string", "example": "Paracetamol 500mg"},
                "quantity": {"type": "integer", "example": 10}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid request body"},
                "status": {"type": "string", "example": "Error"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "signin.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "owner@pharmacy.ng"},
                "password": {"type": "string", "example": "secret123"}
            }
        },
        "signup.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "owner@pharmacy.ng"},
                "password": {"type": "string", "maxLength": 72, "minLength": 6, "example": "secret123"}
            }
        }
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

// SwaggerInfo содержит экспортируемую информацию о Swagger, которую можно изменять при запуске.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Pharmacy Expiry Tracker API",
	Description:      "API для учета сроков годности партий в аптеке и выгрузки отчетов NAFDAC",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
