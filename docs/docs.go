// Package docs регистрирует OpenAPI-описание API витрины для /swagger.
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
        "/products": {
            "get": {
                "description": "Поиск, фильтры, сортировка и постраничный вывод каталога",
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Каталог товаров",
                "parameters": [
                    {"type": "string", "description": "Поиск по названию и описанию", "name": "search", "in": "query"},
                    {"type": "string", "description": "Бренд или all", "name": "brand", "in": "query"},
                    {"type": "string", "description": "Класс энергоэффективности или all", "name": "efficiency", "in": "query"},
                    {"type": "string", "description": "all, under1000, 1000to2000, over2000", "name": "price", "in": "query"},
                    {"type": "string", "description": "featured, priceLow, priceHigh, rating", "name": "sort", "in": "query"},
                    {"type": "integer", "description": "Номер страницы", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CatalogPageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Добавить или обновить товар",
                "responses": {
                    "201": {"description": "Created"},
                    "200": {"description": "Без изменений"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Карточка товара",
                "parameters": [{"type": "integer", "description": "ID товара", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProductDetailsResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/products/{id}/related": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Похожие товары",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.ProductResponse"}}}}
            }
        },
        "/products/{id}/quote": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Расчет стоимости с монтажом",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "quantity", "in": "query"},
                    {"type": "string", "name": "installation", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.QuoteResponse"}}}
            }
        },
        "/services": {
            "get": {"produces": ["application/json"], "tags": ["scheduling"], "summary": "Виды работ",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.ServiceTypeResponse"}}}}}
        },
        "/technicians": {
            "get": {"produces": ["application/json"], "tags": ["scheduling"], "summary": "Мастера",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.TechnicianResponse"}}}}}
        },
        "/slots": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scheduling"],
                "summary": "Слоты на дату",
                "parameters": [
                    {"type": "string", "description": "YYYY-MM-DD", "name": "date", "in": "query", "required": true},
                    {"type": "string", "description": "ID мастера", "name": "technician", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.SlotResponse"}}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/wizard": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["wizard"], "summary": "Начать запись",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/http.WizardResponse"}}}}
        },
        "/wizard/{id}/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wizard"],
                "summary": "Подтвердить запись и оплатить",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.ConfirmRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ConfirmationResponse"}},
                    "200": {"description": "Повтор", "schema": {"$ref": "#/definitions/http.ConfirmationResponse"}},
                    "402": {"description": "Платеж отклонен", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Слот занят", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "502": {"description": "Сбой платежа", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Запись не сохранена, платеж возвращен", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/appointments": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["appointments"], "summary": "Мои записи",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.AppointmentResponse"}}}}}
        },
        "/admin/appointments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Все записи",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.AppointmentResponse"}}}}
            }
        },
        "/auth/signup": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["auth"], "summary": "Регистрация",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/http.AuthResponse"}}}}
        },
        "/auth/login": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["auth"], "summary": "Вход",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.AuthResponse"}}}}
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "http.ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "string", "example": "1299.99"},
                "rating": {"type": "number"},
                "image": {"type": "string"},
                "features": {"type": "array", "items": {"type": "string"}},
                "efficiency": {"type": "string"},
                "inStock": {"type": "boolean"},
                "category": {"type": "string"},
                "brand": {"type": "string"}
            }
        },
        "http.ProductDetailsResponse": {
            "allOf": [{"$ref": "#/definitions/http.ProductResponse"}],
            "properties": {"installationOptions": {"type": "array", "items": {"$ref": "#/definitions/http.InstallationOptionResponse"}}}
        },
        "http.InstallationOptionResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "string"}}
        },
        "http.CatalogPageResponse": {
            "type": "object",
            "properties": {
                "products": {"type": "array", "items": {"$ref": "#/definitions/http.ProductResponse"}},
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "total": {"type": "integer"},
                "from": {"type": "integer"},
                "to": {"type": "integer"},
                "empty": {"type": "boolean"},
                "brands": {"type": "array", "items": {"type": "string"}},
                "efficiencies": {"type": "array", "items": {"type": "string"}}
            }
        },
        "http.QuoteResponse": {
            "type": "object",
            "properties": {
                "productId": {"type": "integer"},
                "unitPrice": {"type": "string"},
                "quantity": {"type": "integer"},
                "subtotal": {"type": "string"},
                "installation": {"$ref": "#/definitions/http.InstallationOptionResponse"},
                "installationPrice": {"type": "string"},
                "total": {"type": "string"}
            }
        },
        "http.ServiceTypeResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "duration": {"type": "integer"}, "price": {"type": "string"}, "description": {"type": "string"}}
        },
        "http.TechnicianResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "specialization": {"type": "string"}, "rating": {"type": "number"}, "available": {"type": "boolean"}, "image": {"type": "string"}}
        },
        "http.SlotResponse": {
            "type": "object",
            "properties": {"time": {"type": "string", "example": "8:00 AM"}, "start": {"type": "string"}, "available": {"type": "boolean"}}
        },
        "http.WizardResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "step": {"type": "integer"},
                "stepName": {"type": "string"},
                "canAdvance": {"type": "boolean"},
                "draft": {"type": "object"},
                "summary": {"type": "object"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/http.SlotResponse"}}
            }
        },
        "http.ConfirmRequest": {
            "type": "object",
            "properties": {
                "payment": {
                    "type": "object",
                    "properties": {"cardNumber": {"type": "string"}, "cardholderName": {"type": "string"}, "expiry": {"type": "string", "example": "12/30"}, "cvv": {"type": "string"}}
                },
                "notes": {"type": "string"}
            }
        },
        "http.ConfirmationResponse": {
            "type": "object",
            "properties": {
                "reference": {"type": "string", "example": "APT-2G7K1Q9ZX"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "serviceType": {"type": "string"},
                "serviceName": {"type": "string"},
                "technician": {"type": "string"},
                "technicianName": {"type": "string"},
                "address": {"type": "string"},
                "price": {"type": "string"},
                "paymentReference": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "http.AppointmentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "customerName": {"type": "string"},
                "customerEmail": {"type": "string"},
                "serviceType": {"type": "string"},
                "technician": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "address": {"type": "string"},
                "price": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "http.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "string"},
                "session": {
                    "type": "object",
                    "properties": {"isLoggedIn": {"type": "boolean"}, "userRole": {"type": "string"}, "userEmail": {"type": "string"}, "userName": {"type": "string"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo метаданные API, которые подставляются в шаблон.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Aircon Storefront API",
	Description:      "Каталог кондиционеров, запись на обслуживание и оплата визита.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
