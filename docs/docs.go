// Package docs is generated by swaggo/swag from the handler annotations.
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
        "/admin/postgres/tables": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List database tables",
                "parameters": [
                    {"type": "boolean", "description": "Include row counts", "name": "include_counts", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal server error", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/postgres/tables/{table}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Sample rows of a table",
                "parameters": [
                    {"type": "string", "description": "Table name", "name": "table", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum rows (1-100, default 20)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}},
                    "404": {"description": "Table not found", "schema": {"type": "string"}},
                    "500": {"description": "Internal server error", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/sync": {
            "post": {
                "description": "Fetches the upstream listing and stores one snapshot per coin",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Trigger a market snapshot sync",
                "parameters": [
                    {"description": "Sync options", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/handlers.SyncRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.SyncResponse"}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}},
                    "502": {"description": "Sync failed", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/sync-series": {
            "post": {
                "description": "Replaces the stored price series of the selected coins (all coins by default)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Trigger a historical series sync",
                "parameters": [
                    {"description": "Sync options; days falls back to per_page, then pages, then 90", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/handlers.SyncRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.SyncResponse"}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}},
                    "502": {"description": "Sync failed", "schema": {"type": "string"}}
                }
            }
        },
        "/analysis/{symbol}": {
            "get": {
                "description": "Price statistics and trend over the stored snapshots of a symbol",
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Analyse a symbol",
                "parameters": [
                    {"type": "string", "description": "Coin symbol (e.g., BTC)", "name": "symbol", "in": "path", "required": true},
                    {"type": "string", "description": "Quote currency (default usd)", "name": "vs", "in": "query"},
                    {"type": "integer", "description": "Window in days (1-90, default 7)", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisResult"}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}},
                    "404": {"description": "Not found", "schema": {"type": "string"}},
                    "500": {"description": "Internal server error", "schema": {"type": "string"}},
                    "503": {"description": "No fresh data", "schema": {"type": "string"}}
                }
            }
        },
        "/coin/{coin_id}": {
            "get": {
                "description": "Stored coin metadata, latest metrics and price series. days <= 0 returns the whole history.",
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "Get coin detail",
                "parameters": [
                    {"type": "string", "description": "CoinGecko coin id", "name": "coin_id", "in": "path", "required": true},
                    {"type": "string", "description": "Quote currency (default usd)", "name": "vs", "in": "query"},
                    {"type": "string", "description": "Series window in days (default 7)", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CoinDetail"}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}},
                    "404": {"description": "Not found", "schema": {"type": "string"}},
                    "502": {"description": "Read failed", "schema": {"type": "string"}},
                    "503": {"description": "No fresh data", "schema": {"$ref": "#/definitions/handlers.notSyncedResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports upstream API reachability and database connectivity. Always 200.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/prices": {
            "get": {
                "description": "Latest stored snapshot of every coin, largest market cap first, with 24h/7d KPIs",
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "List latest prices",
                "parameters": [
                    {"type": "string", "description": "Quote currency (default usd)", "name": "vs", "in": "query"},
                    {"type": "integer", "description": "Results per page (1-250, default 50)", "name": "per_page", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PriceItem"}}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}},
                    "502": {"description": "Read failed", "schema": {"type": "string"}},
                    "503": {"description": "No fresh data", "schema": {"$ref": "#/definitions/handlers.notSyncedResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.notSyncedResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "last_snapshot_at": {"type": "string"}
            }
        },
        "handlers.SyncRequest": {
            "type": "object",
            "properties": {
                "coin_id": {"type": "string"},
                "coin_ids": {"type": "array", "items": {"type": "string"}},
                "days": {"type": "integer"},
                "pages": {"type": "integer"},
                "per_page": {"type": "integer"},
                "vs_currency": {"type": "string"}
            }
        },
        "models.AnalysisResult": {
            "type": "object",
            "properties": {
                "average_price": {"type": "number"},
                "change_24h": {"type": "number"},
                "change_7d": {"type": "number"},
                "last_price": {"type": "number"},
                "last_updated": {"type": "string"},
                "max_price": {"type": "number"},
                "min_price": {"type": "number"},
                "period_days": {"type": "integer"},
                "sample_size": {"type": "integer"},
                "symbol": {"type": "string"},
                "trend": {"type": "string"},
                "variation_pct": {"type": "number"},
                "volatility": {"type": "number"},
                "vs_currency": {"type": "string"}
            }
        },
        "models.CoinDetail": {
            "type": "object",
            "properties": {
                "ath": {"type": "number"},
                "current_price": {"type": "number"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "market_cap": {"type": "number"},
                "market_cap_rank": {"type": "integer"},
                "nombre": {"type": "string"},
                "price_change_percentage_1h": {"type": "number"},
                "price_change_percentage_24h": {"type": "number"},
                "price_change_percentage_7d": {"type": "number"},
                "prices_series": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "symbol": {"type": "string"},
                "total_volume": {"type": "number"}
            }
        },
        "models.PriceItem": {
            "type": "object",
            "properties": {
                "ath": {"type": "number"},
                "current_price": {"type": "number"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "kpis": {"$ref": "#/definitions/models.PriceKPIs"},
                "last_snapshot_at": {"type": "string"},
                "market_cap": {"type": "number"},
                "market_cap_rank": {"type": "integer"},
                "nombre": {"type": "string"},
                "price_change_percentage_1h": {"type": "number"},
                "price_change_percentage_24h": {"type": "number"},
                "price_change_percentage_7d": {"type": "number"},
                "symbol": {"type": "string"},
                "total_volume": {"type": "number"},
                "vs_currency": {"type": "string"}
            }
        },
        "models.PriceKPIs": {
            "type": "object",
            "properties": {
                "avg_price_24h": {"type": "number"},
                "avg_price_7d": {"type": "number"},
                "max_price_7d": {"type": "number"},
                "min_price_7d": {"type": "number"},
                "volatility_7d": {"type": "number"},
                "volume_market_cap_ratio": {"type": "number"}
            }
        },
        "models.SyncResponse": {
            "type": "object",
            "properties": {
                "coin_ids": {"type": "array", "items": {"type": "string"}},
                "coins": {"type": "integer"},
                "pages": {"type": "integer"},
                "per_page": {"type": "integer"},
                "processed": {"type": "integer"},
                "synced_at": {"type": "string"},
                "vs_currency": {"type": "string"}
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
	Title:            "MonitorCrypto Market Data API",
	Description:      "Stores CoinGecko market snapshots and price series and serves them with KPIs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
