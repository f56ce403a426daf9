package httpapi

import (
	"net/http"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/httpjson"
)

// handleOpenAPI renvoie une spec OpenAPI minimale pour cadrer l'API.
// Elle sera enrichie au fil des jalons.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	jsonOK := func(schemaRef string) map[string]any {
		return map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": schemaRef},
				},
			},
		}
	}

	jsonErr := map[string]any{
		"description": "Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}

	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "AAT API",
			"version": "v1",
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
					},
					"required": []any{"error"},
				},
				"Countdown": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text":             map[string]any{"type": "string"},
						"urgent":           map[string]any{"type": "boolean"},
						"finished":         map[string]any{"type": "boolean"},
						"secondsRemaining": map[string]any{"type": "integer"},
					},
				},
				"LinkRecord": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"externalId":    map[string]any{"type": "integer"},
						"title":         map[string]any{"type": "string"},
						"freeLinks":     map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
						"officialLinks": map[string]any{"type": "array"},
						"error":         map[string]any{"type": "string"},
					},
				},
				"Settings": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"anilistToken": map[string]any{"type": "string"},
						"notifications": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"enabled":             map[string]any{"type": "boolean"},
								"notifyMinutesBefore": map[string]any{"type": "integer", "enum": []any{1, 5, 15, 30, 60}},
								"optedInTitles":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							},
						},
					},
				},
			},
		},
		"paths": map[string]any{
			"/api/v1/health": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}},
			},
			"/api/v1/airing": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}},
			},
			"/api/v1/airing/refresh": map[string]any{
				"post": map[string]any{"responses": map[string]any{"202": map[string]any{"description": "Accepted"}, "502": jsonErr}},
			},
			"/api/v1/streaming/{externalId}": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/LinkRecord"), "400": jsonErr}},
			},
			"/api/v1/calendar.ics": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "iCalendar file"}, "404": jsonErr}},
			},
			"/api/v1/settings": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/Settings")}},
				"put": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/Settings"), "400": jsonErr}},
			},
			"/api/v1/settings/notifications/enable": map[string]any{
				"post": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/Settings"), "403": jsonErr}},
			},
			"/api/v1/events": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "SSE stream"}}},
			},
		},
	}

	httpjson.Write(w, http.StatusOK, spec)
}
