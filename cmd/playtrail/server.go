package main

import (
	"net/http"

	"playtrail/internal/app/plays"
	"playtrail/internal/http/middleware"
	"playtrail/internal/httpapi"
	"playtrail/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	playSvc := plays.New(dataStore)

	handler := httpapi.New(playSvc).Routes()
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)

	return handler
}
