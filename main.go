package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"placery/pkg/env"
	"placery/pkg/locator"
	"placery/pkg/logger"
	"placery/pkg/middleware"
	"placery/pkg/place"
	"placery/pkg/whttp"
)

func main() {
	logger.InitGlobalSlog("placery")

	cfg := env.LoadMapConfig()
	svc := locator.NewService(cfg, whttp.NewLoggingClient())

	slog.Info("starting placery",
		"mode", cfg.Mode,
		"amap_enabled", cfg.HasAmap(),
		"google_enabled", cfg.HasGoogle())

	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Logger(os.Getenv("DEBUG_RESPONSES") == "true"))
	r.Use(middleware.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/locations/search", searchLocation(svc))
	r.GET("/locations/nearby", searchNearby(svc))
	r.GET("/locations/reverse", reverseGeocode(svc))
	r.GET("/locations/ip", ipLocation(svc))

	var port string
	if port = os.Getenv("PORT"); port == "" {
		port = "8080"
	}

	if err := r.Run(fmt.Sprintf(":%s", port)); err != nil {
		panic(err)
	}
}

func searchLocation(svc *locator.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyword := c.Query("keyword")
		if keyword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'keyword'"})
			return
		}

		locations, err := svc.SearchLocation(c.Request.Context(), keyword, c.Query("city"), intQuery(c, "page_size", 0))
		if err != nil {
			renderError(c, err)
			return
		}

		c.JSON(http.StatusOK, locations)
	}
}

func searchNearby(svc *locator.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, lon, ok := coordQuery(c)
		if !ok {
			return
		}

		locations, err := svc.SearchNearby(c.Request.Context(), lat, lon, c.Query("keywords"), intQuery(c, "radius", 1000), intQuery(c, "page_size", 0))
		if err != nil {
			renderError(c, err)
			return
		}

		c.JSON(http.StatusOK, locations)
	}
}

func reverseGeocode(svc *locator.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, lon, ok := coordQuery(c)
		if !ok {
			return
		}

		result, err := svc.ReverseGeocode(c.Request.Context(), lat, lon)
		if err != nil {
			renderError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func ipLocation(svc *locator.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.IPLocation(c.Request.Context()))
	}
}

// renderError maps the error taxonomy to responses without leaking raw
// provider payloads to callers.
func renderError(c *gin.Context, err error) {
	var providerErr *place.ProviderError
	var networkErr *place.NetworkError

	switch {
	case errors.Is(err, locator.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &networkErr):
		slog.WarnContext(c.Request.Context(), "provider unreachable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "location service unavailable"})
	case errors.As(err, &providerErr):
		slog.WarnContext(c.Request.Context(), "provider rejected request", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "location lookup failed"})
	default:
		slog.ErrorContext(c.Request.Context(), "location lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func coordQuery(c *gin.Context) (lat, lon float64, ok bool) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameters 'lat' and 'lon' must be decimal degrees"})
		return 0, 0, false
	}
	return lat, lon, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}
