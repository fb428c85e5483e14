package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stoktakip/internal/kvstore"

	"github.com/gin-gonic/gin"
)

// Health checks store connectivity; never exposes credentials or internals.
func Health(store kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storeStatus := "connected"
		if _, err := store.Get(ctx, "health:probe"); err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
			storeStatus = "error"
		}

		status := http.StatusOK
		if storeStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"store": storeStatus,
		})
	}
}
