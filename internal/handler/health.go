package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes. It checks nothing downstream: a 200
// here means only that the process is up and serving HTTP.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
