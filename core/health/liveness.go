package health

import (
	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/response"
)

// Liveness reports that the process is up. It checks no dependencies.
func Liveness[C handler.Context](C) handler.Response {
	return response.JSON(Report{Status: StatusAlive})
}

// NoContent answers 204 with no body.
func NoContent[C handler.Context](C) handler.Response {
	return response.NoContent()
}
