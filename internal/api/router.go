package api

import (
	"net/http"

	"github.com/driveport/driveport/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with the public and admin route groups.
func (a *API) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(Recovery(a.log), AccessLog(a.log), Tracing())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var limiter middleware.RateLimiter
	if rl := a.cfg.RateLimit; !rl.Disabled && rl.Capacity > 0 {
		limiter = middleware.NewTokenBucket(rl.Capacity, rl.PerSecond)
	}

	pub := r.Group("/api")
	pub.Use(RateLimit(limiter))
	{
		pub.GET("/availability", a.getAvailability)
		pub.GET("/vehicles", a.listVehicles)
		pub.GET("/vehicles/:id", a.getVehicle)
		pub.GET("/locations", a.listLocations)
		pub.POST("/reservations", a.createReservation)
		pub.GET("/reservations/by-email", a.listReservationsByEmail)
		pub.GET("/reservations/:id", a.getReservation)
		pub.POST("/login", a.login)
	}

	adm := r.Group("/api/admin")
	adm.Use(AdminAuth(a.cfg.Auth))
	{
		adm.GET("/vehicles", a.adminListVehicles)
		adm.POST("/vehicles", a.adminCreateVehicle)
		adm.PUT("/vehicles/:id", a.adminUpdateVehicle)
		adm.DELETE("/vehicles/:id", a.adminDeleteVehicle)

		adm.GET("/locations", a.listLocations)
		adm.POST("/locations", a.adminCreateLocation)
		adm.PUT("/locations/:id", a.adminUpdateLocation)
		adm.DELETE("/locations/:id", a.adminDeleteLocation)

		adm.GET("/reservations", a.adminListReservations)
		adm.GET("/reservations/:id", a.getReservation)
		adm.POST("/reservations", a.adminCreateReservation)
		adm.PATCH("/reservations/:id", a.adminPatchReservation)
		adm.DELETE("/reservations/:id", a.adminDeleteReservation)

		adm.GET("/dashboard", a.dashboard)
	}

	return r
}
