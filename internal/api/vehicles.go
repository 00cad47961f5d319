package api

import (
	"fmt"
	"net/http"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/driveport/driveport/internal/vehicle"
	"github.com/gin-gonic/gin"
)

// listVehicles is the public catalogue: active vehicles only.
func (a *API) listVehicles(c *gin.Context) {
	vehicles, err := a.vehicles.List(c.Request.Context(), true)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (a *API) getVehicle(c *gin.Context) {
	v, err := a.vehicles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// adminListVehicles includes deactivated vehicles.
func (a *API) adminListVehicles(c *gin.Context) {
	vehicles, err := a.vehicles.List(c.Request.Context(), false)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (a *API) adminCreateVehicle(c *gin.Context) {
	var in vehicle.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errs.ErrValidation, err))
		return
	}
	v, err := a.vehicles.Create(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (a *API) adminUpdateVehicle(c *gin.Context) {
	var in vehicle.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errs.ErrValidation, err))
		return
	}
	v, err := a.vehicles.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (a *API) adminDeleteVehicle(c *gin.Context) {
	if err := a.vehicles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
