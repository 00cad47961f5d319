package api

import (
	"fmt"
	"net/http"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/driveport/driveport/internal/location"
	"github.com/gin-gonic/gin"
)

func (a *API) listLocations(c *gin.Context) {
	locations, err := a.locations.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (a *API) adminCreateLocation(c *gin.Context) {
	var in location.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errs.ErrValidation, err))
		return
	}
	l, err := a.locations.Create(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (a *API) adminUpdateLocation(c *gin.Context) {
	var in location.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errs.ErrValidation, err))
		return
	}
	l, err := a.locations.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (a *API) adminDeleteLocation(c *gin.Context) {
	if err := a.locations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
