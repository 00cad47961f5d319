package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/driveport/driveport/internal/booking"
	"github.com/driveport/driveport/internal/common/errs"
	"github.com/gin-gonic/gin"
)

// getAvailability answers the search form. With vehicleId set it reports a
// single yes/no; otherwise it lists the free vehicles at the branch.
func (a *API) getAvailability(c *gin.Context) {
	vehicleID := strings.TrimSpace(c.Query("vehicleId"))
	locationID := strings.TrimSpace(c.Query("locationId"))
	if vehicleID == "" && locationID == "" {
		respondErr(c, fmt.Errorf("%w: vehicleId or locationId is required", errs.ErrValidation))
		return
	}

	w, err := queryWindow(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !w.Return.After(w.Pickup) {
		respondErr(c, fmt.Errorf("%w: return must be after pickup", errs.ErrValidation))
		return
	}
	if w.Pickup.Before(time.Now()) {
		respondErr(c, fmt.Errorf("%w: pickup must be in the future", errs.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	if vehicleID != "" {
		free, err := a.availability.IsVehicleAvailable(ctx, vehicleID, w, "")
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"available": free})
		return
	}

	vehicles, err := a.availability.FindAvailableVehicles(ctx, locationID, w)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// queryWindow builds the requested window from the four date/time query
// parameters, all of which are required.
func queryWindow(c *gin.Context) (booking.Window, error) {
	for _, p := range []string{"pickupDate", "pickupTime", "returnDate", "returnTime"} {
		if strings.TrimSpace(c.Query(p)) == "" {
			return booking.Window{}, fmt.Errorf("%w: %s is required", errs.ErrValidation, p)
		}
	}

	pickupDate, err := parseDate(c.Query("pickupDate"))
	if err != nil {
		return booking.Window{}, err
	}
	returnDate, err := parseDate(c.Query("returnDate"))
	if err != nil {
		return booking.Window{}, err
	}

	pickup, err := booking.CombineDateTime(*pickupDate, strings.TrimSpace(c.Query("pickupTime")))
	if err != nil {
		return booking.Window{}, err
	}
	ret, err := booking.CombineDateTime(*returnDate, strings.TrimSpace(c.Query("returnTime")))
	if err != nil {
		return booking.Window{}, err
	}
	return booking.Window{Pickup: pickup, Return: ret}, nil
}
