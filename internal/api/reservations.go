package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/driveport/driveport/internal/booking"
	"github.com/driveport/driveport/internal/common/errs"
	"github.com/driveport/driveport/internal/reservation"
	"github.com/gin-gonic/gin"
)

// reservationPayload is the wire form of a booking request. Dates travel as
// YYYY-MM-DD strings and are parsed here; times stay "HH:MM" strings all the
// way down.
type reservationPayload struct {
	VehicleID  string `json:"vehicleId"`
	LocationID string `json:"locationId"`
	PickupDate string `json:"pickupDate"`
	PickupTime string `json:"pickupTime"`
	ReturnDate string `json:"returnDate"`
	ReturnTime string `json:"returnTime"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IDNumber  string `json:"idNumber"`
	Notes     string `json:"notes"`

	Deposit       float64  `json:"deposit"`
	OverridePrice *float64 `json:"overridePrice"`
	Status        string   `json:"status"`
}

func (p reservationPayload) toRequest() (booking.ReservationRequest, error) {
	pickupDate, err := parseDate(p.PickupDate)
	if err != nil {
		return booking.ReservationRequest{}, err
	}
	returnDate, err := parseDate(p.ReturnDate)
	if err != nil {
		return booking.ReservationRequest{}, err
	}
	return booking.ReservationRequest{
		VehicleID:     p.VehicleID,
		LocationID:    p.LocationID,
		PickupDate:    pickupDate,
		PickupTime:    p.PickupTime,
		ReturnDate:    returnDate,
		ReturnTime:    p.ReturnTime,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		Phone:         p.Phone,
		IDNumber:      p.IDNumber,
		Notes:         p.Notes,
		Deposit:       p.Deposit,
		OverridePrice: p.OverridePrice,
		Status:        reservation.Status(p.Status),
	}, nil
}

func (a *API) createReservation(c *gin.Context) {
	a.admitReservation(c, booking.Actor{})
}

func (a *API) adminCreateReservation(c *gin.Context) {
	a.admitReservation(c, actorFrom(c))
}

func (a *API) admitReservation(c *gin.Context, actor booking.Actor) {
	var payload reservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errs.ErrValidation, err))
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		respondErr(c, err)
		return
	}

	res, err := a.admission.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (a *API) getReservation(c *gin.Context) {
	res, err := a.admission.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *API) listReservationsByEmail(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		respondErr(c, fmt.Errorf("%w: email is required", errs.ErrValidation))
		return
	}

	reservations, err := a.reservations.ListByEmail(c.Request.Context(), email)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

func (a *API) adminListReservations(c *gin.Context) {
	status := reservation.Status(strings.TrimSpace(c.Query("status")))
	if status != "" && !reservation.ValidStatus(status) {
		respondErr(c, fmt.Errorf("%w: invalid status %q", errs.ErrValidation, status))
		return
	}
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	reservations, total, err := a.reservations.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations, "total": total})
}

// reservationPatchPayload mirrors booking.ReservationPatch with wire-format
// dates. Absent fields stay untouched.
type reservationPatchPayload struct {
	Status     *string `json:"status"`
	Notes      *string `json:"notes"`
	PickupDate *string `json:"pickupDate"`
	PickupTime *string `json:"pickupTime"`
	ReturnDate *string `json:"returnDate"`
	ReturnTime *string `json:"returnTime"`
}

func (p reservationPatchPayload) toPatch() (booking.ReservationPatch, error) {
	patch := booking.ReservationPatch{
		Notes:      p.Notes,
		PickupTime: p.PickupTime,
		ReturnTime: p.ReturnTime,
	}
	if p.Status != nil {
		status := reservation.Status(*p.Status)
		patch.Status = &status
	}
	if p.PickupDate != nil {
		d, err := parseDate(*p.PickupDate)
		if err != nil {
			return booking.ReservationPatch{}, err
		}
		if d == nil {
			return booking.ReservationPatch{}, fmt.Errorf("%w: pickupDate must not be empty", errs.ErrValidation)
		}
		patch.PickupDate = d
	}
	if p.ReturnDate != nil {
		d, err := parseDate(*p.ReturnDate)
		if err != nil {
			return booking.ReservationPatch{}, err
		}
		if d == nil {
			return booking.ReservationPatch{}, fmt.Errorf("%w: returnDate must not be empty", errs.ErrValidation)
		}
		patch.ReturnDate = d
	}
	return patch, nil
}

func (a *API) adminPatchReservation(c *gin.Context) {
	var payload reservationPatchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errs.ErrValidation, err))
		return
	}
	patch, err := payload.toPatch()
	if err != nil {
		respondErr(c, err)
		return
	}

	res, err := a.admission.Update(c.Request.Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *API) adminDeleteReservation(c *gin.Context) {
	id := c.Param("id")
	if _, err := a.admission.Get(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	if err := a.reservations.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// actorFrom builds the trusted actor for admin-group handlers; AdminAuth has
// already verified the token and role.
func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{AdminID: c.GetString(ContextAdminID), IsAdmin: true}
}
