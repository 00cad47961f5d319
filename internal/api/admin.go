package api

import (
	"fmt"
	"net/http"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errs.ErrValidation, err))
		return
	}

	result, err := a.admins.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// dashboard aggregates the back-office landing numbers.
func (a *API) dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := a.reservations.CountByStatus(ctx)
	if err != nil {
		respondErr(c, err)
		return
	}
	total, err := a.reservations.TotalRevenue(ctx)
	if err != nil {
		respondErr(c, err)
		return
	}
	daily, err := a.reservations.RevenueByDay(ctx, 7)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"statusCounts": counts,
		"totalRevenue": total,
		"revenueByDay": daily,
	})
}
