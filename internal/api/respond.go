package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/driveport/driveport/internal/common/errs"
	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes returned in the error envelope.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeMalformedTime    = "MALFORMED_TIME"
	codeSlotUnavailable  = "SLOT_UNAVAILABLE"
	codeNotFound         = "NOT_FOUND"
	codeStoreUnavailable = "STORE_UNAVAILABLE"
	codeRateLimited      = "RATE_LIMITED"
	codeUnauthorized     = "UNAUTHORIZED"
	codeForbidden        = "FORBIDDEN"
	codeInternal         = "INTERNAL"
)

// respondErr maps the shared error taxonomy onto HTTP statuses. Unknown
// errors are reported as opaque 500s.
func respondErr(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, codeInternal
	switch {
	case errors.Is(err, errs.ErrMalformedTime):
		status, code = http.StatusBadRequest, codeMalformedTime
	case errors.Is(err, errs.ErrSlotUnavailable):
		status, code = http.StatusBadRequest, codeSlotUnavailable
	case errors.Is(err, errs.ErrValidation):
		status, code = http.StatusBadRequest, codeValidation
	case errors.Is(err, errs.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, errs.ErrStoreUnavailable):
		status, code = http.StatusServiceUnavailable, codeStoreUnavailable
	}

	message := err.Error()
	if code == codeInternal {
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// parseDate parses an optional YYYY-MM-DD value in server-local time. An
// empty value yields nil, not an error.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", errs.ErrValidation, s)
	}
	return &t, nil
}
