package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/driveport/driveport/internal/admin"
	"github.com/driveport/driveport/internal/api"
	"github.com/driveport/driveport/internal/booking"
	"github.com/driveport/driveport/internal/common/auth"
	"github.com/driveport/driveport/internal/common/config"
	"github.com/driveport/driveport/internal/reservation"
	"github.com/driveport/driveport/internal/vehicle"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuth = config.AuthConfig{
	JWTSecret:       "test-secret",
	Issuer:          "driveport-test",
	TokenTTLMinutes: 60,
}

func newTestRouter(t *testing.T, store *fakeStore, fleet *fakeFleet) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Auth:      testAuth,
		RateLimit: config.RateLimitConfig{Disabled: true},
	}
	availability := booking.NewAvailability(store, fleet, nil)
	admission := booking.NewAdmission(availability, store, fleet, nil)
	a := api.New(api.Deps{
		Config:       cfg,
		Availability: availability,
		Admission:    admission,
		Reservations: store,
	})
	return a.Router()
}

func defaultFleet() *fakeFleet {
	v := &vehicle.Vehicle{ID: "v1", Plate: "34ABC01", DailyPrice: 800, IsActive: true}
	return &fakeFleet{
		vehicles:   map[string]*vehicle.Vehicle{"v1": v},
		byLocation: map[string][]vehicle.Vehicle{"loc1": {*v}},
	}
}

// futureDate formats the day n days out as wire-format YYYY-MM-DD.
func futureDate(n int) string {
	return time.Now().AddDate(0, 0, n).Format("2006-01-02")
}

func futureDay(n int) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", futureDate(n), time.Local)
	return t
}

func storedReservation(id string, pickupDay, returnDay int) reservation.Reservation {
	vehicleID := "v1"
	pickup := futureDay(pickupDay)
	ret := futureDay(returnDay)
	return reservation.Reservation{
		ID:         id,
		VehicleID:  &vehicleID,
		PickupDate: &pickup, PickupTime: "10:00",
		ReturnDate: &ret, ReturnTime: "10:00",
		Email:  "ada@example.com",
		Status: reservation.StatusConfirmed,
	}
}

func doJSON(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env errEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error.Code
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := auth.GenerateAccessToken(testAuth, "a1", []string{admin.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	return token
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, defaultFleet())
	w := doJSON(r, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetAvailability(t *testing.T) {
	store := &fakeStore{reservations: []reservation.Reservation{storedReservation("r1", 10, 12)}}
	r := newTestRouter(t, store, defaultFleet())

	query := func(vehicleID string, pickupDay, returnDay int) string {
		return fmt.Sprintf("/api/availability?vehicleId=%s&pickupDate=%s&pickupTime=10:00&returnDate=%s&returnTime=10:00",
			vehicleID, futureDate(pickupDay), futureDate(returnDay))
	}

	w := doJSON(r, http.MethodGet, query("v1", 11, 13), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Available)

	w = doJSON(r, http.MethodGet, query("v1", 12, 14), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
}

func TestGetAvailabilityByLocation(t *testing.T) {
	store := &fakeStore{reservations: []reservation.Reservation{storedReservation("r1", 10, 12)}}
	r := newTestRouter(t, store, defaultFleet())

	path := fmt.Sprintf("/api/availability?locationId=loc1&pickupDate=%s&pickupTime=10:00&returnDate=%s&returnTime=10:00",
		futureDate(11), futureDate(13))
	w := doJSON(r, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Vehicles []vehicle.Vehicle `json:"vehicles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Vehicles)
}

func TestGetAvailabilityValidation(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, defaultFleet())

	// Missing returnDate.
	w := doJSON(r, http.MethodGet, "/api/availability?vehicleId=v1&pickupDate="+futureDate(1)+"&pickupTime=10:00&returnTime=10:00", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))

	// Pickup in the past.
	past := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/availability?vehicleId=v1&pickupDate=%s&pickupTime=10:00&returnDate=%s&returnTime=10:00", past, futureDate(1)), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))

	// Return before pickup.
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/availability?vehicleId=v1&pickupDate=%s&pickupTime=10:00&returnDate=%s&returnTime=10:00", futureDate(3), futureDate(1)), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed time of day.
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/availability?vehicleId=v1&pickupDate=%s&pickupTime=25:00&returnDate=%s&returnTime=10:00", futureDate(1), futureDate(3)), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MALFORMED_TIME", errCode(t, w))
}

func reservationBody(pickupDay, returnDay int) map[string]interface{} {
	return map[string]interface{}{
		"vehicleId":  "v1",
		"locationId": "loc1",
		"pickupDate": futureDate(pickupDay), "pickupTime": "10:00",
		"returnDate": futureDate(returnDay), "returnTime": "10:00",
		"firstName": "Ada", "lastName": "Yilmaz",
		"email": "ada@example.com", "phone": "+905551112233", "idNumber": "12345678901",
	}
}

func TestCreateReservation(t *testing.T) {
	store := &fakeStore{reservations: []reservation.Reservation{storedReservation("r1", 10, 12)}}
	r := newTestRouter(t, store, defaultFleet())

	w := doJSON(r, http.MethodPost, "/api/reservations", reservationBody(11, 13), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SLOT_UNAVAILABLE", errCode(t, w))

	w = doJSON(r, http.MethodPost, "/api/reservations", reservationBody(12, 14), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created reservation.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, reservation.StatusPending, created.Status)
	assert.Equal(t, 1600.0, created.TotalPrice)

	// Confirmation lookup round-trips.
	w = doJSON(r, http.MethodGet, "/api/reservations/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/reservations/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errCode(t, w))
}

func TestListReservationsByEmail(t *testing.T) {
	store := &fakeStore{reservations: []reservation.Reservation{storedReservation("r1", 10, 12)}}
	r := newTestRouter(t, store, defaultFleet())

	w := doJSON(r, http.MethodGet, "/api/reservations/by-email?email=ada@example.com", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Reservations []reservation.Reservation `json:"reservations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Reservations, 1)

	w = doJSON(r, http.MethodGet, "/api/reservations/by-email", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAuth(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, defaultFleet())

	w := doJSON(r, http.MethodGet, "/api/admin/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	viewer, _, err := auth.GenerateAccessToken(testAuth, "u1", []string{"viewer"}, time.Hour)
	require.NoError(t, err)
	w = doJSON(r, http.MethodGet, "/api/admin/dashboard", nil, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/api/admin/dashboard", nil, adminToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminCreateReservationBypassesGuard(t *testing.T) {
	store := &fakeStore{reservations: []reservation.Reservation{storedReservation("r1", 10, 12)}}
	r := newTestRouter(t, store, defaultFleet())

	w := doJSON(r, http.MethodPost, "/api/admin/reservations", reservationBody(11, 13), adminToken(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created reservation.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, reservation.StatusConfirmed, created.Status)
}

func TestAdminPatchReservation(t *testing.T) {
	store := &fakeStore{reservations: []reservation.Reservation{storedReservation("r1", 10, 12)}}
	r := newTestRouter(t, store, defaultFleet())

	w := doJSON(r, http.MethodPatch, "/api/admin/reservations/r1", map[string]interface{}{"status": "CANCELLED"}, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated reservation.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, reservation.StatusCancelled, updated.Status)

	// COMPLETED after CANCELLED violates the transition table.
	w = doJSON(r, http.MethodPatch, "/api/admin/reservations/r1", map[string]interface{}{"status": "COMPLETED"}, adminToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminDeleteReservation(t *testing.T) {
	store := &fakeStore{reservations: []reservation.Reservation{storedReservation("r1", 10, 12)}}
	r := newTestRouter(t, store, defaultFleet())

	w := doJSON(r, http.MethodDelete, "/api/admin/reservations/r1", nil, adminToken(t))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/admin/reservations/r1", nil, adminToken(t))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
