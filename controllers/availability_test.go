package controllers_test

import (
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwell/docwell-backend/models"
)

func windowBody(day int, start, end string) map[string]any {
	return map[string]any{"day_of_week": day, "start_time": start, "end_time": end}
}

func TestCreateWindow_Valid(t *testing.T) {
	app, gdb := newTestApp(t)
	doctor := createUser(t, gdb, "Dr Asha", models.RoleDoctor)
	token := signToken(t, doctor)

	resp, payload := doJSON(t, app, "POST", "/doctors/availability", token, windowBody(1, "09:00", "12:00"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "09:00", payload["start_time"])
	assert.Equal(t, "12:00", payload["end_time"])
	assert.Equal(t, float64(1), payload["day_of_week"])
}

func TestCreateWindow_Validation(t *testing.T) {
	app, gdb := newTestApp(t)
	doctor := createUser(t, gdb, "Dr Asha", models.RoleDoctor)
	token := signToken(t, doctor)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing day", map[string]any{"start_time": "09:00", "end_time": "12:00"}},
		{"day out of range", windowBody(7, "09:00", "12:00")},
		{"inverted window", windowBody(1, "12:00", "09:00")},
		{"zero-length window", windowBody(1, "09:00", "09:00")},
		{"malformed time", windowBody(1, "9am", "12:00")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, payload := doJSON(t, app, "POST", "/doctors/availability", token, tc.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INVALID_WINDOW", errorCode(payload))
		})
	}
}

func TestCreateWindow_OverlapRejected(t *testing.T) {
	app, gdb := newTestApp(t)
	doctor := createUser(t, gdb, "Dr Asha", models.RoleDoctor)
	token := signToken(t, doctor)

	resp, _ := doJSON(t, app, "POST", "/doctors/availability", token, windowBody(1, "09:00", "12:00"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, payload := doJSON(t, app, "POST", "/doctors/availability", token, windowBody(1, "11:00", "14:00"))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "WINDOW_OVERLAP", errorCode(payload))

	// back-to-back is fine
	resp, _ = doJSON(t, app, "POST", "/doctors/availability", token, windowBody(1, "12:00", "14:00"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateWindow_PatientForbidden(t *testing.T) {
	app, gdb := newTestApp(t)
	patient := createUser(t, gdb, "Ravi", models.RolePatient)
	token := signToken(t, patient)

	resp, _ := doJSON(t, app, "POST", "/doctors/availability", token, windowBody(1, "09:00", "12:00"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDeleteWindow_OnlyOwner(t *testing.T) {
	app, gdb := newTestApp(t)
	owner := createUser(t, gdb, "Dr Asha", models.RoleDoctor)
	other := createUser(t, gdb, "Dr Binay", models.RoleDoctor)

	resp, payload := doJSON(t, app, "POST", "/doctors/availability", signToken(t, owner), windowBody(2, "09:00", "12:00"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id := int(payload["id"].(float64))

	resp, _ = doJSON(t, app, "DELETE", windowPath(id), signToken(t, other), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", windowPath(id), signToken(t, owner), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func windowPath(id int) string {
	return "/doctors/availability/" + strconv.Itoa(id)
}
