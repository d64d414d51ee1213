package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docwell/docwell-backend/controllers"
	"github.com/docwell/docwell-backend/db"
	"github.com/docwell/docwell-backend/models"
	"github.com/docwell/docwell-backend/routes"
	"github.com/docwell/docwell-backend/scheduler"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	app := fiber.New()
	routes.Setup(app, routes.Deps{
		Auth:         &controllers.AuthController{DB: gdb, JWTSecret: testSecret},
		Doctor:       &controllers.DoctorController{DB: gdb, Now: time.Now},
		Availability: &controllers.AvailabilityController{DB: gdb},
		Appointment:  &controllers.AppointmentController{DB: gdb, Sched: scheduler.New(gdb)},
		JWTSecret:    testSecret,
	})
	return app, gdb
}

func createUser(t *testing.T, gdb *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s-%s@example.com", strings.ReplaceAll(t.Name(), "/", "_"), strings.ReplaceAll(name, " ", "-")),
		Role:  role,
	}
	require.NoError(t, gdb.Create(user).Error)
	if role == models.RoleDoctor {
		require.NoError(t, gdb.Create(&models.DoctorProfile{UserID: user.ID, TimeZone: "UTC"}).Error)
	}
	return user
}

func signToken(t *testing.T, user *models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func errorCode(payload map[string]any) string {
	detail, _ := payload["error"].(map[string]any)
	code, _ := detail["code"].(string)
	return code
}
