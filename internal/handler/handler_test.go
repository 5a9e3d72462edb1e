package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/publicpulse/publicpulse-api/internal/config"
	"github.com/publicpulse/publicpulse-api/internal/handler"
	"github.com/publicpulse/publicpulse-api/internal/middleware"
	"github.com/publicpulse/publicpulse-api/internal/models"
	"github.com/publicpulse/publicpulse-api/internal/repository"
	"github.com/publicpulse/publicpulse-api/internal/router"
	"github.com/publicpulse/publicpulse-api/internal/service"
	"github.com/publicpulse/publicpulse-api/pkg/localfs"
)

const testSecret = "handler-test-secret"

// newTestApp wires the full route table against an in-memory database, the
// same way cmd/api does.
func newTestApp(t *testing.T, dbName string) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Issue{}, &models.Contact{}, &models.ReportLog{}, &models.Admin{}))

	uploadDir := t.TempDir()
	storage, err := localfs.New(uploadDir, zerolog.Nop())
	require.NoError(t, err)

	validate := validator.New()
	logger := zerolog.Nop()

	issueRepo := repository.NewIssueRepository(db)
	contactRepo := repository.NewContactRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	reportLogRepo := repository.NewReportLogRepository(db)

	issueService := service.NewIssueService(issueRepo, reportLogRepo, storage, validate, 16, logger)
	contactService := service.NewContactService(contactRepo, validate, logger)
	adminService := service.NewAdminService(adminRepo, validate, logger)
	reportLogService := service.NewReportLogService(reportLogRepo, logger)

	cfg := config.Config{
		AppName:       "PublicPulse API",
		AppEnv:        "test",
		SessionSecret: testSecret,
		SessionTTL:    time.Hour,
		UploadDir:     uploadDir,
		MaxUploadMB:   16,
	}

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		IssueHandler:     handler.NewIssueHandler(issueService, logger),
		ContactHandler:   handler.NewContactHandler(contactService, logger),
		AdminHandler:     handler.NewAdminHandler(adminService, testSecret, time.Hour, logger),
		ReportLogHandler: handler.NewReportLogHandler(reportLogService, logger),
		SessionGate:      middleware.SessionProtected(testSecret),
	})

	return app, db
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(method, target string, values map[string]string) *http.Request {
	form := make([]string, 0, len(values))
	for key, value := range values {
		form = append(form, key+"="+value)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(strings.Join(form, "&")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, photoName string, photo []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if photoName != "" {
		part, err := writer.CreateFormFile("photo", photoName)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func pngBytes() []byte {
	return []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
}
