package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/publicpulse/publicpulse-api/internal/dto"
)

func TestSubmitContact(t *testing.T) {
	app, db := newTestApp(t, "handler_contact")

	resp, err := app.Test(formRequest(http.MethodPost, "/api/contact", map[string]string{
		"name":    "Rina",
		"email":   "rina@example.com",
		"message": "The+park+gate+is+broken",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "ok", body["status"])

	var count int64
	require.NoError(t, db.Table("contacts").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSubmitContactValidation(t *testing.T) {
	app, _ := newTestApp(t, "handler_contact_validation")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/contact", map[string]string{
		"name": "Rina",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "name,email,message required", body["error"])
}

func TestAdminListContacts(t *testing.T) {
	app, _ := newTestApp(t, "handler_contact_admin")

	for _, message := range []string{"first", "second"} {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/contact", map[string]string{
			"name": "Rina", "email": "rina@example.com", "message": message,
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Gated without a session.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/contacts", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/admin/create", map[string]string{
		"email": "admin@example.com", "password": "hunter22",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/admin/login", map[string]string{
		"email": "admin@example.com", "password": "hunter22",
	}))
	require.NoError(t, err)
	cookie := sessionCookie(t, resp)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var contacts []dto.ContactResponse
	decodeBody(t, resp, &contacts)
	require.Len(t, contacts, 2)
}
