package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func recordResponse(t *testing.T, write func(c echo.Context) error) APIResponse {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest("GET", "/", nil), rec)

	if err := write(c); err != nil {
		t.Fatalf("write response: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("transport status = %d, want 200", rec.Code)
	}

	var body APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestSuccessResponseEnvelope(t *testing.T) {
	body := recordResponse(t, func(c echo.Context) error {
		return SuccessResponse(c, map[string]string{"symbol": "BTCUSDT"})
	})
	if body.Status != http.StatusOK || body.Message != "OK" {
		t.Errorf("envelope = %d %q, want 200 OK", body.Status, body.Message)
	}
}

func TestAppErrorResponseUsesErrorStatus(t *testing.T) {
	body := recordResponse(t, func(c echo.Context) error {
		return AppErrorResponse(c, NotFoundErrorf("no score for symbol %s", "NOPEUSDT"))
	})
	if body.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", body.Status)
	}
}

func TestAppErrorResponseHidesUnknownErrors(t *testing.T) {
	body := recordResponse(t, func(c echo.Context) error {
		return AppErrorResponse(c, fmt.Errorf("clickhouse: connection refused"))
	})
	if body.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", body.Status)
	}
	if data, ok := body.Data.(string); !ok || data != "Something went wrong" {
		t.Errorf("data = %#v, internal detail must not leak", body.Data)
	}
}

func TestBadRequestErrorfWrapsStatus(t *testing.T) {
	err := BadRequestErrorf("from %s is after to %s", "2024-10-02", "2024-10-01")
	if err.Status != http.StatusBadRequest || err.Code != "ERR_BAD_REQUEST" {
		t.Errorf("got %d %s, want 400 ERR_BAD_REQUEST", err.Status, err.Code)
	}
}
