package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"scholarsync/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", models.NewNotFoundError("Note", "n1"), fiber.StatusNotFound, models.CodeNotFound},
		{"validation", models.NewValidationError("bad"), fiber.StatusBadRequest, models.CodeValidation},
		{"wrapped", errors.Join(errors.New("ctx"), models.NewUnauthorizedError("no")), fiber.StatusUnauthorized, models.CodeUnauthorized},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError, models.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respond(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestQueryParsers(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		n, err := queryInt(c, "limit")
		if err != nil {
			return respond(c, err)
		}
		price, err := queryFloat(c, "price")
		if err != nil {
			return respond(c, err)
		}
		out := fiber.Map{"limit": n, "price": nil}
		if price != nil {
			out["price"] = *price
		}
		return c.JSON(out)
	})

	cases := []struct {
		query      string
		wantStatus int
	}{
		{"", fiber.StatusOK},
		{"?limit=20&price=9.5", fiber.StatusOK},
		{"?limit=abc", fiber.StatusBadRequest},
		{"?price=free", fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.wantStatus, resp.StatusCode, tc.query)
		_ = resp.Body.Close()
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
}
