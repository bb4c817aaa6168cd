package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"social-publisher/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCodeUnwrapsChain(t *testing.T) {
	err := fmt.Errorf("normalize item 2: %w", ErrStorage(io.ErrUnexpectedEOF))

	assert.Equal(t, CodeStorage, Code(err))
	assert.True(t, Is(err, CodeStorage))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "", Code(io.EOF))
}

func TestNotConnectedMentionsReconnect(t *testing.T) {
	assert.Contains(t, ErrNotConnected().Message, "reconnect")
	assert.Contains(t, ErrMissingCredential("an access token").Message, "reconnect")
}

func TestHandleErrorMapsStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/limit", func(c *fiber.Ctx) error {
		return HandleError(c, zap.NewNop(), ErrMediaLimit(11, 10))
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return HandleError(c, zap.NewNop(), io.ErrClosedPipe)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/limit", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeMediaLimit, body["error"])

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestHandleErrorKeepsMessageBesideTitle(t *testing.T) {
	require.NoError(t, i18n.Load("en"))
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return HandleError(c, zap.NewNop(), ErrNotImage("text/plain"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeNotImage, body["error"])
	assert.Equal(t, "Only image files can be published", body["title"])
	assert.Contains(t, body["message"], "text/plain")
}
