package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"go-slab-ws/internal/metrics"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/session"
	"go-slab-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fiber.App, *jwt.Manager, *session.Store) {
	t.Helper()
	tokens := jwt.NewManager("test-secret", time.Hour)
	sessions := session.NewStore(time.Hour)

	app := fiber.New()
	app.Get("/batches", RequireAuth(tokens, sessions), RequirePrivilege(model.PrivBatchView), func(c *fiber.Ctx) error {
		return c.SendString(CurrentSession(c).Username)
	})
	app.Post("/users", RequireAuth(tokens, sessions), RequirePrivilege(model.PrivUserCreate), func(c *fiber.Ctx) error {
		return c.SendStatus(201)
	})
	return app, tokens, sessions
}

func call(t *testing.T, app *fiber.App, method, path, auth string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func loginAs(t *testing.T, tokens *jwt.Manager, sessions *session.Store, role model.Role) (*session.Session, string) {
	t.Helper()
	sess := sessions.Create(&model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Username: "anwar", Role: role})
	token, err := tokens.GenerateToken(sess.UserID, sess.Username, sess.Role, sess.ID)
	require.NoError(t, err)
	return sess, token
}

func TestRequireAuth(t *testing.T) {
	app, tokens, sessions := setup(t)
	sess, token := loginAs(t, tokens, sessions, model.RoleMarker)

	assert.Equal(t, 401, call(t, app, "GET", "/batches", ""))
	assert.Equal(t, 401, call(t, app, "GET", "/batches", token))
	assert.Equal(t, 401, call(t, app, "GET", "/batches", "Bearer garbage"))
	assert.Equal(t, 200, call(t, app, "GET", "/batches", "Bearer "+token))

	sessions.Delete(sess.ID)
	assert.Equal(t, 401, call(t, app, "GET", "/batches", "Bearer "+token))
}

func TestRequireAuthRejectsTokenForOtherUser(t *testing.T) {
	app, tokens, sessions := setup(t)
	sess, _ := loginAs(t, tokens, sessions, model.RoleMarker)

	forged, err := tokens.GenerateToken(uuid.New(), "mallory", model.RoleAdmin, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 401, call(t, app, "GET", "/batches", "Bearer "+forged))
}

func TestRequirePrivilege(t *testing.T) {
	app, tokens, sessions := setup(t)
	_, marker := loginAs(t, tokens, sessions, model.RoleMarker)
	_, admin := loginAs(t, tokens, sessions, model.RoleAdmin)

	assert.Equal(t, 403, call(t, app, "POST", "/users", "Bearer "+marker))
	assert.Equal(t, 201, call(t, app, "POST", "/users", "Bearer "+admin))
}

func TestMetricsRecordsRoute(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(Metrics(m))
	app.Get("/batches/:batch", func(c *fiber.Ctx) error { return c.SendStatus(204) })

	assert.Equal(t, 204, call(t, app, "GET", "/batches/B1", ""))
	assert.Equal(t, 204, call(t, app, "GET", "/batches/B2", ""))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/batches/:batch", "204")))
}

func TestMetricsLabelsSurviveLaterRequests(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(Metrics(m))
	app.Post("/auth/login", func(c *fiber.Ctx) error { return c.SendStatus(200) })
	app.Post("/batches", func(c *fiber.Ctx) error { return c.SendStatus(201) })
	app.Put("/batches/:batch/slabs", func(c *fiber.Ctx) error { return c.SendStatus(200) })

	assert.Equal(t, 200, call(t, app, "POST", "/auth/login", ""))
	assert.Equal(t, 201, call(t, app, "POST", "/batches", ""))
	assert.Equal(t, 200, call(t, app, "PUT", "/batches/B1/slabs", ""))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/auth/login", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/batches", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("PUT", "/batches/:batch/slabs", "200")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.HTTPRequests))
}
