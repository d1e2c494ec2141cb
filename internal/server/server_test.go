package server_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bakesync/internal/client/app"
	clientsync "github.com/iudanet/bakesync/internal/client/sync"
	"github.com/iudanet/bakesync/internal/config"
	"github.com/iudanet/bakesync/internal/models"
	"github.com/iudanet/bakesync/internal/server"
	"github.com/iudanet/bakesync/internal/server/handlers"
	"github.com/iudanet/bakesync/internal/server/middleware"
	"github.com/iudanet/bakesync/internal/server/storage/sqlite"
	"github.com/iudanet/bakesync/pkg/api"
)

var testJWT = handlers.JWTConfig{
	Secret:   []byte("0123456789abcdef0123456789abcdef"),
	TokenTTL: time.Hour,
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type backend struct {
	srv *httptest.Server
	db  *sqlite.Storage
}

func newBackend(t *testing.T, limiter *middleware.RateLimiter) *backend {
	t.Helper()
	db, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(server.NewRouter(testLogger(), server.Options{
		Storage: db,
		DB:      db,
		Limiter: limiter,
		Version: "test",
		JWT:     testJWT,
	}))
	t.Cleanup(srv.Close)
	return &backend{srv: srv, db: db}
}

func (b *backend) token(t *testing.T, accountID string) string {
	t.Helper()
	token, _, err := handlers.GenerateAccessToken(testJWT, accountID, time.Now())
	require.NoError(t, err)
	return token
}

func (b *backend) device(t *testing.T, name, token, passphrase string) *app.App {
	t.Helper()
	ctx := context.Background()

	cfg := config.DefaultClient()
	cfg.ServerURL = b.srv.URL
	cfg.DBPath = filepath.Join(t.TempDir(), name+".db")
	cfg.Token = token
	cfg.Passphrase = passphrase

	a, err := app.Open(ctx, &cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })
	return a
}

func TestEndToEnd_TwoDevicesConverge(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, nil)
	token := b.token(t, "bakery-1")

	devA := b.device(t, "a", token, "")
	devB := b.device(t, "b", token, "")

	require.NoError(t, devA.Data.AddRecipe(ctx, &models.Recipe{ID: "R1", Name: "Rye"}))
	require.NoError(t, devB.Data.AddCustomer(ctx, &models.Customer{ID: "C1", Name: "Cafe Nord"}))

	_, err := devA.Engine.SyncOnce(ctx)
	require.NoError(t, err)
	_, err = devB.Engine.SyncOnce(ctx)
	require.NoError(t, err)
	_, err = devA.Engine.SyncOnce(ctx)
	require.NoError(t, err)

	for _, dev := range []*app.App{devA, devB} {
		r, err := dev.Data.GetRecipe(ctx, "R1")
		require.NoError(t, err)
		assert.Equal(t, "Rye", r.Name)

		c, err := dev.Data.GetCustomer(ctx, "C1")
		require.NoError(t, err)
		assert.Equal(t, "Cafe Nord", c.Name)

		st, err := dev.Engine.Status(ctx)
		require.NoError(t, err)
		assert.Zero(t, st.PendingOpCount)
	}

	doc, err := b.db.GetDocument(ctx, "bakery-1")
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), `"snapshotVersion"`)
	assert.GreaterOrEqual(t, doc.Revision, int64(2))
}

func TestEndToEnd_EncryptedDocument(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, nil)
	token := b.token(t, "bakery-2")

	devA := b.device(t, "a", token, "proofing basket")
	devB := b.device(t, "b", token, "proofing basket")

	require.NoError(t, devA.Data.AddIngredient(ctx, &models.Ingredient{ID: "I1", Name: "Flour", Unit: "kg"}))
	_, err := devA.Engine.SyncOnce(ctx)
	require.NoError(t, err)

	doc, err := b.db.GetDocument(ctx, "bakery-2")
	require.NoError(t, err)
	assert.True(t, api.IsEnvelope(doc.Body))
	assert.NotContains(t, string(doc.Body), "Flour", "server sees ciphertext only")

	_, err = devB.Engine.SyncOnce(ctx)
	require.NoError(t, err)
	i, err := devB.Data.GetIngredient(ctx, "I1")
	require.NoError(t, err)
	assert.Equal(t, "Flour", i.Name)
}

func TestEndToEnd_AccountsAreIsolated(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, nil)

	devA := b.device(t, "a", b.token(t, "bakery-a"), "")
	devB := b.device(t, "b", b.token(t, "bakery-b"), "")

	require.NoError(t, devA.Data.AddRecipe(ctx, &models.Recipe{ID: "R1", Name: "Rye"}))
	_, err := devA.Engine.SyncOnce(ctx)
	require.NoError(t, err)
	_, err = devB.Engine.SyncOnce(ctx)
	require.NoError(t, err)

	recipes, err := devB.Data.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestEndToEnd_InvalidTokenPauses(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, nil)

	other := handlers.JWTConfig{Secret: []byte("another-secret-another-secret-xx"), TokenTTL: time.Hour}
	forged, _, err := handlers.GenerateAccessToken(other, "bakery-1", time.Now())
	require.NoError(t, err)

	dev := b.device(t, "a", forged, "")
	require.NoError(t, dev.Data.AddRecipe(ctx, &models.Recipe{ID: "R1", Name: "Rye"}))

	_, err = dev.Engine.SyncOnce(ctx)
	assert.ErrorIs(t, err, clientsync.ErrAuthRequired)

	st, err := dev.Engine.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.PendingOpCount, "outbox kept")
}

func TestRouter_HealthAndRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	b := newBackend(t, limiter)

	resp, err := http.Get(b.srv.URL + api.HealthPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token := b.token(t, "bakery-1")
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, b.srv.URL+api.SnapshotPath, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusNotFound, http.StatusNotFound, http.StatusTooManyRequests}, codes)
}

func TestServer_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := server.New(ln.Addr().String(), http.NotFoundHandler(), testLogger(), time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
