package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/lmarsolier/gestloc/internal/database"
	"github.com/lmarsolier/gestloc/internal/repository"
)

// testEnv wires an OwnerHandler over a fresh in-memory database, the same
// way cmd/server does against MySQL. The renderer stays nil so document
// endpoints answer 503.
type testEnv struct {
	db      *sql.DB
	owner   *OwnerHandler
	e       *echo.Echo
	ownerID uint64
}

func newTestEnv(t *testing.T) *testEnv {
	d, err := database.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	o := NewOwnerHandler(
		repository.NewPropertyRepo(d),
		repository.NewSectionRepo(d),
		repository.NewItemRepo(d),
		repository.NewInventoryRepo(d),
		repository.NewLeaseRepo(d),
		repository.NewInviteRepo(d),
		repository.NewUserRepo(d),
	)
	o.InviteTTL = 7
	o.BcryptCost = 4

	res, err := d.Exec(`INSERT INTO users (email, password_hash, role) VALUES ('owner@test.fr', 'x', 'OWNER')`)
	require.NoError(t, err)
	uid, err := res.LastInsertId()
	require.NoError(t, err)

	return &testEnv{db: d, owner: o, e: echo.New(), ownerID: uint64(uid)}
}

// call builds an echo context the way the router would after JWTAuth ran,
// invokes the handler and returns the recorder. Path params are passed as
// name/value pairs.
func (env *testEnv) call(t *testing.T, h echo.HandlerFunc, method string, body any, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, "/", rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	c.Set("user_id", env.ownerID)
	c.Set("role", "OWNER")
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	require.NoError(t, h(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func u64s(v uint64) string { return strconv.FormatUint(v, 10) }

// createProperty goes through the handler so the test observes the same
// response shape a client would.
func (env *testEnv) createProperty(t *testing.T, name string) propertyView {
	t.Helper()
	rec := env.call(t, env.owner.CreateProperty, http.MethodPost, echo.Map{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code)
	var view propertyView
	decodeBody(t, rec, &view)
	return view
}

func (env *testEnv) seedSection(t *testing.T, propertyID uint64, name string) uint64 {
	t.Helper()
	s := &repository.Section{PropertyID: propertyID, Name: name}
	require.NoError(t, env.owner.Sections.Create(context.Background(), s))
	return s.ID
}

func (env *testEnv) seedItem(t *testing.T, propertyID, sectionID uint64, name string) uint64 {
	t.Helper()
	it := &repository.Item{PropertyID: propertyID, Name: name}
	if sectionID != 0 {
		it.SectionID = sql.NullInt64{Int64: int64(sectionID), Valid: true}
	}
	require.NoError(t, env.owner.Items.Create(context.Background(), it))
	return it.ID
}
