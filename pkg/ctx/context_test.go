package ctx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Meta    *orm.Pagination   `json:"meta"`
}

func run(t *testing.T, req *http.Request, h appctx.HandlerFunc) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestSuccessEnvelope(t *testing.T) {
	rec, env := run(t, httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"id":1}`, string(env.Data))
}

func TestPaginatedEnvelope(t *testing.T) {
	_, env := run(t, httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.Paginated([]int{1, 2}, orm.Pagination{CurrentPage: 2, PerPage: 2, Total: 5, LastPage: 3})
	})
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.LastPage)
	assert.Equal(t, int64(5), env.Meta.Total)
}

func TestBindJSONInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))
	rec, env := run(t, req, func(c *appctx.Context) {
		var input struct {
			Name string `json:"name" validate:"required"`
		}
		assert.False(t, c.BindJSON(&input))
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "name")
}

func TestBindJSONMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	rec, _ := run(t, req, func(c *appctx.Context) {
		var input struct{}
		assert.False(t, c.BindJSON(&input))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageAndQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&per_page=500&brand=acme,,zen&attr_color=red,blue&attr_size=m&featured=1", nil)
	run(t, req, func(c *appctx.Context) {
		p := c.Page()
		assert.Equal(t, 3, p.Page)
		assert.Equal(t, orm.MaxPerPage, p.PerPage)
		assert.Equal(t, []string{"acme", "zen"}, c.QueryList("brand"))
		assert.Equal(t, map[string][]string{"color": {"red", "blue"}, "size": {"m"}}, c.QueryPrefixed("attr_"))
		require.NotNil(t, c.QueryBool("featured"))
		assert.True(t, *c.QueryBool("featured"))
		assert.Nil(t, c.QueryBool("missing"))
		c.Success(nil)
	})
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	var ok bool
	r.Get("/items/{id}", appctx.Wrap(func(c *appctx.Context) {
		got, ok = c.ParamUint("id")
		c.Success(nil)
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/17", nil))
	assert.True(t, ok)
	assert.Equal(t, uint(17), got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	assert.False(t, ok)
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "gone fishing" }
func (e statusErr) HTTPStatus() int { return e.code }

type fieldErr struct{}

func (fieldErr) Error() string { return "invalid" }
func (fieldErr) ValidationErrors() map[string]string {
	return map[string]string{"slug": "The slug has already been taken."}
}

func TestFailMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("load product: %w", statusErr{http.StatusNotFound}), http.StatusNotFound},
		{fmt.Errorf("save: %w", fieldErr{}), http.StatusUnprocessableEntity},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec, env := run(t, httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
			c.Fail(tc.err)
		})
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.False(t, env.Success)
	}
}
