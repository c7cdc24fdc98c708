// Package ctx provides a request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for params, binding and the JSON
// envelope:
//
//	func (ctrl *ProductController) Show(c *ctx.Context) {
//	    p, err := ctrl.service.FindBySlug(c.Context(), c.Param("slug"))
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(p)
//	}
//
//	router.Get("/products/{slug}", "products.show", ctx.Wrap(ctrl.Show))
package ctx

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/orm"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter. ok is false for missing,
// malformed or zero ids.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return strings.TrimSpace(c.R.URL.Query().Get(key))
}

func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt returns the integer query value, or def when absent or malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// QueryUint returns the query value as an id, or 0.
func (c *Context) QueryUint(key string) uint {
	n, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// QueryBool returns nil when the key is absent, so filters can tell
// "not given" from "false".
func (c *Context) QueryBool(key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// QueryList splits a comma-separated query value, dropping empty items.
func (c *Context) QueryList(key string) []string {
	return SplitList(c.Query(key))
}

// SplitList splits s on commas, trimming and dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// QueryPrefixed returns every query key starting with prefix, stripped of it,
// mapped to its comma-separated values.
func (c *Context) QueryPrefixed(prefix string) map[string][]string {
	out := map[string][]string{}
	for key, values := range c.R.URL.Query() {
		if !strings.HasPrefix(key, prefix) || len(values) == 0 {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		if list := SplitList(strings.Join(values, ",")); name != "" && len(list) > 0 {
			out[name] = list
		}
	}
	return out
}

// Page reads page and per_page from the query string.
func (c *Context) Page() orm.PageParams {
	return orm.PageParams{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", orm.DefaultPerPage),
	}.Normalize()
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID returns the authenticated user id, or 0 for guests.
func (c *Context) UserID() uint {
	id, _ := auth.UserIDFromCtx(c.R.Context())
	return id
}

// Files returns the uploaded files under a multipart field. Bind the form
// first.
func (c *Context) Files(field string) []*multipart.FileHeader {
	if c.R.MultipartForm == nil {
		return nil
	}
	if files := c.R.MultipartForm.File[field]; len(files) > 0 {
		return files
	}
	return c.R.MultipartForm.File[field+"[]"]
}

// File parses the multipart body and returns the first file under field,
// answering 422 itself when there is none.
func (c *Context) File(field string) (*multipart.FileHeader, bool) {
	if !c.BindForm(&struct{}{}) {
		return nil, false
	}
	files := c.Files(field)
	if len(files) == 0 {
		c.ValidationError(map[string]string{field: "The " + field + " field is required."})
		return nil, false
	}
	return files[0], true
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation. On failure
// it sends 400 (malformed) or 422 (invalid) and returns false.
//
//	var input RegisterInput
//	if !c.BindJSON(&input) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	return c.afterBind(errs, err)
}

// BindForm is BindJSON for multipart and urlencoded bodies.
func (c *Context) BindForm(dest any) bool {
	errs, err := bind.Form(c.R, dest)
	return c.afterBind(errs, err)
}

// Bind picks BindForm or BindJSON from the request content type.
func (c *Context) Bind(dest any) bool {
	ct := c.R.Header.Get("Content-Type")
	if bind.IsMultipart(c.R) || strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		return c.BindForm(dest)
	}
	return c.BindJSON(dest)
}

func (c *Context) afterBind(errs map[string]string, err error) bool {
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

func (c *Context) write(code int, body response.Envelope) {
	c.status = code
	response.Write(c.W, code, body)
}

// Success sends a 200 envelope with data.
func (c *Context) Success(data any) {
	c.write(http.StatusOK, response.Envelope{Success: true, Data: data})
}

// Created sends a 201 envelope with data.
func (c *Context) Created(data any) {
	c.write(http.StatusCreated, response.Envelope{Success: true, Data: data})
}

// Message sends a 200 envelope with only a message.
func (c *Context) Message(msg string) {
	c.write(http.StatusOK, response.Envelope{Success: true, Message: msg})
}

// Paginated sends a page of items with its meta block.
func (c *Context) Paginated(data any, p orm.Pagination) {
	c.write(http.StatusOK, response.Envelope{Success: true, Data: data, Meta: &p})
}

func (c *Context) Error(code int, message string) {
	c.write(code, response.Envelope{Success: false, Message: message})
}

// ValidationError sends a 422 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.write(http.StatusUnprocessableEntity, response.Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

func (c *Context) Unauthorized() { c.Error(http.StatusUnauthorized, "Unauthorized") }

func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// statusCoder and fieldErrors are implemented by service errors.
type statusCoder interface{ HTTPStatus() int }
type fieldErrors interface{ ValidationErrors() map[string]string }

// Fail maps a service error to a response: field errors become 422, errors
// carrying an HTTP status use it, anything else is logged and becomes 500
// with the error text. Production hides the text.
func (c *Context) Fail(err error) {
	var fe fieldErrors
	if errors.As(err, &fe) {
		c.ValidationError(fe.ValidationErrors())
		return
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		c.Error(sc.HTTPStatus(), sc.(error).Error())
		return
	}
	logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
	msg := err.Error()
	if env := config.AppEnv(); env == "production" || env == "prod" {
		msg = "Internal server error"
	}
	c.Error(http.StatusInternalServerError, msg)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
