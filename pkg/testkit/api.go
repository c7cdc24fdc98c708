package testkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/shashiranjanraj/storefront/pkg/queue"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// Mailbox records every message instead of sending it.
type Mailbox struct {
	mu   sync.Mutex
	sent []*mail.Message
}

func (m *Mailbox) Send(_ context.Context, msg *mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns the recorded messages.
func (m *Mailbox) Sent() []*mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mail.Message(nil), m.sent...)
}

// To returns the messages addressed to address.
func (m *Mailbox) To(address string) []*mail.Message {
	var out []*mail.Message
	for _, msg := range m.Sent() {
		for _, r := range msg.Recipients() {
			if strings.EqualFold(r, address) {
				out = append(out, msg)
				break
			}
		}
	}
	return out
}

// API is the whole application behind an in-process handler.
type API struct {
	T       testing.TB
	App     *app.App
	Disk    *storage.Local
	Mailbox *Mailbox
	Handler http.Handler

	jobs       *queue.MemoryDriver
	adminToken string
}

// AdminNotifications is the address store notifications go to in tests.
const AdminNotifications = "orders@storefront.test"

// NewAPI boots the app on a fresh seeded database with a temp-dir disk and a
// recording mailer. Listeners run synchronously so their effects are
// visible as soon as a request returns.
func NewAPI(t testing.TB) *API {
	t.Helper()
	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	box := &Mailbox{}
	jobs := queue.NewMemoryDriver(256)
	a := app.New(app.Options{
		DB:          DB(t),
		Disk:        disk,
		Mailer:      box,
		QueueDriver: jobs,
		AdminEmail:  AdminNotifications,
		SyncEvents:  true,
	})
	t.Cleanup(a.Close)

	return &API{T: t, App: a, Disk: disk, Mailbox: box, Handler: a.Handler(), jobs: jobs}
}

// Drain runs every queued job on the calling goroutine and returns how many
// ran.
func (a *API) Drain() int {
	a.T.Helper()
	n := 0
	for a.jobs.Len() > 0 {
		ok, err := a.App.Queue.ProcessNext(context.Background())
		require.NoError(a.T, err)
		if ok {
			n++
		}
	}
	return n
}

// Response is a recorded API response.
type Response struct {
	t    testing.TB
	Code int
	Body []byte
}

// Envelope is the decoded API envelope with data left raw.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Meta    *struct {
		CurrentPage int   `json:"current_page"`
		PerPage     int   `json:"per_page"`
		Total       int64 `json:"total"`
		LastPage    int   `json:"last_page"`
	} `json:"meta"`
}

// Envelope decodes the body.
func (r *Response) Envelope() Envelope {
	r.t.Helper()
	var env Envelope
	require.NoError(r.t, json.Unmarshal(r.Body, &env), "body: %s", r.Body)
	return env
}

// Decode decodes the envelope data into dest.
func (r *Response) Decode(dest any) {
	r.t.Helper()
	env := r.Envelope()
	require.NotEmpty(r.t, env.Data, "no data in %s", r.Body)
	require.NoError(r.t, json.Unmarshal(env.Data, dest))
}

// Map decodes the envelope data as an object.
func (r *Response) Map() map[string]any {
	r.t.Helper()
	var m map[string]any
	r.Decode(&m)
	return m
}

// List decodes the envelope data as an array of objects.
func (r *Response) List() []map[string]any {
	r.t.Helper()
	var l []map[string]any
	r.Decode(&l)
	return l
}

// ID returns data.id.
func (r *Response) ID() uint {
	r.t.Helper()
	var v struct {
		ID uint `json:"id"`
	}
	r.Decode(&v)
	require.NotZero(r.t, v.ID, "no id in %s", r.Body)
	return v.ID
}

// AssertStatus fails the test unless the status is code.
func (r *Response) AssertStatus(code int) *Response {
	r.t.Helper()
	require.Equal(r.t, code, r.Code, "body: %s", r.Body)
	return r
}

// AssertFieldErrors expects a 422 naming exactly the given fields or more.
func (r *Response) AssertFieldErrors(fields ...string) *Response {
	r.t.Helper()
	r.AssertStatus(http.StatusUnprocessableEntity)
	errs := r.Envelope().Errors
	for _, f := range fields {
		assert.Contains(r.t, errs, f, "errors: %v", errs)
	}
	return r
}

// Do sends a JSON request. A nil body sends none.
func (a *API) Do(method, path string, body any, token string) *Response {
	a.T.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case []byte:
			rd = bytes.NewReader(b)
		case string:
			rd = strings.NewReader(b)
		default:
			raw, err := json.Marshal(body)
			require.NoError(a.T, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.serve(req, token)
}

func (a *API) serve(req *http.Request, token string) *Response {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	return &Response{t: a.T, Code: rec.Code, Body: rec.Body.Bytes()}
}

func (a *API) Get(path, token string) *Response { return a.Do(http.MethodGet, path, nil, token) }
func (a *API) Post(path string, body any, token string) *Response {
	return a.Do(http.MethodPost, path, body, token)
}
func (a *API) Put(path string, body any, token string) *Response {
	return a.Do(http.MethodPut, path, body, token)
}
func (a *API) Delete(path, token string) *Response { return a.Do(http.MethodDelete, path, nil, token) }

// Upload is one file of a multipart request.
type Upload struct {
	Field    string
	Filename string
	Content  []byte
}

// Multipart sends a multipart form with fields and files.
func (a *API) Multipart(method, path string, fields map[string]string, files []Upload, token string) *Response {
	a.T.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(a.T, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Filename)
		require.NoError(a.T, err)
		_, err = fw.Write(f.Content)
		require.NoError(a.T, err)
	}
	require.NoError(a.T, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.serve(req, token)
}

// Login signs in and returns the access token.
func (a *API) Login(email, password string) string {
	a.T.Helper()
	res := a.Post("/api/auth/login", map[string]string{"email": email, "password": password}, "")
	res.AssertStatus(http.StatusOK)
	var out struct {
		Token string `json:"token"`
	}
	res.Decode(&out)
	require.NotEmpty(a.T, out.Token)
	return out.Token
}

// AdminToken signs in as the seeded administrator once per API.
func (a *API) AdminToken() string {
	if a.adminToken == "" {
		a.adminToken = a.Login(AdminEmail, AdminPassword)
	}
	return a.adminToken
}

// Customer registers a new customer and returns its token and id.
func (a *API) Customer() (string, uint) {
	a.T.Helper()
	email := fmt.Sprintf("c-%s@example.com", uuid.NewString()[:8])
	res := a.Post("/api/auth/register", map[string]string{
		"name":                  "Customer",
		"email":                 email,
		"password":              "secret123",
		"password_confirmation": "secret123",
	}, "")
	res.AssertStatus(http.StatusCreated)
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	res.Decode(&out)
	return out.Token, out.User.ID
}

// Server serves the API over a real listener, for HTTP clients under test.
func (a *API) Server() *httptest.Server {
	srv := httptest.NewServer(a.Handler)
	a.T.Cleanup(srv.Close)
	return srv
}
