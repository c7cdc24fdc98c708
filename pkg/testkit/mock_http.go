package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockStep is one canned response for an outgoing request.
type MockStep struct {
	// Method matches the HTTP method; empty matches any.
	Method string `json:"method"`
	// MatchURL matches by prefix; empty matches any URL.
	MatchURL string `json:"matchUrl"`
	// Times limits how often the step answers; 0 means unlimited.
	Times      int            `json:"times"`
	ReturnData MockReturnData `json:"returnData"`
}

// MockReturnData is the synthetic response of a step.
type MockReturnData struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// MockTransport is an http.RoundTripper that answers from MockSteps in
// definition order. Requests nothing matches fall through to Next, or fail
// when Next is nil.
//
//	mt := testkit.NewMockTransport(testkit.MockStep{Method: "POST", MatchURL: srv.URL + "/api/cart",
//	    ReturnData: testkit.MockReturnData{StatusCode: 500}})
//	mt.Next = http.DefaultTransport
//	c := client.New(srv.URL, client.WithHTTPClient(&http.Client{Transport: mt}))
type MockTransport struct {
	Next http.RoundTripper

	mu    sync.Mutex
	steps []*mockEntry
	calls []string
}

type mockEntry struct {
	step  MockStep
	count int
}

func NewMockTransport(steps ...MockStep) *MockTransport {
	mt := &MockTransport{}
	for _, s := range steps {
		mt.steps = append(mt.steps, &mockEntry{step: s})
	}
	return mt
}

func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	mt.calls = append(mt.calls, req.Method+" "+req.URL.String())
	var hit *mockEntry
	for _, e := range mt.steps {
		if e.matches(req) {
			e.count++
			hit = e
			break
		}
	}
	mt.mu.Unlock()

	if hit != nil {
		return buildHTTPResponse(req, hit.step.ReturnData), nil
	}
	if mt.Next != nil {
		return mt.Next.RoundTrip(req)
	}
	return nil, fmt.Errorf("testkit: unexpected outgoing call %s %s", req.Method, req.URL)
}

func (e *mockEntry) matches(req *http.Request) bool {
	if e.step.Times > 0 && e.count >= e.step.Times {
		return false
	}
	if e.step.Method != "" && !strings.EqualFold(e.step.Method, req.Method) {
		return false
	}
	return e.step.MatchURL == "" || strings.HasPrefix(req.URL.String(), e.step.MatchURL)
}

// Calls lists every request seen, as "METHOD url".
func (mt *MockTransport) Calls() []string {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([]string(nil), mt.calls...)
}

// Uncalled returns an error for every step that never answered.
func (mt *MockTransport) Uncalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	var errs []error
	for _, e := range mt.steps {
		if e.count == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock %s %q was never called", e.step.Method, e.step.MatchURL))
		}
	}
	return errs
}

func buildHTTPResponse(req *http.Request, rd MockReturnData) *http.Response {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader([]byte(rd.Body))),
		Request:    req,
	}
}
