package testkit

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFile runs the scenarios of one file, in order, against api. The first
// failing step stops the file.
func RunFile(t *testing.T, api *API, path string) {
	t.Helper()
	list, err := LoadScenarios(path)
	require.NoError(t, err)

	vars := Vars{}
	var customer string
	for _, s := range list {
		ok := t.Run(s.Name, func(t *testing.T) {
			token := ""
			switch s.As {
			case "admin":
				token = api.AdminToken()
			case "customer":
				if customer == "" {
					var id uint
					customer, id = api.Customer()
					vars["customer_id"] = scalar(float64(id))
				}
				token = customer
			}
			runScenario(t, api, s, vars, token)
		})
		if !ok {
			return
		}
	}
}

// RunDir runs every *.json scenario file in dir, each on a fresh API.
func RunDir(t *testing.T, dir string) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no scenario files in %s", dir)

	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), ".json")
		t.Run(name, func(t *testing.T) {
			RunFile(t, NewAPI(t), f)
		})
	}
}

func runScenario(t *testing.T, api *API, s *Scenario, vars Vars, token string) {
	t.Helper()

	body, err := s.body()
	require.NoError(t, err, "request body")

	var rd *strings.Reader
	if body != nil {
		rd = strings.NewReader(vars.Expand(string(body)))
	}
	url := vars.Expand(s.RequestURL)

	req := httptest.NewRequest(s.RequestMethod, url, nil)
	if rd != nil {
		req = httptest.NewRequest(s.RequestMethod, url, rd)
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.Headers {
		req.Header.Set(k, vars.Expand(v))
	}
	res := api.serve(req, token)

	require.Equal(t, s.ExpectedCode, res.Code, "[%s] status; body: %s", s.Name, res.Body)

	var actual any
	if len(res.Body) > 0 {
		require.NoError(t, json.Unmarshal(res.Body, &actual), "[%s] response is not JSON: %s", s.Name, res.Body)
	}

	exp, err := s.expected()
	require.NoError(t, err, "expected body")
	if exp != nil {
		var want any
		require.NoError(t, json.Unmarshal([]byte(vars.Expand(string(exp))), &want), "[%s] expected body is not JSON", s.Name)
		diffs := Subset("", want, actual)
		assert.Empty(t, diffs, "[%s] response mismatch:\n%s\nbody: %s", s.Name, strings.Join(diffs, "\n"), res.Body)
	}

	for name, path := range s.Save {
		v, ok := Lookup(actual, path)
		require.True(t, ok, "[%s] save %s: no %q in %s", s.Name, name, path, res.Body)
		vars[name] = scalar(v)
	}

	if len(s.ExpectMail) > 0 {
		api.Drain()
	}
	for _, addr := range s.ExpectMail {
		assert.NotEmpty(t, api.Mailbox.To(vars.Expand(addr)), "[%s] no mail to %s", s.Name, addr)
	}
}
