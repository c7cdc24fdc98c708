package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Scenario is one request of a scenario file. A file holds a JSON array of
// scenarios that run in order against the same API, so later steps can use
// ids saved by earlier ones:
//
//	[
//	  {"name": "create", "as": "admin", "requestMethod": "POST",
//	   "requestUrl": "/api/admin/brands", "requestBody": {"name": "Acme"},
//	   "expectedCode": 201, "save": {"brand": "data.id"}},
//	  {"name": "show", "as": "admin", "requestUrl": "/api/admin/brands/{{brand}}",
//	   "expectedCode": 200, "expectedBody": {"data": {"slug": "acme"}}}
//	]
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// As is "", "admin" or "customer".
	As              string            `json:"as"`
	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestBody     json.RawMessage   `json:"requestBody"`
	RequestFileName string            `json:"requestFileName"`
	Headers         map[string]string `json:"headers"`

	ExpectedCode       int `json:"expectedCode"`
	ExpectedStatusCode int `json:"expectedStatusCode"`
	// ExpectedBody and ResponseFileName are matched as subsets: only the
	// keys they name are compared and "*" matches any present value.
	ExpectedBody     json.RawMessage `json:"expectedBody"`
	ResponseFileName string          `json:"responseFileName"`

	// Save maps a variable name to a dotted path into the response body.
	Save map[string]string `json:"save"`
	// ExpectMail lists addresses that must have received mail by now.
	ExpectMail []string `json:"expectMail"`

	dir string
}

// LoadScenarios reads a scenario file.
func LoadScenarios(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var list []*Scenario
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	for i, s := range list {
		s.dir = filepath.Dir(abs)
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: %s[%d]: %w", filepath.Base(abs), i, err)
		}
	}
	return list, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
	if s.ExpectedCode == 0 {
		s.ExpectedCode = s.ExpectedStatusCode
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = 200
	}
	switch s.As {
	case "", "admin", "customer":
	default:
		return fmt.Errorf("as must be admin, customer or empty, got %q", s.As)
	}
	return nil
}

// body returns the raw request body, from the inline value or the file.
func (s *Scenario) body() ([]byte, error) {
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	if s.RequestFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.RequestFileName))
}

// expected returns the expected body subset, or nil.
func (s *Scenario) expected() ([]byte, error) {
	if len(s.ExpectedBody) > 0 {
		return s.ExpectedBody, nil
	}
	if s.ResponseFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.ResponseFileName))
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Vars holds values saved between scenario steps.
type Vars map[string]string

// Expand replaces every {{name}} in text. A quoted "{{#name}}" is replaced
// together with its quotes, so saved ids can be sent as JSON numbers.
func (v Vars) Expand(text string) string {
	for k, val := range v {
		text = strings.ReplaceAll(text, `"{{#`+k+`}}"`, val)
		text = strings.ReplaceAll(text, "{{"+k+"}}", val)
	}
	return text
}

// Lookup walks a dotted path ("data.items.0.id") through decoded JSON.
func Lookup(doc any, path string) (any, bool) {
	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func scalar(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}
