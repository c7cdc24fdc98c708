package testkit_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func decode(t *testing.T, s string) any {
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestSubset(t *testing.T) {
	actual := decode(t, `{"success":true,"data":{"id":4,"name":"Acme","tags":["a","b"],"price":"9.90"}}`)

	assert.Empty(t, testkit.Subset("", decode(t, `{"data":{"name":"Acme","id":"*"}}`), actual))
	assert.Empty(t, testkit.Subset("", decode(t, `{"data":{"tags":["a","b"],"price":"9.90"}}`), actual))

	diffs := testkit.Subset("", decode(t, `{"data":{"name":"Other","missing":1,"tags":["a"]}}`), actual)
	assert.Len(t, diffs, 3)
}

func TestLookupAndVars(t *testing.T) {
	doc := decode(t, `{"data":{"items":[{"id":7},{"id":8}]}}`)
	v, ok := testkit.Lookup(doc, "data.items.1.id")
	require.True(t, ok)
	assert.EqualValues(t, 8, v)

	_, ok = testkit.Lookup(doc, "data.items.5.id")
	assert.False(t, ok)

	vars := testkit.Vars{"brand": "7"}
	assert.Equal(t, "/api/admin/brands/7", vars.Expand("/api/admin/brands/{{brand}}"))
	assert.Equal(t, `{"brand_id": 7, "name": "7"}`, vars.Expand(`{"brand_id": "{{#brand}}", "name": "{{brand}}"}`))
}

func TestMockTransport(t *testing.T) {
	mt := testkit.NewMockTransport(
		testkit.MockStep{Method: "POST", MatchURL: "http://shop.test/api/cart", Times: 1,
			ReturnData: testkit.MockReturnData{StatusCode: 500, Body: `{"success":false}`}},
		testkit.MockStep{MatchURL: "http://shop.test/api/", ReturnData: testkit.MockReturnData{Body: `{"success":true}`}},
	)
	hc := &http.Client{Transport: mt}

	res, err := hc.Post("http://shop.test/api/cart", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, 500, res.StatusCode)

	res, err = hc.Post("http://shop.test/api/cart", "application/json", nil)
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, 200, res.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(body))

	_, err = hc.Get("http://elsewhere.test/")
	assert.Error(t, err)

	assert.Len(t, mt.Calls(), 3)
	assert.Empty(t, mt.Uncalled())
}
