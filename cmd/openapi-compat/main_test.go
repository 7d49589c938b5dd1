package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseDoc = `
basePath: /api
paths:
  /feed:
    get:
      parameters:
        - {name: limit, in: query}
      responses:
        "200": {description: OK}
        "400": {description: Bad Request}
    post:
      responses:
        "201": {description: Created}
  /offers:
    get:
      responses:
        "200": {description: OK}
`

func TestCompare_Compatible(t *testing.T) {
	base, err := parse([]byte(baseDoc))
	require.NoError(t, err)

	revision, err := parse([]byte(`{
	  "basePath": "/api",
	  "paths": {
	    "/feed": {
	      "get": {"parameters": [{"name": "limit", "in": "query"}, {"name": "type", "in": "query"}],
	              "responses": {"200": {}, "400": {}, "500": {}}},
	      "post": {"responses": {"201": {}}}
	    },
	    "/offers": {"get": {"responses": {"200": {}}}},
	    "/notes": {"get": {"responses": {"200": {}}}}
	  }
	}`))
	require.NoError(t, err)

	assert.Empty(t, compare(base, revision))
}

func TestCompare_BreakingChanges(t *testing.T) {
	base, err := parse([]byte(baseDoc))
	require.NoError(t, err)

	revision, err := parse([]byte(`
basePath: /api
paths:
  /feed:
    get:
      parameters:
        - {name: limit, in: query, required: true}
      responses:
        "200": {description: OK}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		`new required query parameter "limit": GET /feed`,
		"removed operation: POST /feed",
		"removed path: /offers",
		"removed response code: GET /feed -> 400",
	}, compare(base, revision))
}

func TestParse_MissingPaths(t *testing.T) {
	_, err := parse([]byte("swagger: \"2.0\"\n"))
	assert.Error(t, err)
}
