package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-interceptor/pkg/pipeline"
	"github.com/askiada/go-interceptor/pkg/response"
)

func TestAPIResponseIsTerminal(t *testing.T) {
	t.Parallel()

	var nilResp *response.APIResponse

	assert.True(t, pipeline.IsTerminal(response.New(nil, nil, 0)))
	assert.False(t, pipeline.IsTerminal(nilResp))
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		resp        *response.APIResponse
		code        int
		body        string
		contentType string
	}{
		"json": {
			resp:        response.New(map[string]any{"ok": true}, nil, http.StatusCreated),
			code:        http.StatusCreated,
			body:        `{"ok":true}`,
			contentType: "application/json",
		},
		"string": {
			resp:        response.New("pong", nil, 0),
			code:        http.StatusOK,
			body:        "pong",
			contentType: "text/plain; charset=utf-8",
		},
		"header overrides content type": {
			resp:        response.New("<p>hi</p>", map[string]string{"Content-Type": "text/html"}, http.StatusTeapot),
			code:        http.StatusTeapot,
			body:        "<p>hi</p>",
			contentType: "text/html",
		},
		"no body": {
			resp: &response.APIResponse{Code: http.StatusNoContent},
			code: http.StatusNoContent,
		},
		"zero code": {
			resp:        &response.APIResponse{Body: []byte("raw")},
			code:        http.StatusOK,
			body:        "raw",
			contentType: "application/octet-stream",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			require.NoError(t, tc.resp.Write(rec))

			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.body, rec.Body.String())
			assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteEncodingError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := response.New(make(chan int), nil, 0).Write(rec)
	assert.Error(t, err)
}
