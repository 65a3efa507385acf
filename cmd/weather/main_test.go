package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mu sync.Mutex // Protect lambdaStart in tests
)

func TestMain(m *testing.M) {
	// Set up test environment
	if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
		return
	}
	if err := os.Setenv("ENV", "test"); err != nil {
		return
	}

	os.Exit(m.Run())
}

func TestLambdaInit(t *testing.T) {
	t.Setenv("_LAMBDA_SERVER_PORT", "8080")
	t.Setenv("AWS_LAMBDA_RUNTIME_API", "localhost")

	// Save original lambda.Start function
	mu.Lock()
	originalStartFn := lambdaStart
	var startCalled bool
	lambdaStart = func(handler interface{}) {
		mu.Lock()
		startCalled = true
		mu.Unlock()

		handlerType := reflect.TypeOf(handler)
		if handlerType.Kind() != reflect.Func {
			t.Error("Handler is not a function")
			return
		}

		contextInterface := reflect.TypeOf((*context.Context)(nil)).Elem()
		proxyRequest := reflect.TypeOf(events.APIGatewayProxyRequest{})
		proxyResponse := reflect.TypeOf(events.APIGatewayProxyResponse{})
		errorInterface := reflect.TypeOf((*error)(nil)).Elem()

		if handlerType.NumIn() != 2 || handlerType.NumOut() != 2 ||
			!handlerType.In(0).Implements(contextInterface) ||
			handlerType.In(1) != proxyRequest ||
			handlerType.Out(0) != proxyResponse ||
			!handlerType.Out(1).Implements(errorInterface) {
			t.Error("Handler does not match expected signature")
		}
	}
	mu.Unlock()

	defer func() {
		mu.Lock()
		lambdaStart = originalStartFn
		mu.Unlock()
	}()

	// Call main() which should trigger our mock lambda.Start
	go main()

	// Give main() a moment to run
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	wasStartCalled := startCalled
	mu.Unlock()

	assert.True(t, wasStartCalled, "Lambda start was not called")
}

func decode(t *testing.T, response events.APIGatewayProxyResponse) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	return body
}

func TestHandleRequest(t *testing.T) {
	response, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"lat": "47.05"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "lat and lon are required", decode(t, response)["error"])
}
