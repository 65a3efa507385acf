package api

import (
	"context"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// LambdaHandler is the signature of the API Gateway proxy handlers.
type LambdaHandler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// HTTPHandler serves a proxy handler over plain net/http, for local runs.
// Repeated query parameters keep their first value.
func HTTPHandler(h LambdaHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeResponse(w, errorResponse("Invalid request body", http.StatusBadRequest))
			return
		}

		request := events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			Headers:               map[string]string{},
			QueryStringParameters: map[string]string{},
			Body:                  string(body),
		}
		for key := range r.Header {
			request.Headers[key] = r.Header.Get(key)
		}
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				request.QueryStringParameters[key] = values[0]
			}
		}

		resp, err := h(r.Context(), request)
		if err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Handler failed")
			writeResponse(w, errorResponse("Internal Server Error", http.StatusInternalServerError))
			return
		}
		writeResponse(w, resp)
	}
}

func errorResponse(message string, status int) events.APIGatewayProxyResponse {
	resp, _ := Error(message, status)
	return resp
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for key, value := range resp.Headers {
		// The router adds CORS headers.
		if key == "Access-Control-Allow-Origin" {
			continue
		}
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}
