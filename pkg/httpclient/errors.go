package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Kiepon/store-backend/pkg/errors"
)

// UpstreamErrorResponse mirrors the error body shape returned by the payment
// gateway ({"type":"error","code":...,"description":...}).
type UpstreamErrorResponse struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ParseUpstreamError reads the body of a non-2xx HTTP response from an
// external gateway and translates it into an AppError. If the body matches
// the gateway's structured error format, its code and description are
// preserved; otherwise a generic error with the raw body is returned.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseUpstreamError(resp *http.Response, gatewayName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.GatewayFailure(fmt.Sprintf("%s returned status %d (failed to read body: %v)", gatewayName, resp.StatusCode, err))
	}

	var upstream UpstreamErrorResponse
	if json.Unmarshal(bodyBytes, &upstream) == nil && upstream.Description != "" {
		return apperrors.GatewayFailure(fmt.Sprintf("%s: %s (%s)", gatewayName, upstream.Description, upstream.Code))
	}

	return apperrors.GatewayFailure(fmt.Sprintf("%s returned status %d: %s", gatewayName, resp.StatusCode, string(bodyBytes)))
}
