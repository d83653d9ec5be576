package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
)

const (
	maxBodyLogLength   = 500   // characters of body written to the log
	maxBodyStoreLength = 10000 // characters of body kept in the API log
)

var base64Pattern = regexp.MustCompile(`"([A-Za-z0-9+/=]{100,})"`)

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + fmt.Sprintf("... [truncated, total %d chars]", len(s))
}

// truncateBase64InJSON shortens base64-like string values in a JSON document.
func truncateBase64InJSON(jsonStr string, maxLength int) string {
	return base64Pattern.ReplaceAllStringFunc(jsonStr, func(match string) string {
		content := match[1 : len(match)-1]
		if len(content) > maxLength {
			return fmt.Sprintf(`"%s... [base64 truncated, total %d chars]"`, content[:maxLength], len(content))
		}
		return match
	})
}

// maskBearer keeps the scheme and the last four characters of a token.
func maskBearer(value string) string {
	tok := strings.TrimPrefix(value, "Bearer ")
	if len(tok) <= 4 {
		return "Bearer ****"
	}
	return "Bearer ****" + tok[len(tok)-4:]
}

// formatHeadersForLog writes one "Header Key=Value" line per value, sorted by key.
func formatHeadersForLog(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		for _, value := range headers[key] {
			if key == "Authorization" {
				value = maskBearer(value)
			}
			if len(value) > 100 {
				value = value[:100] + "..."
			}
			sb.WriteString(fmt.Sprintf("Header %s=%s\n", key, value))
		}
	}
	return sb.String()
}

func (c *httpClient) logRequest(method, url string, headers http.Header, body []byte, retried bool) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [WEBCLIENT-REQ]\n")
	logBuilder.WriteString(fmt.Sprintf("Method: %s\n", method))
	logBuilder.WriteString(fmt.Sprintf("URL: %s\n", url))
	if retried {
		logBuilder.WriteString("Retry: true\n")
	}
	logBuilder.WriteString(formatHeadersForLog(headers))

	if len(body) > 0 {
		bodyStr := truncateBase64InJSON(string(body), 100)
		bodyStr = truncateString(bodyStr, maxBodyLogLength)
		logBuilder.WriteString(fmt.Sprintf("REQUEST BODY: %s\n", bodyStr))
	}

	c.logger.Info(logBuilder.String())
}

func (c *httpClient) logResponse(statusCode int, statusText string, duration time.Duration, headers http.Header, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [WEBCLIENT-RESPONSE]\n")
	logBuilder.WriteString(fmt.Sprintf("Status: %s\n", statusText))
	logBuilder.WriteString(fmt.Sprintf("Duration: %s\n", duration))
	logBuilder.WriteString(formatHeadersForLog(headers))

	if isTextual(headers.Get("Content-Type")) {
		logBuilder.WriteString(fmt.Sprintf("Body: %s\n", truncateString(string(body), maxBodyLogLength)))
	} else {
		logBuilder.WriteString(fmt.Sprintf("Body: [%d bytes]\n", len(body)))
	}

	if statusCode >= 400 {
		c.logger.Warn(logBuilder.String())
		return
	}
	c.logger.Info(logBuilder.String())
}

func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	return strings.HasPrefix(contentType, "text/") || strings.Contains(contentType, "json")
}

// saveAPILog stores the call asynchronously so it never delays the caller.
func (c *httpClient) saveAPILog(requestID, method, endpoint string, requestBody, responseBody []byte, statusCode int, duration time.Duration, retried bool) {
	if c.saver == nil {
		return
	}

	reqBodyStr := ""
	if len(requestBody) > 0 {
		reqBodyStr = truncateString(truncateBase64InJSON(string(requestBody), 100), maxBodyStoreLength)
	}

	apiLog := &entity.APILog{
		RequestID:    requestID,
		Endpoint:     endpoint,
		Method:       method,
		RequestBody:  reqBodyStr,
		ResponseBody: truncateString(string(responseBody), maxBodyStoreLength),
		StatusCode:   statusCode,
		Duration:     duration.Milliseconds(),
		Retried:      retried,
		CreatedAt:    time.Now(),
	}

	go func() {
		if err := c.saver.Save(context.Background(), apiLog); err != nil {
			c.logger.Warn("Failed to save API log",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
	}()
}
