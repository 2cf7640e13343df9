package validation

import (
	"fmt"
	"net/url"
	"strings"
)

const maxURLLength = 2048

// NormalizeBaseURL checks that input is an absolute http(s) URL suitable as an
// API root and returns it without a trailing slash, query or fragment.
func NormalizeBaseURL(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > maxURLLength {
		return "", fmt.Errorf("URL too long (max %d characters)", maxURLLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if parsed.User != nil {
		return "", fmt.Errorf("URL must not embed credentials")
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed.String(), nil
}
