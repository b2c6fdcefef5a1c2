// Utilities for parsing cURL commands copied from browser DevTools.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

var (
	headerRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	cookieRegex = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
	urlRegex    = regexp.MustCompile(`'(https?://[^']+)'|"(https?://[^"]+)"|(?:^|\s)(https?://[^\s'"]+)`)
)

// CurlRequest represents the request URL, headers and cookies parsed from a cURL command.
type CurlRequest struct {
	URL     string
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts the request.
func ParseCurlFile(filepath string) (*CurlRequest, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string and extracts the URL, headers and cookie.
//
// A command without any header or cookie is rejected: replaying it would not carry the browser's session.
func ParseCurlCommand(curlCmd string) (*CurlRequest, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	matches := headerRegex.FindAllStringSubmatch(curlCmd, -1)
	for _, match := range matches {
		key, value, ok := splitHeader(firstGroup(match))
		if ok && strings.ToLower(key) != "cookie" {
			headers[key] = value
		}
	}

	if cookieMatches := cookieRegex.FindStringSubmatch(curlCmd); len(cookieMatches) > 1 {
		cookie = firstGroup(cookieMatches)
	}

	if cookie == "" {
		for _, match := range matches {
			key, value, ok := splitHeader(firstGroup(match))
			if ok && strings.ToLower(key) == "cookie" {
				cookie = value
				break
			}
		}
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	// Header values may contain URLs (origin, referer), so search what remains after removing them.
	rest := headerRegex.ReplaceAllString(curlCmd, " ")
	rest = cookieRegex.ReplaceAllString(rest, " ")

	var rawURL string
	if urlMatches := urlRegex.FindStringSubmatch(rest); len(urlMatches) > 1 {
		rawURL = firstGroup(urlMatches)
	}

	return &CurlRequest{
		URL:     rawURL,
		Headers: headers,
		Cookie:  cookie,
	}, nil
}

// Apply copies the parsed headers and cookie onto req.
func (c *CurlRequest) Apply(req *http.Request) {
	for key, value := range c.Headers {
		req.Header.Set(key, value)
	}
	if c.Cookie != "" {
		req.Header.Set("Cookie", c.Cookie)
	}
}

func firstGroup(match []string) string {
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

func splitHeader(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
