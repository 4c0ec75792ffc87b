package model

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidNotionID is returned when a string holds no Notion database ID
var ErrInvalidNotionID = goerr.New("invalid Notion ID")

var notionHexID = regexp.MustCompile(`^[0-9a-f]{32}$`)

// ParseNotionID accepts a bare 32 character ID, the dashed UUID form or a
// notion.so URL whose last path segment ends with the ID, and returns the ID
// in dashed UUID form.
func ParseNotionID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", goerr.Wrap(ErrInvalidNotionID, "empty Notion ID")
	}

	candidate := input
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		u, err := url.Parse(input)
		if err != nil {
			return "", goerr.Wrap(ErrInvalidNotionID, "malformed Notion URL", goerr.V("input", input))
		}
		if host := u.Hostname(); host != "www.notion.so" && host != "notion.so" {
			return "", goerr.Wrap(ErrInvalidNotionID, "not a Notion URL", goerr.V("host", host))
		}
		segments := strings.Split(strings.TrimRight(u.Path, "/"), "/")
		candidate = segments[len(segments)-1]
	}

	hex := strings.ToLower(strings.ReplaceAll(candidate, "-", ""))
	// Page titles precede the ID in URLs, e.g. "Test-Cases-<id>"
	if len(hex) > 32 && candidate != input {
		hex = hex[len(hex)-32:]
	}
	if !notionHexID.MatchString(hex) {
		return "", goerr.Wrap(ErrInvalidNotionID, "no Notion ID found", goerr.V("input", input))
	}

	return strings.Join([]string{hex[0:8], hex[8:12], hex[12:16], hex[16:20], hex[20:32]}, "-"), nil
}
