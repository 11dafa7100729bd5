package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"
)

// parseChatSessionHeader extracts the session ID from a Chat-Session
// header. Format: id="3d3f1c1a-..." (RFC 8941 Dictionary).
//
// An absent header is not an error; it returns "" and the caller falls
// back to the body or mints a fresh session. A present but malformed
// header is rejected so a frontend bug can't silently fork conversations.
func parseChatSessionHeader(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", nil
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return "", fmt.Errorf("invalid Chat-Session header: %w", err)
	}

	member, ok := dict.Get("id")
	if !ok {
		return "", errors.New("id key not found in Chat-Session header")
	}

	item, ok := member.(httpsfv.Item)
	if !ok {
		return "", errors.New("id value must be an item")
	}

	id, ok := item.Value.(string)
	if !ok {
		return "", errors.New("id value must be a string")
	}

	return id, nil
}
