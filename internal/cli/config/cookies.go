package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/PeronGH/SydneyWeb/internal/cli/types"
)

// browserCookie is one entry of a browser extension cookie export.
// Only name and value are used.
type browserCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LoadCookies reads upstream cookies from a JSON file. Both a browser
// extension export (array of cookie objects) and a plain name-to-value
// map are accepted.
func LoadCookies(path string) ([]types.Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("cookie file is empty")
	}

	if strings.HasPrefix(trimmed, "[") {
		var entries []browserCookie
		if err := sonic.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse cookie file: %w", err)
		}
		cookies := make([]types.Cookie, 0, len(entries))
		for _, e := range entries {
			if e.Name == "" {
				continue
			}
			cookies = append(cookies, types.Cookie{Name: e.Name, Value: e.Value})
		}
		return cookies, nil
	}

	var m map[string]string
	if err := sonic.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse cookie file: %w", err)
	}
	cookies := make([]types.Cookie, 0, len(m))
	for name, value := range m {
		cookies = append(cookies, types.Cookie{Name: name, Value: value})
	}
	return cookies, nil
}
