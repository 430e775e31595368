package openapi

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/screens"
)

// Extension keys understood on operations and schemas.
const (
	extensionNamespace = "x-formgen"

	extOrder        = extensionNamespace + "-order"
	extEquals       = extensionNamespace + "-equals"
	extSecret       = extensionNamespace + "-secret"
	extLabel        = extensionNamespace + "-label"
	extPlaceholder  = extensionNamespace + "-placeholder"
	extMessages     = extensionNamespace + "-messages"
	extScreen       = extensionNamespace + "-screen"
	extSubmitLabel  = extensionNamespace + "-submit-label"
	extSuccessTitle = extensionNamespace + "-success-title"
	extLinks        = extensionNamespace + "-links"
)

func extString(ext map[string]any, key string) string {
	if v, ok := ext[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func extBool(ext map[string]any, key string) bool {
	switch v := ext[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

func extStrings(ext map[string]any, key string) ([]string, error) {
	raw, ok := ext[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("openapi: %s must be a list of strings", key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("openapi: %s must be a list of strings", key)
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, nil
}

func extMessageMap(ext map[string]any) map[string]string {
	raw, ok := ext[extMessages].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func extLinkList(ext map[string]any) ([]screens.Link, error) {
	raw, ok := ext[extLinks]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("openapi: %s must be a list", extLinks)
	}
	out := make([]screens.Link, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("openapi: %s entries must be objects", extLinks)
		}
		link := screens.Link{}
		link.Label, _ = m["label"].(string)
		link.Target, _ = m["target"].(string)
		if strings.TrimSpace(link.Target) == "" {
			return nil, fmt.Errorf("openapi: %s entry is missing a target", extLinks)
		}
		out = append(out, link)
	}
	return out, nil
}
