package i18n

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parser turns a catalog file into language -> flattened key -> message.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]map[string]string, error)
}

// YAMLParser reads catalogs keyed by language at the root:
//
//	en:
//	  auth:
//	    sign_in:
//	      title: Sign in
//
// Nested keys are flattened with dots ("auth.sign_in.title").
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

func (p *YAMLParser) Parse(ctx context.Context, content []byte) (map[string]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	result := make(map[string]map[string]string, len(data))
	for lang, val := range data {
		tree, ok := val.(map[string]any)
		if !ok {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("language %q: expected map, got %T", lang, val))
		}
		flat := make(map[string]string)
		if err := flatten("", tree, flat); err != nil {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("language %q: %w", lang, err))
		}
		result[lang] = flat
	}
	return result, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case string:
			out[key] = val
		case int, float64, bool:
			out[key] = fmt.Sprint(val)
		default:
			return fmt.Errorf("key %q: unsupported value type %T", key, v)
		}
	}
	return nil
}
