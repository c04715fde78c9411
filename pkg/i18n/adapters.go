package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
)

// TranslationAdapter loads catalogs from some source.
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]string, error)
}

// MapAdapter serves catalogs from memory. Handy in tests.
type MapAdapter struct {
	Data map[string]map[string]string
}

func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]string, error) {
	if a.Data == nil {
		return map[string]map[string]string{}, nil
	}
	return a.Data, nil
}

// FSAdapter loads every file matching pattern from fsys, usually an embed.FS
// of locale files. Catalogs for the same language are merged, later files win.
type FSAdapter struct {
	fsys    fs.FS
	pattern string
	parser  Parser
}

func NewFSAdapter(fsys fs.FS, pattern string, parser Parser) *FSAdapter {
	if parser == nil {
		parser = NewYAMLParser()
	}
	return &FSAdapter{fsys: fsys, pattern: pattern, parser: parser}
}

func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]string, error) {
	files, err := fs.Glob(a.fsys, a.pattern)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}

	result := make(map[string]map[string]string)
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingCancelled, err)
		}
		content, err := fs.ReadFile(a.fsys, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, fmt.Errorf("%s: %w", path.Base(name), err))
		}
		catalogs, err := a.parser.Parse(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		for lang, msgs := range catalogs {
			if result[lang] == nil {
				result[lang] = make(map[string]string, len(msgs))
			}
			maps.Copy(result[lang], msgs)
		}
	}
	return result, nil
}
