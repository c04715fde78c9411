package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// entry holds the parse result for one config type.
type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	entries   sync.Map // reflect.Type -> *entry
	dotenvRun sync.Once
)

// Load fills v from the process environment (and the optional .env file in the
// working directory). Each config type is parsed once; later calls for the same
// type copy the cached value, including a cached failure.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvRun.Do(func() {
		// a missing .env is not an error: production reads the real environment
		_ = godotenv.Load()
	})

	raw, _ := entries.LoadOrStore(typeKey[T](), &entry{})
	e := raw.(*entry)

	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = errors.Join(ErrParsingConfig, fmt.Errorf("%T: %w", parsed, err))
			return
		}
		e.value = parsed
	})

	if e.err != nil {
		return e.err
	}

	cached, ok := e.value.(T)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached
	return nil
}

// MustLoad is Load for configs the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Reset drops every cached config. Tests use it to re-read a changed environment.
func Reset() {
	entries.Range(func(key, _ any) bool {
		entries.Delete(key)
		return true
	})
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
