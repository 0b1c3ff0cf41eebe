package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/resource"
)

// ErrResourceMissing is returned when no candidate resource could be loaded
// and no custom error is provided.
var ErrResourceMissing = errors.New("resource missing")

// MissingError includes the requested name and unwraps to ErrResourceMissing.
type MissingError struct {
	Name    string
	Variant string
}

func (e MissingError) Error() string {
	if e.Name == "" {
		return ErrResourceMissing.Error()
	}
	if e.Variant == "" {
		return fmt.Sprintf("%s: %s", ErrResourceMissing.Error(), e.Name)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrResourceMissing.Error(), e.Name, e.Variant)
}

func (e MissingError) Unwrap() error {
	return ErrResourceMissing
}

// Option configures Require behavior.
type Option func(*config)

type config struct {
	missingErr  error
	errorMapper func(error) error
	alternates  []string
	loadOpts    []resource.LoadOption
}

// WithMissingError sets the error returned when nothing loads.
func WithMissingError(err error) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.missingErr = err
	}
}

// WithErrorMapper transforms loader errors other than not-found.
func WithErrorMapper(mapper func(error) error) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.errorMapper = mapper
	}
}

// WithAlternates tries other names when the primary one is missing.
func WithAlternates(names ...string) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.alternates = append(c.alternates, names...)
	}
}

// WithLoadOptions forwards options to every load.
func WithLoadOptions(opts ...resource.LoadOption) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.loadOpts = append(c.loadOpts, opts...)
	}
}

// Require loads name and returns an error when neither it nor an alternate
// resolves. A nil loader always passes.
func Require(ctx context.Context, loader resource.Loader, name string, opts ...Option) error {
	_, _, err := Resolve(ctx, loader, name, opts...)
	return err
}

// Resolve is Require returning the name that loaded, either name itself or
// the first alternate that resolved, with its variant.
func Resolve(ctx context.Context, loader resource.Loader, name string, opts ...Option) (string, string, error) {
	if loader == nil {
		return "", "", nil
	}

	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	loadOpts := append(append([]resource.LoadOption{}, cfg.loadOpts...), resource.WithFatal(true))

	variant, err := loader.Load(ctx, name, loadOpts...)
	if err == nil {
		return name, variant, nil
	}
	if !ferrors.IsNotFound(err) {
		return "", "", mapErr(cfg, err)
	}

	for _, alternate := range cfg.alternates {
		loaded, err := loader.Load(ctx, alternate, loadOpts...)
		if err == nil {
			return alternate, loaded, nil
		}
		if !ferrors.IsNotFound(err) {
			return "", "", mapErr(cfg, err)
		}
	}

	if cfg.missingErr != nil {
		return "", "", cfg.missingErr
	}

	return "", "", MissingError{Name: name, Variant: variant}
}

func mapErr(cfg *config, err error) error {
	if err == nil {
		return nil
	}
	if cfg != nil && cfg.errorMapper != nil {
		return cfg.errorMapper(err)
	}
	return err
}
