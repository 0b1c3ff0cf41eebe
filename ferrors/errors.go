package ferrors

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	MetaResourceName  = "resource_name"
	MetaResourceNames = "resource_names"
	MetaVariant       = "variant"
	MetaKind          = "kind"
	MetaDir           = "dir"
	MetaChain         = "dir_chain"
	MetaThemeID       = "theme_id"
	MetaMemberID      = "member_id"
	MetaVariable      = "variable"
	MetaStore         = "store"
	MetaAdapter       = "adapter"
	MetaDomain        = "domain"
	MetaTable         = "table"
	MetaOperation     = "operation"
	MetaPath          = "path"
	MetaFormat        = "format"
	MetaScope         = "scope"
)

const (
	TextCodeInvalidName              = "RESOURCE_NAME_REQUIRED"
	TextCodeResourceNotFound         = "RESOURCE_NOT_FOUND"
	TextCodeStoreRequired            = "STORE_REQUIRED"
	TextCodeThemeRequired            = "THEME_REQUIRED"
	TextCodeLoaderRequired           = "LOADER_REQUIRED"
	TextCodeScopeRequired            = "SCOPE_REQUIRED"
	TextCodeSnapshotRequired         = "SNAPSHOT_REQUIRED"
	TextCodePathRequired             = "PATH_REQUIRED"
	TextCodePathInvalid              = "PATH_INVALID"
	TextCodePreferencesStoreRequired = "PREFERENCES_STORE_REQUIRED"
	TextCodeDecodeFailed             = "RESOURCE_DECODE_FAILED"
	TextCodeReservedVariable         = "THEME_VARIABLE_RESERVED"
	TextCodeAdapterFailed            = "ADAPTER_FAILED"
	TextCodeStoreReadFailed          = "STORE_READ_FAILED"
	TextCodeStoreWriteFailed         = "STORE_WRITE_FAILED"
	TextCodeConfigInvalid            = "CONFIG_INVALID"
	TextCodeResolverRequired         = "RESOLVER_REQUIRED"
)

var (
	ErrInvalidName              = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeInvalidName, "resource name required")
	ErrResourceNotFound         = newSentinel(goerrors.CategoryOperation, 404, TextCodeResourceNotFound, "unable to load resource")
	ErrStoreRequired            = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeStoreRequired, "store is required")
	ErrThemeRequired            = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeThemeRequired, "theme loader is required")
	ErrLoaderRequired           = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeLoaderRequired, "resource loader is required")
	ErrScopeRequired            = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeScopeRequired, "scope is required")
	ErrSnapshotRequired         = newSentinel(goerrors.CategoryInternal, goerrors.CodeInternal, TextCodeSnapshotRequired, "snapshot is required")
	ErrPathRequired             = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePathRequired, "path is required")
	ErrPathInvalid              = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePathInvalid, "path segment is not a map")
	ErrPreferencesStoreRequired = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodePreferencesStoreRequired, "preferences store is required")
	ErrDecodeFailed             = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeDecodeFailed, "resource file could not be decoded")
	ErrReservedVariable         = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeReservedVariable, "variable is reserved for theme settings")
	ErrResolverRequired         = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeResolverRequired, "url resolver is required")
)

func newSentinel(category goerrors.Category, code int, textCode, message string) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if code != 0 {
		err.WithCode(code)
	}
	return err
}

func IsSentinel(err error) bool {
	return err == ErrInvalidName ||
		err == ErrResourceNotFound ||
		err == ErrStoreRequired ||
		err == ErrThemeRequired ||
		err == ErrLoaderRequired ||
		err == ErrScopeRequired ||
		err == ErrSnapshotRequired ||
		err == ErrPathRequired ||
		err == ErrPathInvalid ||
		err == ErrPreferencesStoreRequired ||
		err == ErrDecodeFailed ||
		err == ErrReservedVariable ||
		err == ErrResolverRequired
}

func WrapSentinel(sentinel *goerrors.Error, message string, meta map[string]any) *goerrors.Error {
	if sentinel == nil {
		return nil
	}
	if message == "" {
		message = sentinel.Message
	}
	err := goerrors.New(message, sentinel.Category).
		WithTextCode(sentinel.TextCode).
		WithCode(sentinel.Code).
		WithSeverity(sentinel.Severity)
	err.Source = sentinel
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func Wrap(err error, category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	if err == nil {
		return nil
	}
	if IsSentinel(err) {
		if sentinel, ok := err.(*goerrors.Error); ok {
			return WrapSentinel(sentinel, "", meta)
		}
	}
	if rich, ok := err.(*goerrors.Error); ok {
		clone := rich.Clone()
		if clone.TextCode == "" && textCode != "" {
			clone.TextCode = textCode
		}
		if clone.Message == "" && message != "" {
			clone.Message = message
		}
		if meta != nil {
			clone.WithMetadata(meta)
		}
		return clone
	}
	if message == "" {
		message = err.Error()
	}
	wrapped := goerrors.New(message, category).WithTextCode(textCode)
	wrapped.Source = err
	if meta != nil {
		wrapped.WithMetadata(meta)
	}
	return wrapped
}

func New(category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func NewBadInput(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryBadInput, textCode, message, meta)
}

func WrapBadInput(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryBadInput, textCode, message, meta)
}

func WrapOperation(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryOperation, textCode, message, meta)
}

func WrapExternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryExternal, textCode, message, meta)
}

func As(err error) (*goerrors.Error, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich, true
	}
	return nil, false
}

// IsNotFound reports whether err is (or wraps) ErrResourceNotFound.
func IsNotFound(err error) bool {
	return hasTextCode(err, TextCodeResourceNotFound)
}

// IsInvalidName reports whether err is (or wraps) ErrInvalidName.
func IsInvalidName(err error) bool {
	return hasTextCode(err, TextCodeInvalidName)
}

func hasTextCode(err error, code string) bool {
	rich, ok := As(err)
	if !ok || rich == nil {
		return false
	}
	return rich.TextCode == code
}
