package store

import (
	"context"

	"github.com/goliatone/go-langtheme/resource"
)

// GuestMember is the member id used for guest defaults.
const GuestMember = -1

// GlobalMember is the member id used for theme-wide settings.
const GlobalMember = 0

// DefaultTheme is the id of the stock theme every theme falls back to.
const DefaultTheme = 1

// Row is one theme variable as persisted.
type Row struct {
	ThemeID  int
	MemberID int
	Variable string
	Value    string
}

// Reader returns theme rows for the given themes and members, ordered by
// ascending theme id.
type Reader interface {
	Rows(ctx context.Context, themeIDs, memberIDs []int) ([]Row, error)
}

// Writer persists theme rows.
type Writer interface {
	Set(ctx context.Context, row Row, actor resource.ActorRef) error
	Unset(ctx context.Context, themeID, memberID int, variable string, actor resource.ActorRef) error
}

// ReadWriter is a combined reader/writer.
type ReadWriter interface {
	Reader
	Writer
}
