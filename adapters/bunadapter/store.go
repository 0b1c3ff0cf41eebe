package bunadapter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/store"
)

// DefaultTable is the default table name for theme rows.
const DefaultTable = "themes"

// ErrDBRequired indicates the underlying Bun DB is missing.
var ErrDBRequired = errors.New("bunadapter: db is required")

// ErrInvalidVariable indicates a missing variable name.
var ErrInvalidVariable = errors.New("bunadapter: variable required")

// Store adapts Bun DB operations to theme rows.
type Store struct {
	db        bun.IDB
	table     string
	now       func() time.Time
	updatedBy func(resource.ActorRef) string
}

// Option customizes the Bun store adapter.
type Option func(*Store)

// NewStore constructs a new Bun-backed theme row store.
func NewStore(db bun.IDB, opts ...Option) *Store {
	adapter := &Store{
		db:        db,
		table:     DefaultTable,
		now:       time.Now,
		updatedBy: defaultUpdatedBy,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.table == "" {
		adapter.table = DefaultTable
	}
	if adapter.now == nil {
		adapter.now = time.Now
	}
	if adapter.updatedBy == nil {
		adapter.updatedBy = defaultUpdatedBy
	}
	return adapter
}

// WithTable sets the table name used for theme rows.
func WithTable(table string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.table = strings.TrimSpace(table)
	}
}

// WithNowFunc overrides the timestamp function used for updates.
func WithNowFunc(now func() time.Time) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.now = now
	}
}

// WithUpdatedByBuilder overrides the updated_by value builder.
func WithUpdatedByBuilder(builder func(resource.ActorRef) string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.updatedBy = builder
	}
}

// ThemeRecord maps to the themes table.
type ThemeRecord struct {
	bun.BaseModel `bun:"table:themes,alias:theme_record"`
	ThemeID       int       `bun:"id_theme,pk"`
	MemberID      int       `bun:"id_member,pk"`
	Variable      string    `bun:"variable,pk"`
	Value         string    `bun:"value"`
	UpdatedBy     string    `bun:"updated_by,nullzero"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero"`
}

// Rows implements store.Reader.
func (s *Store) Rows(ctx context.Context, themeIDs, memberIDs []int) ([]store.Row, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBRequired
	}
	if len(themeIDs) == 0 || len(memberIDs) == 0 {
		return nil, nil
	}
	records := []ThemeRecord{}
	query := s.db.NewSelect().Model(&records).
		Where("id_theme IN (?)", bun.In(themeIDs)).
		Where("id_member IN (?)", bun.In(memberIDs)).
		OrderExpr("id_theme ASC").
		OrderExpr("id_member ASC").
		OrderExpr("variable ASC")
	if s.customTable() {
		query = query.ModelTableExpr("? AS theme_record", bun.Ident(s.table))
	}
	if err := query.Scan(ctx); err != nil {
		return nil, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "theme rows query failed", map[string]any{
			ferrors.MetaStore:    "bun",
			ferrors.MetaTable:    s.table,
			ferrors.MetaThemeID:  themeIDs,
			ferrors.MetaMemberID: memberIDs,
		})
	}
	rows := make([]store.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, store.Row{
			ThemeID:  record.ThemeID,
			MemberID: record.MemberID,
			Variable: record.Variable,
			Value:    record.Value,
		})
	}
	return rows, nil
}

// Set implements store.Writer.
func (s *Store) Set(ctx context.Context, row store.Row, actor resource.ActorRef) error {
	if s == nil || s.db == nil {
		return ErrDBRequired
	}
	variable, err := normalizeVariable(row.Variable)
	if err != nil {
		return err
	}
	record := ThemeRecord{
		ThemeID:   row.ThemeID,
		MemberID:  row.MemberID,
		Variable:  variable,
		Value:     row.Value,
		UpdatedBy: s.updatedBy(actor),
		UpdatedAt: s.now(),
	}
	query := s.db.NewInsert().Model(&record).
		On("CONFLICT (id_theme, id_member, variable) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_by = EXCLUDED.updated_by").
		Set("updated_at = EXCLUDED.updated_at")
	if s.customTable() {
		query = query.ModelTableExpr("? AS theme_record", bun.Ident(s.table))
	}
	if _, err := query.Exec(ctx); err != nil {
		return s.writeErr(err, "set", row.ThemeID, row.MemberID, variable)
	}
	return nil
}

// Unset implements store.Writer by deleting the row.
func (s *Store) Unset(ctx context.Context, themeID, memberID int, variable string, _ resource.ActorRef) error {
	if s == nil || s.db == nil {
		return ErrDBRequired
	}
	normalized, err := normalizeVariable(variable)
	if err != nil {
		return err
	}
	query := s.db.NewDelete().Model((*ThemeRecord)(nil)).
		Where("id_theme = ?", themeID).
		Where("id_member = ?", memberID).
		Where("variable = ?", normalized)
	if s.customTable() {
		query = query.ModelTableExpr("? AS theme_record", bun.Ident(s.table))
	}
	if _, err := query.Exec(ctx); err != nil {
		return s.writeErr(err, "unset", themeID, memberID, normalized)
	}
	return nil
}

func (s *Store) customTable() bool {
	return s.table != "" && s.table != DefaultTable
}

func (s *Store) writeErr(err error, op string, themeID, memberID int, variable string) error {
	return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "theme row write failed", map[string]any{
		ferrors.MetaStore:     "bun",
		ferrors.MetaTable:     s.table,
		ferrors.MetaOperation: op,
		ferrors.MetaThemeID:   themeID,
		ferrors.MetaMemberID:  memberID,
		ferrors.MetaVariable:  variable,
	})
}

func defaultUpdatedBy(actor resource.ActorRef) string {
	if actor.ID != "" {
		return actor.ID
	}
	if actor.Name != "" {
		return actor.Name
	}
	if actor.Type != "" {
		return actor.Type
	}
	return ""
}

func normalizeVariable(variable string) (string, error) {
	normalized := strings.TrimSpace(variable)
	if normalized == "" {
		return "", ErrInvalidVariable
	}
	return normalized, nil
}

var _ store.ReadWriter = (*Store)(nil)
