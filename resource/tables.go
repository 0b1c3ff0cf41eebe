package resource

import (
	"fmt"
	"sort"
)

// Table holds the key/value strings from one named resource table.
type Table map[string]any

// TableName identifies one of the closed set of resource tables.
type TableName string

const (
	TableTxt            TableName = "txt"
	TableBirthdayEmails TableName = "birthday_emails"
	TableTimezones      TableName = "tztxt"
	TableEditor         TableName = "editortxt"
	TableHelp           TableName = "helptxt"
)

// TableNames lists the tables in merge order.
var TableNames = []TableName{TableTxt, TableBirthdayEmails, TableTimezones, TableEditor, TableHelp}

// CopyrightKey is the file-level key for the per-variant copyright format.
const CopyrightKey = "forum_copyright"

// Tables is the closed set of tables a resource file may contribute to.
type Tables struct {
	Txt            Table
	BirthdayEmails Table
	Timezones      Table
	Editor         Table
	Help           Table
}

// NewTables returns tables with every map allocated.
func NewTables() Tables {
	return Tables{
		Txt:            Table{},
		BirthdayEmails: Table{},
		Timezones:      Table{},
		Editor:         Table{},
		Help:           Table{},
	}
}

// Get returns the table by name.
func (t *Tables) Get(name TableName) Table {
	if t == nil {
		return nil
	}
	switch name {
	case TableTxt:
		return t.Txt
	case TableBirthdayEmails:
		return t.BirthdayEmails
	case TableTimezones:
		return t.Timezones
	case TableEditor:
		return t.Editor
	case TableHelp:
		return t.Help
	default:
		return nil
	}
}

func (t *Tables) ptr(name TableName) *Table {
	switch name {
	case TableTxt:
		return &t.Txt
	case TableBirthdayEmails:
		return &t.BirthdayEmails
	case TableTimezones:
		return &t.Timezones
	case TableEditor:
		return &t.Editor
	case TableHelp:
		return &t.Help
	default:
		return nil
	}
}

// Clone returns a copy of every table with nested maps and slices copied.
func (t Tables) Clone() Tables {
	out := NewTables()
	for _, name := range TableNames {
		dst := out.ptr(name)
		for key, value := range t.Get(name) {
			(*dst)[key] = NormalizeValue(value)
		}
	}
	return out
}

// MergeFrom merges every table of other into t, later values winning per key.
func (t *Tables) MergeFrom(other Tables) {
	if t == nil {
		return
	}
	for _, name := range TableNames {
		dst := t.ptr(name)
		*dst = Merge(*dst, other.Get(name))
	}
}

// Empty reports whether every table is empty.
func (t Tables) Empty() bool {
	for _, name := range TableNames {
		if len(t.Get(name)) > 0 {
			return false
		}
	}
	return true
}

// Merge copies src into dst, overwriting identical keys. A nil dst is allocated.
func Merge[M ~map[K]V, K comparable, V any](dst M, src M) M {
	if dst == nil {
		dst = make(M, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

// Document is the fixed structure a resource file exports.
type Document struct {
	Tables    Tables
	Copyright *string
}

// DocumentFromMap reads the well-known table names out of a decoded file.
// Unknown top-level keys are ignored.
func DocumentFromMap(raw map[string]any) (Document, error) {
	doc := Document{Tables: NewTables()}
	for _, name := range TableNames {
		value, ok := raw[string(name)]
		if !ok || value == nil {
			continue
		}
		table, ok := NormalizeValue(value).(map[string]any)
		if !ok {
			return Document{}, fmt.Errorf("table %q must be a map, got %T", name, value)
		}
		*doc.Tables.ptr(name) = Table(table)
	}
	if value, ok := raw[CopyrightKey]; ok && value != nil {
		text, ok := value.(string)
		if !ok {
			return Document{}, fmt.Errorf("%s must be a string, got %T", CopyrightKey, value)
		}
		doc.Copyright = &text
	}
	return doc, nil
}

// NormalizeValue converts decoder-specific nested maps into map[string]any.
func NormalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = NormalizeValue(item)
		}
		return out
	case Table:
		return NormalizeValue(map[string]any(typed))
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = NormalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = NormalizeValue(item)
		}
		return out
	default:
		return value
	}
}

// String returns the string value at key, or "" when missing or not a string.
func (t Table) String(key string) string {
	if t == nil {
		return ""
	}
	if s, ok := t[key].(string); ok {
		return s
	}
	return ""
}

// Keys returns the sorted table keys.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
