package docstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"
)

// Document はスキーマレスなドキュメントです。
//
// 値として string / float64 / bool / time.Time / nil を想定します。バックエンドによっては
// 数値が整数型、時刻が RFC 3339 文字列で戻るため、読み出しは各アクセサを利用します。
type Document map[string]any

// ID はドキュメント ID を返します。
func (d Document) ID() string {
	return d.String(IDField)
}

// String は文字列フィールドを返します。存在しないか文字列でない場合は空文字です。
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Float は数値フィールドを float64 として返します。
func (d Document) Float(key string) float64 {
	f, _ := toFloat(d[key])
	return f
}

// Time は時刻フィールドを返します。RFC 3339 文字列も受け付けます。
func (d Document) Time(key string) time.Time {
	switch v := d[key].(type) {
	case time.Time:
		return v.UTC()
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t.UTC()
	default:
		return time.Time{}
	}
}

// Has はフィールドが存在するかを返します。
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Clone はドキュメントの浅いコピーを返します。
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Filter はフィールドの等価条件と、任意の「ID が一致しない」条件を表します。
// ゼロ値は全件に一致します。
type Filter struct {
	fields    map[string]any
	excludeID string
}

// Where は単一フィールドの等価条件を持つ Filter を返します。
func Where(field string, value any) Filter {
	return Filter{}.And(field, value)
}

// And は等価条件を追加した新しい Filter を返します。
func (f Filter) And(field string, value any) Filter {
	fields := make(map[string]any, len(f.fields)+1)
	for k, v := range f.fields {
		fields[k] = v
	}
	fields[field] = value
	return Filter{fields: fields, excludeID: f.excludeID}
}

// ExcludingID は指定 ID のドキュメントを除外する Filter を返します。
func (f Filter) ExcludingID(id string) Filter {
	return Filter{fields: f.fields, excludeID: id}
}

// Keys は条件フィールド名を昇順で返します。
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f.fields))
	for k := range f.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value は条件値を返します。
func (f Filter) Value(field string) any {
	return f.fields[field]
}

// ExcludedID は除外対象 ID を返します。未設定の場合は空文字です。
func (f Filter) ExcludedID() string {
	return f.excludeID
}

// IsEmpty は条件を一つも持たないかを返します。
func (f Filter) IsEmpty() bool {
	return len(f.fields) == 0 && f.excludeID == ""
}

// Matches はドキュメントが条件を満たすかを判定します。
func (f Filter) Matches(doc Document) bool {
	if f.excludeID != "" && doc.ID() == f.excludeID {
		return false
	}
	for field, want := range f.fields {
		got, ok := doc[field]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func (f Filter) String() string {
	parts := make(map[string]any, len(f.fields)+1)
	for k, v := range f.fields {
		parts[k] = v
	}
	if f.excludeID != "" {
		parts["id!="] = f.excludeID
	}
	return fmt.Sprint(parts)
}

func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
