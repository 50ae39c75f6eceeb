package apperr

import "errors"

// Kind はエラーの分類です。呼び出し元はこの分類でレスポンスを決定します。
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// Error は分類付きのドメインエラーです。
type Error struct {
	Kind    Kind
	Message string
}

// 分類のみを表すセンチネルです。errors.Is で分類判定に使用します。
var (
	ErrNotFound = &Error{Kind: KindNotFound}
	ErrConflict = &Error{Kind: KindConflict}
	ErrInvalid  = &Error{Kind: KindInvalid}
)

// NotFound は対象が存在しないことを表すエラーを生成します。
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict は一意性違反を表すエラーを生成します。
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Invalid は入力不正を表すエラーを生成します。
func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalid, Message: msg}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is は分類センチネル (Message が空) との比較で Kind の一致を判定します。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t == e
}

// KindOf はエラーチェーンから分類を取り出します。分類を持たない場合は KindInternal です。
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
