package generator

import "fmt"

type ErrorKind string

const (
	// 上流呼び出しの失敗、または応答が空
	KindRequest ErrorKind = "request"
	// 応答が JSON ではない
	KindUnparsable ErrorKind = "unparsable"
	// JSON だがテストケースの形式に合わない
	KindInvalid ErrorKind = "invalid"
)

// GenerationError は要件の送信から検証済みテストケースを得るまでの全ての失敗を表す
type GenerationError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, msg string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Msg: msg, Err: err}
}
