package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"testcase-generator/constants"

	"github.com/go-playground/validator/v10"
)

// TestCase はモデル応答を検証済みの1件
type TestCase struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	Steps          []string `json:"steps"`
	ExpectedResult string   `json:"expected_result"`
}

// rawTestCase はキーの有無だけを見るためにポインタで受ける。空文字や空配列は許可する
type rawTestCase struct {
	Title          *string   `json:"title"           validate:"required"`
	Description    *string   `json:"description"     validate:"required"`
	Type           *string   `json:"type"            validate:"required,testcase_type"`
	Steps          *[]string `json:"steps"           validate:"required"`
	ExpectedResult *string   `json:"expected_result" validate:"required"`
}

func (r rawTestCase) value() TestCase {
	return TestCase{
		Title:          *r.Title,
		Description:    *r.Description,
		Type:           *r.Type,
		Steps:          *r.Steps,
		ExpectedResult: *r.ExpectedResult,
	}
}

type payload struct {
	TestCases []rawTestCase `json:"test_cases" validate:"required,min=1,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("testcase_type", func(fl validator.FieldLevel) bool {
		return constants.IsTestCaseType(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseTestCases はモデルの生出力を検証する。全件が正しければ返し、そうでなければ最初の問題を *GenerationError で返す
func ParseTestCases(content string) ([]TestCase, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, newError(KindUnparsable, "empty response from generation service", nil)
	}
	if !json.Valid([]byte(content)) {
		return nil, newError(KindUnparsable, "response is not valid JSON", nil)
	}

	var p payload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if typeErr.Field == "" {
				return nil, newError(KindInvalid, "response must be a JSON object", nil)
			}
			msg := fmt.Sprintf("field %q has wrong type: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
			return nil, newError(KindInvalid, msg, nil)
		}
		return nil, newError(KindInvalid, "response does not match the test case format", err)
	}

	// 種別は大文字小文字を区別しない
	for _, tc := range p.TestCases {
		if tc.Type != nil {
			*tc.Type = strings.ToLower(strings.TrimSpace(*tc.Type))
		}
	}

	if err := validate.Struct(p); err != nil {
		return nil, newError(KindInvalid, describe(err), nil)
	}

	testCases := make([]TestCase, 0, len(p.TestCases))
	for _, tc := range p.TestCases {
		testCases = append(testCases, tc.value())
	}
	return testCases, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		if field == "test_cases" {
			return `missing required key "test_cases"`
		}
		return fmt.Sprintf("missing required field %q", field)
	case "min":
		return fmt.Sprintf("%q must not be empty", field)
	case "testcase_type":
		return fmt.Sprintf("%q has unsupported value %q (allowed: %s)", field, fe.Value(), strings.Join(constants.TestCaseTypes, ", "))
	default:
		return fmt.Sprintf("%q failed %s validation", field, fe.Tag())
	}
}
