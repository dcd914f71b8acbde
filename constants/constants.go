package constants

// テストケース種別
const (
	TypeFunctional  = "functional"
	TypeNegative    = "negative"
	TypeBoundary    = "boundary"
	TypeExploratory = "exploratory"
)

var TestCaseTypes = []string{TypeFunctional, TypeNegative, TypeBoundary, TypeExploratory}

func IsTestCaseType(s string) bool {
	for _, t := range TestCaseTypes {
		if t == s {
			return true
		}
	}
	return false
}

// エラーメッセージ
const (
	ErrProjectNotFound      = "Project not found"
	ErrUnexpected           = "Unexpected error"
	ErrInvalidID            = "Invalid id"
	ErrInvalidInput         = "Invalid input"
	ErrEmailRegistered      = "Email already registered"
	ErrUsernameTaken        = "Username already taken"
	ErrInvalidCredentials   = "Incorrect email or password"
	ErrNotAuthenticated     = "Could not validate credentials"
	ErrGenerationPrefix     = "Error generating test cases: "
	ErrTooManyGenerations   = "Too many generation requests"
	ErrFeatureExistsFormat  = "Feature '%s' already exists in this project. Delete it first to regenerate."
	MsgProjectDeleted       = "Project deleted successfully"
	MsgFeatureDeletedFormat = "Deleted %d test cases for feature '%s'"
	MsgTestCasesGenerated   = "Test cases generated and saved successfully"
	MsgLoggedOut            = "Successfully logged out"
	MsgUserDeleted          = "User deleted successfully"
)

// ContextUserKey は認証済みユーザーを gin.Context に格納するキー
const ContextUserKey = "user"
