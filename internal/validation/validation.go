// Package validation turns raw request payloads into normalized command
// objects. Normalization (trimming, lowercasing, blank-to-absent coercion)
// always runs before any rule is checked, and validation reports every
// violated field at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"todo-app/backend/internal/apperr"
)

const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
	EmailMaxLen       = 100
	PasswordMinLen    = 6
	PasswordMaxLen    = 50
	NicknameMinLen    = 2
	NicknameMaxLen    = 20
	KeywordMaxLen     = 100
	PageSizeMax       = 100
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// Letters (Hangul included), digits, underscore and hyphen.
	nicknamePattern = regexp.MustCompile(`^[가-힣a-zA-Z0-9_-]+$`)
)

// TaskCreateRequest carries the payload for creating a task.
type TaskCreateRequest struct {
	Title       string  `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

// Normalize trims the title and coerces a blank description to absent.
func (r TaskCreateRequest) Normalize() TaskCreateRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = normalizeOptional(r.Description)
	return r
}

// Validate checks the normalized request. Call Normalize first.
func (r TaskCreateRequest) Validate() *apperr.Error {
	fields := map[string]string{}
	validateTitle(fields, r.Title)
	validateDescription(fields, r.Description)
	if len(fields) > 0 {
		return apperr.Validation("task validation failed", fields)
	}
	return nil
}

// TaskUpdateRequest is a partial update: nil means "leave unchanged".
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsDone      *bool   `json:"isDone"`
}

func (r TaskUpdateRequest) Normalize() TaskUpdateRequest {
	r.Title = normalizeOptional(r.Title)
	r.Description = normalizeOptional(r.Description)
	return r
}

// Validate rejects an update with no fields to apply, regardless of
// per-field validity. Effective values after merging with the stored task
// are validated separately via ValidateTaskFields.
func (r TaskUpdateRequest) Validate() *apperr.Error {
	if r.Title == nil && r.Description == nil && r.IsDone == nil {
		return apperr.New(apperr.KindInvalidRequest, "EMPTY_UPDATE",
			"at least one of title, description or isDone must be provided")
	}
	return nil
}

// ValidateTaskFields checks an effective (title, description) pair. Update
// re-validates merged old+new values through this, so a no-op update still
// fails if the stored value violates current constraints.
func ValidateTaskFields(title string, description *string) *apperr.Error {
	fields := map[string]string{}
	validateTitle(fields, title)
	validateDescription(fields, description)
	if len(fields) > 0 {
		return apperr.Validation("task validation failed", fields)
	}
	return nil
}

// SignupRequest carries the payload for account creation.
type SignupRequest struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"passwordConfirm" form:"passwordConfirm"`
	Nickname        string `json:"nickname" form:"nickname"`
}

func (r SignupRequest) Normalize() SignupRequest {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Nickname = strings.TrimSpace(r.Nickname)
	return r
}

func (r SignupRequest) Validate() *apperr.Error {
	fields := map[string]string{}
	validateEmail(fields, r.Email)

	switch {
	case r.Password == "":
		fields["password"] = "password is required"
	case len(r.Password) < PasswordMinLen || len(r.Password) > PasswordMaxLen:
		fields["password"] = fmt.Sprintf("password must be between %d and %d characters", PasswordMinLen, PasswordMaxLen)
	}
	if r.PasswordConfirm == "" {
		fields["passwordConfirm"] = "password confirmation is required"
	}

	switch {
	case r.Nickname == "":
		fields["nickname"] = "nickname is required"
	case len([]rune(r.Nickname)) < NicknameMinLen || len([]rune(r.Nickname)) > NicknameMaxLen:
		fields["nickname"] = fmt.Sprintf("nickname must be between %d and %d characters", NicknameMinLen, NicknameMaxLen)
	case !nicknamePattern.MatchString(r.Nickname):
		fields["nickname"] = "nickname may only contain letters, digits, underscore and hyphen"
	}

	if len(fields) > 0 {
		return apperr.Validation("signup validation failed", fields)
	}
	// Cross-field rule, checked only once the per-field rules pass.
	if r.Password != r.PasswordConfirm {
		return apperr.PasswordMismatch()
	}
	return nil
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r LoginRequest) Normalize() LoginRequest {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return r
}

func (r LoginRequest) Validate() *apperr.Error {
	fields := map[string]string{}
	validateEmail(fields, r.Email)
	if r.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return apperr.Validation("login validation failed", fields)
	}
	return nil
}

// SearchQuery carries list filtering and windowing parameters.
type SearchQuery struct {
	Page         int     `form:"page"`
	Size         int     `form:"size"`
	IsDone       *bool   `form:"isDone"`
	TitleKeyword *string `form:"titleKeyword"`
}

func (q SearchQuery) Normalize() SearchQuery {
	q.TitleKeyword = normalizeOptional(q.TitleKeyword)
	return q
}

func (q SearchQuery) Validate() *apperr.Error {
	fields := map[string]string{}
	if q.Page < 0 {
		fields["page"] = "page must be 0 or greater"
	}
	if q.Size < 1 || q.Size > PageSizeMax {
		fields["size"] = fmt.Sprintf("size must be between 1 and %d", PageSizeMax)
	}
	if q.TitleKeyword != nil && len([]rune(*q.TitleKeyword)) > KeywordMaxLen {
		fields["titleKeyword"] = fmt.Sprintf("keyword must be %d characters or fewer", KeywordMaxLen)
	}
	if len(fields) > 0 {
		return apperr.Validation("search validation failed", fields)
	}
	return nil
}

func validateTitle(fields map[string]string, title string) {
	switch {
	case title == "":
		fields["title"] = "title must not be blank"
	case len([]rune(title)) > TitleMaxLen:
		fields["title"] = fmt.Sprintf("title must be between 1 and %d characters", TitleMaxLen)
	}
}

func validateDescription(fields map[string]string, description *string) {
	if description != nil && len([]rune(*description)) > DescriptionMaxLen {
		fields["description"] = fmt.Sprintf("description must be %d characters or fewer", DescriptionMaxLen)
	}
}

func validateEmail(fields map[string]string, email string) {
	switch {
	case email == "":
		fields["email"] = "email is required"
	case len(email) > EmailMaxLen:
		fields["email"] = fmt.Sprintf("email must be %d characters or fewer", EmailMaxLen)
	case !emailPattern.MatchString(email):
		fields["email"] = "email format is invalid"
	}
}

// normalizeOptional trims an optional string and turns a blank value into
// absent, so empty strings are never stored.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
