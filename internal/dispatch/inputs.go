package dispatch

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AddCommentInput is a new comment or, with ParentID set, a reply.
type AddCommentInput struct {
	PostID   string `validate:"required"`
	Content  string `validate:"notblank,max=2000"`
	ParentID string
}

// ShareInput sends a post to one or more connections.
type ShareInput struct {
	PostID       string   `validate:"required"`
	RecipientIDs []string `validate:"min=1,dive,required"`
	Message      string   `validate:"max=500"`
}

var (
	commentMessages = map[string]string{
		"PostID":  "Missing post",
		"Content": "Comment cannot be empty",
	}
	shareMessages = map[string]string{
		"PostID":       "Missing post",
		"RecipientIDs": "Select at least one recipient",
		"Message":      "Message is too long",
	}
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", notBlank)
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && strings.TrimSpace(s) != ""
}

// validationMessage picks the message for the first failing field. The
// comment-length rule gets its own wording.
func validationMessage(err error, messages map[string]string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input"
	}
	first := verrs[0]
	field := first.StructField()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if field == "Content" && first.Tag() == "max" {
		return "Comment is too long"
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	return "Invalid " + strings.ToLower(field)
}
