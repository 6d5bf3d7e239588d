package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/rules"
)

// Rejection stages
const (
	StageFilter   = "filter"
	StageValidate = "validate"
)

// minObjectLen is the shortest object accepted
const minObjectLen = 3

// RejectionError explains why a candidate produced no CLO
type RejectionError struct {
	Stage  string
	Path   string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected %s: %s", e.Stage, e.Path, e.Reason)
}

// IsRejection reports whether err is a RejectionError
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// ValidateCLO rejects CLOs whose action or object carries no information.
func ValidateCLO(clo *model.CLO) error {
	reason := ""
	switch {
	case rules.IsInvalidAction(clo.Action):
		reason = "non-informative action " + clo.Action
	case rules.IsPlaceholderObject(clo.Object):
		reason = "placeholder object " + clo.Object
	case utf8.RuneCountInString(strings.TrimSpace(clo.Object)) < minObjectLen:
		reason = fmt.Sprintf("object %q too short", clo.Object)
	}
	if reason == "" {
		return nil
	}
	return &RejectionError{Stage: StageValidate, Path: clo.ClauseUID, Reason: reason}
}
