package jurisdiction

import (
	"github.com/go-playground/validator/v10"

	"github.com/haukened/cid-gate/internal/gate/common/cid"
	"github.com/haukened/cid-gate/internal/gate/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// messages carries a profile's localized validation wording.
type messages struct {
	missingField func(field string) string
	invalidCID   string
	invalidEmail string
}

// validateCommon runs the checks shared by every jurisdiction: presence of
// all required fields in declared order, a structural prefix check on the CID
// field, and an '@'-containing check on the contact email field. The first
// failing check short-circuits.
func validateCommon(n domain.Notice, required []string, emailField string, msgs messages) error {
	for _, field := range required {
		if n.Get(field) == "" {
			return &ValidationError{Field: field, Message: msgs.missingField(field)}
		}
	}

	if !cid.HasKnownPrefix(n.Get(domain.FieldInfringingCID)) {
		return &ValidationError{Field: domain.FieldInfringingCID, Message: msgs.invalidCID}
	}

	if err := validate.Var(n.Get(emailField), "required,contains=@"); err != nil {
		return &ValidationError{Field: emailField, Message: msgs.invalidEmail}
	}

	return nil
}
