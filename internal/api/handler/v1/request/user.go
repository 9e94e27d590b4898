package request

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/scoutcamp/campo/internal/domain"
)

var (
	usernameExp        = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	errUnitRequired    = errors.New("unit accounts must belong to a unit")
	errInvalidUsername = errors.New("the username may only contain letters, digits, dots, dashes and underscores")
)

type CreateUserRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Role     string `form:"role"`
	UnitID   uint   `form:"unit_id"`
}

func (req *CreateUserRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Length(3, 64),
			validation.Match(usernameExp).Error(errInvalidUsername.Error())),
		validation.Field(&req.Password, validation.Required, validation.By(validPassword)),
		validation.Field(&req.Role, validation.Required,
			validation.In(string(domain.RoleUnit), string(domain.RoleTech), string(domain.RoleAdmin))),
	)
	if err != nil {
		return err
	}

	if domain.Role(req.Role) == domain.RoleUnit && req.UnitID == 0 {
		return errUnitRequired
	}

	return nil
}

// Unit returns the unit reference, nil when none was selected.
func (req *CreateUserRequest) Unit() *uint {
	if req.UnitID == 0 {
		return nil
	}

	id := req.UnitID
	return &id
}

type PasswordRequest struct {
	Password string `form:"password"`
}

func (req *PasswordRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Password, validation.Required, validation.By(validPassword)),
	)
}
