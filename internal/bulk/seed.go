package bulk

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/service"
)

const (
	passwordLength   = 12
	passwordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var staffAccounts = []struct {
	username string
	role     domain.Role
}{
	{"admin", domain.RoleAdmin},
	{"prog", domain.RoleTech},
}

type UserCreator interface {
	Create(ctx context.Context, username, plain string, role domain.Role, unitID *uint) (domain.User, error)
}

type UnitLister interface {
	ListUnits(ctx context.Context) ([]domain.Unit, error)
}

// Credential is a freshly created account with its clear-text password.
type Credential struct {
	Role     domain.Role
	Unit     string
	Username string
	Password string
}

// SeedUsers creates the staff accounts and one account per unit. Accounts
// that already exist are left alone and are not part of the result.
func SeedUsers(ctx context.Context, units UnitLister, users UserCreator) ([]Credential, error) {
	var creds []Credential

	add := func(username string, role domain.Role, unit *domain.Unit) error {
		plain, err := GeneratePassword()
		if err != nil {
			return err
		}

		var unitID *uint
		unitName := ""
		if unit != nil {
			unitID = &unit.ID
			unitName = unit.Name
		}

		_, err = users.Create(ctx, username, plain, role, unitID)
		if errors.Is(err, service.ErrUsernameExists) {
			zap.L().Info("user exists, skipping", zap.String("username", username))
			return nil
		}
		if err != nil {
			return fmt.Errorf("users.Create %s -> %w", username, err)
		}

		creds = append(creds, Credential{Role: role, Unit: unitName, Username: username, Password: plain})
		return nil
	}

	for _, staff := range staffAccounts {
		if err := add(staff.username, staff.role, nil); err != nil {
			return creds, err
		}
	}

	list, err := units.ListUnits(ctx)
	if err != nil {
		return creds, fmt.Errorf("units.ListUnits -> %w", err)
	}
	for i := range list {
		if err = add(UnitUsername(list[i]), domain.RoleUnit, &list[i]); err != nil {
			return creds, err
		}
	}

	return creds, nil
}

// UnitUsername lowercases the ASCII letters and digits of the unit name.
func UnitUsername(unit domain.Unit) string {
	var b strings.Builder
	for _, r := range strings.ToLower(unit.Name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("unit%d", unit.ID)
	}

	return b.String()
}

// GeneratePassword returns a random password that satisfies the admin
// password policy (letters and at least one digit).
func GeneratePassword() (string, error) {
	size := big.NewInt(int64(len(passwordAlphabet)))

	for {
		buf := make([]byte, passwordLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, size)
			if err != nil {
				return "", fmt.Errorf("rand.Int -> %w", err)
			}
			buf[i] = passwordAlphabet[n.Int64()]
		}

		plain := string(buf)
		if strings.ContainsAny(plain, "23456789") && strings.IndexFunc(plain, isLetter) >= 0 {
			return plain, nil
		}
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func WriteCredentials(w io.Writer, creds []Credential) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Ruolo", "Unità", "Username", "Password"}); err != nil {
		return fmt.Errorf("cw.Write -> %w", err)
	}
	for _, c := range creds {
		if err := cw.Write([]string{c.Role.String(), c.Unit, c.Username, c.Password}); err != nil {
			return fmt.Errorf("cw.Write -> %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
