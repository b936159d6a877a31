package access

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domain "loan-ledger/internal/domain/access"
	"loan-ledger/internal/domain/errs"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/pkg/id"
)

const (
	schemeAPIKey = "Api-Key"
	secretBytes  = 24
)

type Usecase struct {
	keys        domain.KeyRepository
	users       domain.UserRepository
	uow         uow.UnitOfWork
	adminSecret string
	cost        int
	log         *zap.Logger
}

func NewUsecase(keys domain.KeyRepository, users domain.UserRepository, tx uow.UnitOfWork, adminSecret string, bcryptCost int, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Usecase{keys: keys, users: users, uow: tx, adminSecret: adminSecret, cost: bcryptCost, log: log}
}

// RegisterAdmin creates the single admin account. It needs the configured
// secret and fails once an admin exists.
func (u *Usecase) RegisterAdmin(ctx context.Context, secret string, in RegisterInput) (*IssuedKey, error) {
	if u.adminSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(u.adminSecret)) != 1 {
		return nil, domain.ErrInvalidSecret
	}
	if err := validateRegister(in); err != nil {
		return nil, err
	}
	var out *IssuedKey
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		exists, err := r.Users.AdminExists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAdminExists
		}
		out, err = u.register(ctx, r, in, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("admin registered", zap.String("username", out.Username))
	return out, nil
}

// RegisterUser creates a regular API user. Callers must already be admin.
func (u *Usecase) RegisterUser(ctx context.Context, in RegisterInput) (*IssuedKey, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}
	var out *IssuedKey
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = u.register(ctx, r, in, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("user registered", zap.String("username", out.Username))
	return out, nil
}

func (u *Usecase) register(ctx context.Context, r uow.Repos, in RegisterInput, admin bool) (*IssuedKey, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return nil, err
	}
	usr := &domain.User{Username: strings.TrimSpace(in.Username), PasswordHash: string(hash), IsAdmin: admin}
	if err := r.Users.Create(ctx, usr); err != nil {
		return nil, err
	}
	raw, prefix, err := u.issue(ctx, r.APIKeys, usr.ID)
	if err != nil {
		return nil, err
	}
	return &IssuedKey{UserID: usr.ID, Username: usr.Username, Prefix: prefix, APIKey: raw}, nil
}

func (u *Usecase) issue(ctx context.Context, keys domain.KeyRepository, userID uint64) (raw, prefix string, err error) {
	prefix = id.NewHex(domain.PrefixLen / 2)
	secret := id.NewHex(secretBytes)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), u.cost)
	if err != nil {
		return "", "", err
	}
	k := &domain.APIKey{Prefix: prefix, HashedKey: string(hash), Name: "default", UserID: userID}
	if err := keys.Create(ctx, k); err != nil {
		return "", "", err
	}
	return prefix + "." + secret, prefix, nil
}

// Authenticate resolves an Authorization header value ("Api-Key <key>" or the
// bare key) to its owner.
func (u *Usecase) Authenticate(ctx context.Context, header string) (*domain.Principal, error) {
	prefix, secret, ok := ParseKey(header)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	k, err := u.keys.GetByPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if k.Revoked {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(k.HashedKey), []byte(secret)) != nil {
		return nil, domain.ErrUnauthorized
	}
	usr, err := u.users.GetByID(ctx, k.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return &domain.Principal{UserID: usr.ID, Username: usr.Username, IsAdmin: usr.IsAdmin, KeyID: k.ID}, nil
}

// RevokeKey disables a key by its public prefix.
func (u *Usecase) RevokeKey(ctx context.Context, prefix string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		k, err := r.APIKeys.GetByPrefix(ctx, prefix)
		if err != nil {
			return err
		}
		k.Revoked = true
		return r.APIKeys.Save(ctx, k)
	})
	if err != nil {
		return err
	}
	u.log.Info("api key revoked", zap.String("prefix", prefix))
	return nil
}

// ParseKey splits an Authorization value into prefix and secret.
func ParseKey(header string) (prefix, secret string, ok bool) {
	v := strings.TrimSpace(header)
	if scheme, rest, found := strings.Cut(v, " "); found {
		if !strings.EqualFold(scheme, schemeAPIKey) {
			return "", "", false
		}
		v = strings.TrimSpace(rest)
	}
	prefix, secret, found := strings.Cut(v, ".")
	if !found || len(prefix) != domain.PrefixLen || secret == "" {
		return "", "", false
	}
	return prefix, secret, true
}

func validateRegister(in RegisterInput) error {
	name := strings.TrimSpace(in.Username)
	switch {
	case name == "":
		return errs.Invalid("username is required")
	case len(name) > 150:
		return errs.Invalid("username must be at most 150 characters")
	case len(in.Password) < 8:
		return errs.Invalid("password must be at least 8 characters")
	case len(in.Password) > 72:
		return errs.Invalid("password must be at most 72 bytes")
	}
	return nil
}
