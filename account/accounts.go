package account

import (
	"context"
	"errors"
	"printdesk/bizerror"
	"printdesk/persistence"
	"printdesk/session"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNameTaken   = errors.New("user name already taken")
	ErrInvalidPassword = errors.New("invalid password")

	// PasswordCost is lowered by tests.
	PasswordCost = bcrypt.DefaultCost

	validate = validator.New()
)

func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CreateUser seeds an account, it is an operator action and carries no session.
func CreateUser(ctx context.Context, c *UserCreation) (*UserInfo, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := validate.Struct(c); err != nil {
		return nil, &bizerror.ErrBadParam{Cause: err}
	}
	if !c.Role.Valid() {
		return nil, &bizerror.ErrBadParam{Cause: session.ErrUnknownRole}
	}
	secret, err := HashPassword(c.Password)
	if err != nil {
		return nil, err
	}

	user := User{ID: uuid.New().String(), Name: c.Name, Role: c.Role, Secret: secret}
	err = persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		var count int
		if err := tx.Model(&User{}).Where("name = ?", c.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserNameTaken
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

// Authenticate resolves the identity of a name/password pair, any mismatch is reported as ErrUnauthenticated.
func Authenticate(ctx context.Context, name, password string) (*session.Identity, error) {
	user := User{}
	if err := persistence.ActiveDataSourceManager.GormDB(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrUnauthenticated
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Secret), []byte(password)); err != nil {
		return nil, bizerror.ErrUnauthenticated
	}
	return &session.Identity{ID: user.ID, Name: user.Name, Role: user.Role}, nil
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	user := User{}
	if err := db.Where("id = ?", s.Identity.ID).First(&user).Error; err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Secret), []byte(u.OriginalSecret)); err != nil {
		return &bizerror.ErrBadParam{Cause: ErrInvalidPassword}
	}
	secret, err := HashPassword(u.NewSecret)
	if err != nil {
		return err
	}
	return db.Model(&User{}).Where("id = ?", user.ID).Update("secret", secret).Error
}

// QueryUsers lists the operator accounts, used by administrators to filter the work order listing.
func QueryUsers(s *session.Session) ([]UserInfo, error) {
	if !s.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}
	users := []UserInfo{}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&User{}).
		Where("role = ?", string(session.RoleUser)).Order("name ASC").Scan(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func QueryAccountNames(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	var records []UserInfo
	if err := persistence.ActiveDataSourceManager.GormDB(ctx).Model(&User{}).
		Where("id IN (?)", ids).Scan(&records).Error; err != nil {
		return nil, err
	}
	result := map[string]string{}
	for _, r := range records {
		result[r.ID] = r.Name
	}
	return result, nil
}
