package account_test

import (
	"context"
	"errors"
	"printdesk/account"
	"printdesk/bizerror"
	"printdesk/persistence"
	"printdesk/session"
	"printdesk/testinfra"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("accounts", func() {
	var (
		testDatabase *testinfra.TestDatabase
	)
	BeforeEach(func() {
		testDatabase = testinfra.StartTestDatabase("printdesk")
		persistence.ActiveDataSourceManager = testDatabase.DS
		Expect(testDatabase.DS.GormDB(context.TODO()).AutoMigrate(&account.User{}).Error).To(BeNil())
	})
	AfterEach(func() {
		testinfra.StopTestDatabase(testDatabase)
	})

	Describe("CreateUser", func() {
		It("should create user with hashed secret", func() {
			u, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: " ann ", Password: "abc123", Role: session.RoleUser})
			Expect(err).To(BeNil())
			Expect(u.ID).ToNot(BeEmpty())
			Expect(*u).To(Equal(account.UserInfo{ID: u.ID, Name: "ann", Role: session.RoleUser}))

			user := account.User{}
			Expect(testDatabase.DS.GormDB(context.TODO()).Where("id = ?", u.ID).First(&user).Error).To(BeNil())
			Expect(user.Secret).ToNot(Equal("abc123"))
			Expect(bcrypt.CompareHashAndPassword([]byte(user.Secret), []byte("abc123"))).To(BeNil())
		})

		It("should reject duplicated name", func() {
			_, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: "ann", Password: "abc123", Role: session.RoleUser})
			Expect(err).To(BeNil())
			_, err = account.CreateUser(context.TODO(), &account.UserCreation{Name: "ann", Password: "xyz789", Role: session.RoleAdmin})
			Expect(err).To(Equal(account.ErrUserNameTaken))
		})

		It("should reject invalid creation", func() {
			_, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: "ann", Password: "abc", Role: session.RoleUser})
			var badParam *bizerror.ErrBadParam
			Expect(errors.As(err, &badParam)).To(BeTrue())

			_, err = account.CreateUser(context.TODO(), &account.UserCreation{Name: "ann", Password: "abc123", Role: "ROOT"})
			Expect(errors.Is(err, session.ErrUnknownRole)).To(BeTrue())

			_, err = account.CreateUser(context.TODO(), &account.UserCreation{Name: "  ", Password: "abc123", Role: session.RoleUser})
			Expect(errors.As(err, &badParam)).To(BeTrue())
		})
	})

	Describe("Authenticate", func() {
		It("should resolve identity only for matched password", func() {
			u, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: "ann", Password: "abc123", Role: session.RoleAdmin})
			Expect(err).To(BeNil())

			identity, err := account.Authenticate(context.TODO(), "ann", "abc123")
			Expect(err).To(BeNil())
			Expect(*identity).To(Equal(session.Identity{ID: u.ID, Name: "ann", Role: session.RoleAdmin}))

			_, err = account.Authenticate(context.TODO(), "ann", "bad pass")
			Expect(err).To(Equal(bizerror.ErrUnauthenticated))
			_, err = account.Authenticate(context.TODO(), "bob", "abc123")
			Expect(err).To(Equal(bizerror.ErrUnauthenticated))
		})
	})

	Describe("UpdateBasicAuthSecret", func() {
		It("should update secret only when original secret matches", func() {
			u, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: "ann", Password: "123456", Role: session.RoleUser})
			Expect(err).To(BeNil())
			s := testinfra.BuildSession(u.ID, session.RoleUser)

			err = account.UpdateBasicAuthSecret(&account.BasicAuthUpdating{OriginalSecret: "234567", NewSecret: "654321"}, s)
			Expect(errors.Is(err, account.ErrInvalidPassword)).To(BeTrue())
			Expect(account.UpdateBasicAuthSecret(&account.BasicAuthUpdating{OriginalSecret: "123456", NewSecret: "654321"}, s)).To(BeNil())

			_, err = account.Authenticate(context.TODO(), "ann", "654321")
			Expect(err).To(BeNil())
			_, err = account.Authenticate(context.TODO(), "ann", "123456")
			Expect(err).To(Equal(bizerror.ErrUnauthenticated))
		})
	})

	Describe("QueryUsers", func() {
		It("should be forbidden for ordinary users", func() {
			users, err := account.QueryUsers(testinfra.BuildSession("u1", session.RoleUser))
			Expect(err).To(Equal(bizerror.ErrForbidden))
			Expect(users).To(BeNil())
		})

		It("should list operator accounts ordered by name", func() {
			bob, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: "bob", Password: "123456", Role: session.RoleUser})
			Expect(err).To(BeNil())
			ann, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: "ann", Password: "123456", Role: session.RoleUser})
			Expect(err).To(BeNil())
			_, err = account.CreateUser(context.TODO(), &account.UserCreation{Name: "root", Password: "123456", Role: session.RoleAdmin})
			Expect(err).To(BeNil())

			users, err := account.QueryUsers(testinfra.BuildSession("a1", session.RoleAdmin))
			Expect(err).To(BeNil())
			Expect(users).To(Equal([]account.UserInfo{*ann, *bob}))
		})
	})

	Describe("QueryAccountNames", func() {
		It("should return names of existed accounts", func() {
			ret, err := account.QueryAccountNames(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(ret).To(BeEmpty())

			ann, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: "ann", Password: "123456", Role: session.RoleUser})
			Expect(err).To(BeNil())
			bob, err := account.CreateUser(context.TODO(), &account.UserCreation{Name: "bob", Password: "123456", Role: session.RoleUser})
			Expect(err).To(BeNil())

			ret, err = account.QueryAccountNames(context.TODO(), []string{ann.ID, bob.ID, "missing"})
			Expect(err).To(BeNil())
			Expect(ret).To(Equal(map[string]string{ann.ID: "ann", bob.ID: "bob"}))
		})
	})
})
