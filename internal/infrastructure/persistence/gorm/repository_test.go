package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/domain/user"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type RepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	users outbound.UserRepository
	kv    *KeyValueStore
}

func (s *RepositoryTestSuite) SetupTest() {
	logger := zaptest.NewLogger(s.T())
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         NewLogger(logger, "error", 0),
		TranslateError: true,
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(AllModels()...))

	s.db = db
	s.users = NewUserRepository(db)
	s.kv = NewKeyValueStore(db, logger)
}

func (s *RepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *RepositoryTestSuite) newUser() *user.User {
	u, err := user.NewUser(gofakeit.LetterN(10), gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 12), 4)
	s.Require().NoError(err)
	return u
}

func (s *RepositoryTestSuite) TestCreateAndFind() {
	ctx := context.Background()
	u := s.newUser()
	s.Require().NoError(s.users.Create(ctx, u))

	byID, err := s.users.FindByID(ctx, u.ID())
	s.Require().NoError(err)
	s.Equal(u.Username(), byID.Username())
	s.Equal(u.PasswordHash(), byID.PasswordHash())

	byName, err := s.users.FindByUsername(ctx, u.Username())
	s.Require().NoError(err)
	s.Equal(u.ID(), byName.ID())

	byEmail, err := s.users.FindByEmail(ctx, u.Email())
	s.Require().NoError(err)
	s.Equal(u.ID(), byEmail.ID())
}

func (s *RepositoryTestSuite) TestFindMissing() {
	_, err := s.users.FindByID(context.Background(), uuid.New())
	s.ErrorIs(err, outbound.ErrNotFound)

	_, err = s.users.FindByUsername(context.Background(), "nobody")
	s.ErrorIs(err, outbound.ErrNotFound)
}

func (s *RepositoryTestSuite) TestCreateDuplicateUsername() {
	ctx := context.Background()
	first := s.newUser()
	s.Require().NoError(s.users.Create(ctx, first))

	dup, err := user.NewUser(first.Username(), gofakeit.Email(), "another-password", 4)
	s.Require().NoError(err)

	s.ErrorIs(s.users.Create(ctx, dup), outbound.ErrDuplicate)
}

func (s *RepositoryTestSuite) TestUpdateLastLogin() {
	ctx := context.Background()
	u := s.newUser()
	s.Require().NoError(s.users.Create(ctx, u))

	u.RecordLogin()
	s.Require().NoError(s.users.UpdateLastLogin(ctx, u))

	stored, err := s.users.FindByID(ctx, u.ID())
	s.Require().NoError(err)
	s.Require().NotNil(stored.LastLoginAt())
	s.WithinDuration(*u.LastLoginAt(), *stored.LastLoginAt(), time.Second)

	s.ErrorIs(s.users.UpdateLastLogin(ctx, s.newUser()), outbound.ErrNotFound)
}

func (s *RepositoryTestSuite) TestKeyValueRoundTrip() {
	ctx := context.Background()

	_, found, err := s.kv.Get(ctx, "savedRecipes_alice")
	s.Require().NoError(err)
	s.False(found)

	s.Require().NoError(s.kv.Set(ctx, "savedRecipes_alice", `[{"id":"1"}]`))
	s.Require().NoError(s.kv.Set(ctx, "savedRecipes_alice", `[{"id":"2"}]`))

	value, found, err := s.kv.Get(ctx, "savedRecipes_alice")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(`[{"id":"2"}]`, value)

	s.Require().NoError(s.kv.Remove(ctx, "savedRecipes_alice"))
	s.Require().NoError(s.kv.Remove(ctx, "savedRecipes_alice"))
	_, found, err = s.kv.Get(ctx, "savedRecipes_alice")
	s.Require().NoError(err)
	s.False(found)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
