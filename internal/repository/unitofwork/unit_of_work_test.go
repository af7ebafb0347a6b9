package unitofwork

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockFactory(t *testing.T) (RepositoryFactory, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewRepositoryFactory(db), mock
}

func TestUnitOfWork_CommitLifecycle(t *testing.T) {
	factory, mock := newMockFactory(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.Begin(context.Background()))
	assert.Error(t, uow.Begin(context.Background()), "nested begin")
	assert.NotNil(t, uow.ChatMessageRepository())
	require.NoError(t, uow.Commit())
	assert.Error(t, uow.Commit(), "commit without transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_Rollback(t *testing.T) {
	factory, mock := newMockFactory(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.Begin(context.Background()))
	require.NoError(t, uow.Rollback())
	assert.Error(t, uow.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
