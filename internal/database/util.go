package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ats-backend/internal/config"
)

// StartPostgresContainer runs a throwaway PostgreSQL server and returns its terminate
// function with a DBConfig pointing at it.
func StartPostgresContainer(ctx context.Context) (func(context.Context, ...testcontainers.TerminateOption) error, *DBConfig, error) {
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(ctx)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	cfg := &DBConfig{
		Driver:    config.DriverPostgres,
		Host:      dbHost,
		Port:      dbPort.Port(),
		User:      dbUser,
		Password:  dbPwd,
		DBName:    dbName,
		useConstr: true,
		Constr: fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	return dbContainer.Terminate, cfg, nil
}
