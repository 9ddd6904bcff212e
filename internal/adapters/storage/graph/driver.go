package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store envuelve el driver de Neo4j/Memgraph usado como pedigree store.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

func Open(ctx context.Context, uri, username, password, database string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}

	return &Store{driver: driver, database: database}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Store) execute(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{}
	if s.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(s.database))
	}

	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	return result, nil
}

// write ejecuta fn dentro de una transacción administrada (con reintentos del driver).
func (s *Store) write(ctx context.Context, fn func(tx neo4j.ManagedTransaction) error) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(tx)
	})
	if err != nil {
		return fmt.Errorf("write transaction: %w", err)
	}
	return nil
}

// EnsureSchema crea la constraint de unicidad e índices. Si ya existen no falla.
func (s *Store) EnsureSchema(ctx context.Context) error {
	queries := []string{
		"CREATE CONSTRAINT animal_id IF NOT EXISTS FOR (a:Animal) REQUIRE a.id IS UNIQUE",
		"CREATE INDEX animal_gender_status IF NOT EXISTS FOR (a:Animal) ON (a.gender, a.status)",
	}
	for _, q := range queries {
		if _, err := s.execute(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}
