package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema cria as tabelas produtos e movimentacoes se não existirem.
// Idempotente; o store é dono do schema.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS produtos (
			id BIGSERIAL PRIMARY KEY,
			codigo TEXT UNIQUE NOT NULL,
			nome TEXT NOT NULL,
			categoria TEXT,
			descricao TEXT,
			quantidade BIGINT NOT NULL DEFAULT 0 CHECK (quantidade >= 0),
			preco_unitario NUMERIC(12,2) NOT NULL DEFAULT 0,
			data_cadastro TIMESTAMPTZ NOT NULL DEFAULT now(),
			data_atualizacao TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS movimentacoes (
			id BIGSERIAL PRIMARY KEY,
			produto_id BIGINT NOT NULL REFERENCES produtos (id),
			tipo TEXT NOT NULL,
			quantidade BIGINT NOT NULL CHECK (quantidade > 0),
			observacao TEXT,
			data_movimentacao TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movimentacoes_produto
			ON movimentacoes (produto_id, data_movimentacao DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("criar schema: %w", err)
		}
	}
	return nil
}
