package postgres

import (
	"context"
	"fmt"

	"github.com/seu-usuario/estoque-pro/internal/domain/entity"
	"github.com/seu-usuario/estoque-pro/internal/domain/repository"
)

var _ repository.MovimentacaoRepository = (*MovimentacaoRepo)(nil)

// MovimentacaoRepo implementação do livro-razão sobre PostgreSQL (usável com
// pool ou tx).
type MovimentacaoRepo struct {
	q Querier
}

// NewMovimentacaoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovimentacaoRepository(q Querier) *MovimentacaoRepo {
	return &MovimentacaoRepo{q: q}
}

// Criar persiste uma movimentação e preenche o ID gerado.
func (r *MovimentacaoRepo) Criar(mov *entity.Movimentacao) error {
	query := `
		INSERT INTO movimentacoes (produto_id, tipo, quantidade, observacao, data_movimentacao)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		mov.ProdutoID, mov.Tipo, mov.Quantidade, textoOuNulo(mov.Observacao), mov.DataMovimentacao,
	).Scan(&mov.ID)
	if err != nil {
		return fmt.Errorf("insert movimentacao: %w", err)
	}
	return nil
}

// ListarPorProduto devolve as movimentações de um produto, mais recentes
// primeiro, com o nome atual do produto (join).
func (r *MovimentacaoRepo) ListarPorProduto(produtoID int64) ([]*entity.Movimentacao, error) {
	query := `
		SELECT m.id, m.produto_id, m.tipo, m.quantidade, m.observacao, m.data_movimentacao, p.nome
		FROM movimentacoes m
		JOIN produtos p ON p.id = m.produto_id
		WHERE m.produto_id = $1
		ORDER BY m.data_movimentacao DESC, m.id DESC`
	rows, err := r.q.Query(context.Background(), query, produtoID)
	if err != nil {
		return nil, fmt.Errorf("list movimentacoes: %w", err)
	}
	defer rows.Close()

	lista := []*entity.Movimentacao{}
	for rows.Next() {
		var m entity.Movimentacao
		var observacao *string
		if err := rows.Scan(&m.ID, &m.ProdutoID, &m.Tipo, &m.Quantidade, &observacao, &m.DataMovimentacao, &m.ProdutoNome); err != nil {
			return nil, fmt.Errorf("scan movimentacao: %w", err)
		}
		if observacao != nil {
			m.Observacao = *observacao
		}
		lista = append(lista, &m)
	}
	return lista, rows.Err()
}

// ExcluirPorProduto remove todas as movimentações de um produto (limpeza
// referencial na exclusão em cascata).
func (r *MovimentacaoRepo) ExcluirPorProduto(produtoID int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movimentacoes WHERE produto_id = $1`, produtoID)
	if err != nil {
		return fmt.Errorf("delete movimentacoes: %w", err)
	}
	return nil
}
