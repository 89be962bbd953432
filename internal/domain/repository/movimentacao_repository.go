package repository

import "github.com/seu-usuario/estoque-pro/internal/domain/entity"

// MovimentacaoRepository define a porta de persistência para o livro-razão.
type MovimentacaoRepository interface {
	Criar(mov *entity.Movimentacao) error
	// ListarPorProduto devolve as movimentações mais recentes primeiro,
	// cada uma com o nome atual do produto.
	ListarPorProduto(produtoID int64) ([]*entity.Movimentacao, error)
	ExcluirPorProduto(produtoID int64) error
}
