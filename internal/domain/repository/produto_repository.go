package repository

import "github.com/seu-usuario/estoque-pro/internal/domain/entity"

// ProdutoRepository define a porta de persistência para Produto (DIP).
// Consultas por linha devolvem nil (sem erro) quando não há resultado.
type ProdutoRepository interface {
	Criar(produto *entity.Produto) error
	ObterPorID(id int64) (*entity.Produto, error)
	ObterPorCodigo(codigo string) (*entity.Produto, error)
	ObterPorIDParaAtualizar(id int64) (*entity.Produto, error)
	Atualizar(produto *entity.Produto) error
	AtualizarQuantidade(id int64, quantidade int64) error
	ListarPorNome(nome string) ([]*entity.Produto, error)
	ListarPorCategoria(categoria string) ([]*entity.Produto, error)
	ListarTodos() ([]*entity.Produto, error)
	Excluir(id int64) error
}
