package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/seu-usuario/estoque-pro/internal/domain"
	"github.com/seu-usuario/estoque-pro/internal/domain/entity"
	"github.com/seu-usuario/estoque-pro/internal/domain/repository"
)

var _ repository.ProdutoRepository = (*ProdutoRepo)(nil)

const colunasProduto = `id, codigo, nome, categoria, descricao, quantidade, preco_unitario, data_cadastro, data_atualizacao`

// ProdutoRepo implementação do porto ProdutoRepository sobre PostgreSQL
// (usável com pool ou tx).
type ProdutoRepo struct {
	q Querier
}

// NewProdutoRepository constrói o adaptador de persistência de produtos.
// Passar pool ou tx (Querier).
func NewProdutoRepository(q Querier) *ProdutoRepo {
	return &ProdutoRepo{q: q}
}

// Criar persiste um novo produto e preenche o ID gerado. Código duplicado
// devolve domain.ErrCodigoDuplicado.
func (r *ProdutoRepo) Criar(produto *entity.Produto) error {
	query := `
		INSERT INTO produtos (codigo, nome, categoria, descricao, quantidade, preco_unitario, data_cadastro, data_atualizacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		produto.Codigo, produto.Nome, textoOuNulo(produto.Categoria), textoOuNulo(produto.Descricao),
		produto.Quantidade, produto.PrecoUnitario, produto.DataCadastro, produto.DataAtualizacao,
	).Scan(&produto.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodigoDuplicado
		}
		return fmt.Errorf("insert produto: %w", err)
	}
	return nil
}

// ObterPorID busca um produto pelo ID. Devolve nil quando não existe.
func (r *ProdutoRepo) ObterPorID(id int64) (*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE id = $1`
	return r.obterUm(query, id)
}

// ObterPorCodigo busca um produto pelo código de negócio. Devolve nil quando
// não existe.
func (r *ProdutoRepo) ObterPorCodigo(codigo string) (*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE codigo = $1`
	return r.obterUm(query, codigo)
}

// ObterPorIDParaAtualizar busca o produto bloqueando a fila (SELECT FOR UPDATE)
// para a matemática de saldo dentro da transação.
func (r *ProdutoRepo) ObterPorIDParaAtualizar(id int64) (*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE id = $1 FOR UPDATE`
	return r.obterUm(query, id)
}

// Atualizar grava os campos de cadastro. Não altera quantidade (só muda via
// movimentações).
func (r *ProdutoRepo) Atualizar(produto *entity.Produto) error {
	query := `
		UPDATE produtos SET nome = $2, categoria = $3, descricao = $4, preco_unitario = $5, data_atualizacao = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		produto.ID, produto.Nome, textoOuNulo(produto.Categoria), textoOuNulo(produto.Descricao),
		produto.PrecoUnitario, produto.DataAtualizacao,
	)
	if err != nil {
		return fmt.Errorf("update produto: %w", err)
	}
	return nil
}

// AtualizarQuantidade grava o novo saldo e renova data_atualizacao (usado pelo
// motor de movimentações dentro da transação).
func (r *ProdutoRepo) AtualizarQuantidade(id int64, quantidade int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE produtos SET quantidade = $2, data_atualizacao = now() WHERE id = $1`,
		id, quantidade,
	)
	if err != nil {
		return fmt.Errorf("update quantidade: %w", err)
	}
	return nil
}

// ListarPorNome busca por trecho do nome, sem diferenciar maiúsculas (ILIKE).
func (r *ProdutoRepo) ListarPorNome(nome string) ([]*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE nome ILIKE '%' || $1 || '%' ORDER BY nome`
	return r.listar(query, nome)
}

// ListarPorCategoria busca os produtos de uma categoria.
func (r *ProdutoRepo) ListarPorCategoria(categoria string) ([]*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE categoria = $1 ORDER BY nome`
	return r.listar(query, categoria)
}

// ListarTodos lista todos os produtos em ordem de nome.
func (r *ProdutoRepo) ListarTodos() ([]*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos ORDER BY nome`
	return r.listar(query)
}

// Excluir remove um produto pelo ID.
func (r *ProdutoRepo) Excluir(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete produto: %w", err)
	}
	return nil
}

func (r *ProdutoRepo) obterUm(query string, arg any) (*entity.Produto, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	produto, err := scanProduto(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get produto: %w", err)
	}
	return produto, nil
}

func (r *ProdutoRepo) listar(query string, args ...any) ([]*entity.Produto, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list produtos: %w", err)
	}
	defer rows.Close()

	lista := []*entity.Produto{}
	for rows.Next() {
		produto, err := scanProduto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}
		lista = append(lista, produto)
	}
	return lista, rows.Err()
}

func scanProduto(row pgx.Row) (*entity.Produto, error) {
	var p entity.Produto
	var categoria, descricao *string
	err := row.Scan(
		&p.ID, &p.Codigo, &p.Nome, &categoria, &descricao,
		&p.Quantidade, &p.PrecoUnitario, &p.DataCadastro, &p.DataAtualizacao,
	)
	if err != nil {
		return nil, err
	}
	if categoria != nil {
		p.Categoria = *categoria
	}
	if descricao != nil {
		p.Descricao = *descricao
	}
	return &p, nil
}

// textoOuNulo converte string vazia em NULL para colunas opcionais.
func textoOuNulo(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
