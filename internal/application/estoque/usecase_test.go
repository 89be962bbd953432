package estoque_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-usuario/estoque-pro/internal/application/estoque"
	"github.com/seu-usuario/estoque-pro/internal/domain"
	"github.com/seu-usuario/estoque-pro/internal/domain/entity"
	"github.com/seu-usuario/estoque-pro/internal/domain/repository"
	"github.com/seu-usuario/estoque-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: store em memória + TxRunner com snapshot/restore para simular o
// contrato tudo-ou-nada da transação.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	produtos   map[int64]*entity.Produto
	movs       []*entity.Movimentacao
	seqProduto int64
	seqMov     int64

	falharCriarMov bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{produtos: map[int64]*entity.Produto{}}
}

func clonarProduto(p *entity.Produto) *entity.Produto {
	c := *p
	return &c
}

func (s *fakeStore) Criar(produto *entity.Produto) error {
	for _, p := range s.produtos {
		if p.Codigo == produto.Codigo {
			return domain.ErrCodigoDuplicado
		}
	}
	s.seqProduto++
	produto.ID = s.seqProduto
	s.produtos[produto.ID] = clonarProduto(produto)
	return nil
}

func (s *fakeStore) ObterPorID(id int64) (*entity.Produto, error) {
	p, ok := s.produtos[id]
	if !ok {
		return nil, nil
	}
	return clonarProduto(p), nil
}

func (s *fakeStore) ObterPorCodigo(codigo string) (*entity.Produto, error) {
	for _, p := range s.produtos {
		if p.Codigo == codigo {
			return clonarProduto(p), nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ObterPorIDParaAtualizar(id int64) (*entity.Produto, error) {
	return s.ObterPorID(id)
}

func (s *fakeStore) Atualizar(produto *entity.Produto) error {
	if _, ok := s.produtos[produto.ID]; !ok {
		return nil
	}
	s.produtos[produto.ID] = clonarProduto(produto)
	return nil
}

func (s *fakeStore) AtualizarQuantidade(id int64, quantidade int64) error {
	p, ok := s.produtos[id]
	if !ok {
		return nil
	}
	p.Quantidade = quantidade
	p.DataAtualizacao = time.Now()
	return nil
}

func (s *fakeStore) ListarPorNome(nome string) ([]*entity.Produto, error) {
	alvo := strings.ToLower(nome)
	var lista []*entity.Produto
	for _, p := range s.produtos {
		if strings.Contains(strings.ToLower(p.Nome), alvo) {
			lista = append(lista, clonarProduto(p))
		}
	}
	ordenarPorNome(lista)
	return lista, nil
}

func (s *fakeStore) ListarPorCategoria(categoria string) ([]*entity.Produto, error) {
	var lista []*entity.Produto
	for _, p := range s.produtos {
		if p.Categoria == categoria {
			lista = append(lista, clonarProduto(p))
		}
	}
	ordenarPorNome(lista)
	return lista, nil
}

func (s *fakeStore) ListarTodos() ([]*entity.Produto, error) {
	var lista []*entity.Produto
	for _, p := range s.produtos {
		lista = append(lista, clonarProduto(p))
	}
	ordenarPorNome(lista)
	return lista, nil
}

func (s *fakeStore) Excluir(id int64) error {
	delete(s.produtos, id)
	return nil
}

func (s *fakeStore) CriarMovimentacao(mov *entity.Movimentacao) error {
	if s.falharCriarMov {
		return errors.New("falha simulada no insert")
	}
	s.seqMov++
	mov.ID = s.seqMov
	c := *mov
	s.movs = append(s.movs, &c)
	return nil
}

func (s *fakeStore) ListarPorProduto(produtoID int64) ([]*entity.Movimentacao, error) {
	produto, ok := s.produtos[produtoID]
	if !ok {
		// sem linha em produtos o join não devolve nada
		return []*entity.Movimentacao{}, nil
	}
	lista := []*entity.Movimentacao{}
	for _, m := range s.movs {
		if m.ProdutoID == produtoID {
			c := *m
			c.ProdutoNome = produto.Nome
			lista = append(lista, &c)
		}
	}
	sort.Slice(lista, func(i, j int) bool {
		if !lista[i].DataMovimentacao.Equal(lista[j].DataMovimentacao) {
			return lista[i].DataMovimentacao.After(lista[j].DataMovimentacao)
		}
		return lista[i].ID > lista[j].ID
	})
	return lista, nil
}

func (s *fakeStore) ExcluirPorProduto(produtoID int64) error {
	restantes := s.movs[:0]
	for _, m := range s.movs {
		if m.ProdutoID != produtoID {
			restantes = append(restantes, m)
		}
	}
	s.movs = restantes
	return nil
}

// movRepoAdapter expõe o fakeStore como MovimentacaoRepository (Criar colide
// com o Criar de produto, daí o adaptador).
type movRepoAdapter struct{ s *fakeStore }

func (a movRepoAdapter) Criar(mov *entity.Movimentacao) error { return a.s.CriarMovimentacao(mov) }
func (a movRepoAdapter) ListarPorProduto(id int64) ([]*entity.Movimentacao, error) {
	return a.s.ListarPorProduto(id)
}
func (a movRepoAdapter) ExcluirPorProduto(id int64) error { return a.s.ExcluirPorProduto(id) }

// fakeTxRunner tira um snapshot do estado antes de fn e restaura se fn falhar,
// reproduzindo o Commit/Rollback do TxRunner real.
type fakeTxRunner struct{ s *fakeStore }

func (r fakeTxRunner) Run(_ context.Context, fn func(
	produtoRepo repository.ProdutoRepository,
	movRepo repository.MovimentacaoRepository,
) error) error {
	produtosAntes := map[int64]*entity.Produto{}
	for id, p := range r.s.produtos {
		produtosAntes[id] = clonarProduto(p)
	}
	movsAntes := make([]*entity.Movimentacao, len(r.s.movs))
	for i, m := range r.s.movs {
		c := *m
		movsAntes[i] = &c
	}
	seqProdutoAntes, seqMovAntes := r.s.seqProduto, r.s.seqMov

	if err := fn(r.s, movRepoAdapter{r.s}); err != nil {
		r.s.produtos = produtosAntes
		r.s.movs = movsAntes
		r.s.seqProduto, r.s.seqMov = seqProdutoAntes, seqMovAntes
		return err
	}
	return nil
}

func ordenarPorNome(lista []*entity.Produto) {
	sort.Slice(lista, func(i, j int) bool { return lista[i].Nome < lista[j].Nome })
}

func novoUseCase(t *testing.T) (*estoque.UseCase, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	uc := estoque.NewUseCase(fakeTxRunner{store}, store, movRepoAdapter{store}, logger.Nop())
	return uc, store
}

func cadastrarNotebook(t *testing.T, uc *estoque.UseCase) *entity.Produto {
	t.Helper()
	produto, err := uc.Cadastrar(context.Background(), estoque.CadastrarInput{
		Codigo:        "NB001",
		Nome:          "Notebook",
		Categoria:     "Eletrônicos",
		Descricao:     "Notebook 15.6 polegadas",
		Quantidade:    5,
		PrecoUnitario: decimal.NewFromFloat(3500.00),
	})
	require.NoError(t, err)
	return produto
}

// ──────────────────────────────────────────────────────────────────────────────
// Cadastro
// ──────────────────────────────────────────────────────────────────────────────

func TestCadastrarComEstoqueInicial(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto := cadastrarNotebook(t, uc)
	assert.NotZero(t, produto.ID)
	assert.Equal(t, int64(5), produto.Quantidade)

	movs, err := uc.Historico(ctx, produto.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.TipoEntrada, movs[0].Tipo)
	assert.Equal(t, int64(5), movs[0].Quantidade)
	assert.Equal(t, estoque.ObservacaoEstoqueInicial, movs[0].Observacao)
	assert.Equal(t, "Notebook", movs[0].ProdutoNome)
}

func TestCadastrarSemEstoqueInicial(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto, err := uc.Cadastrar(ctx, estoque.CadastrarInput{Codigo: "MS001", Nome: "Mouse"})
	require.NoError(t, err)

	movs, err := uc.Historico(ctx, produto.ID)
	require.NoError(t, err)
	assert.Empty(t, movs, "quantidade zero não deve gerar movimentação")
}

func TestCadastrarCodigoDuplicado(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	original := cadastrarNotebook(t, uc)

	_, err := uc.Cadastrar(ctx, estoque.CadastrarInput{
		Codigo: "NB001", Nome: "Outro Notebook", Quantidade: 2,
	})
	require.ErrorIs(t, err, domain.ErrCodigoDuplicado)

	// O primeiro produto permanece intacto
	intacto, err := uc.ConsultarPorID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notebook", intacto.Nome)
	assert.Equal(t, int64(5), intacto.Quantidade)
}

func TestCadastrarEntradaInvalida(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	_, err := uc.Cadastrar(ctx, estoque.CadastrarInput{Nome: "Sem código"})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)

	_, err = uc.Cadastrar(ctx, estoque.CadastrarInput{Codigo: "X1", Nome: "Qtd negativa", Quantidade: -1})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)

	_, err = uc.Cadastrar(ctx, estoque.CadastrarInput{
		Codigo: "X2", Nome: "Preço negativo", PrecoUnitario: decimal.NewFromInt(-10),
	})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edição
// ──────────────────────────────────────────────────────────────────────────────

func TestEditarParcial(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto := cadastrarNotebook(t, uc)
	antes := produto.DataAtualizacao

	novoNome := "Notebook Dell"
	novoPreco := decimal.NewFromFloat(3299.90)
	editado, err := uc.Editar(ctx, produto.ID, estoque.EditarInput{
		Nome: &novoNome, PrecoUnitario: &novoPreco,
	})
	require.NoError(t, err)

	assert.Equal(t, "Notebook Dell", editado.Nome)
	assert.True(t, editado.PrecoUnitario.Equal(novoPreco))
	assert.Equal(t, "Eletrônicos", editado.Categoria, "campo não informado não muda")
	assert.Equal(t, int64(5), editado.Quantidade, "edição nunca altera quantidade")
	assert.False(t, editado.DataAtualizacao.Before(antes))
}

func TestEditarSemCampos(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto := cadastrarNotebook(t, uc)

	_, err := uc.Editar(ctx, produto.ID, estoque.EditarInput{})
	require.ErrorIs(t, err, domain.ErrNadaParaAtualizar)

	// Nada mudou, nem data_atualizacao
	depois, err := uc.ConsultarPorID(ctx, produto.ID)
	require.NoError(t, err)
	assert.True(t, depois.DataAtualizacao.Equal(produto.DataAtualizacao))
}

func TestEditarNaoEncontrado(t *testing.T) {
	uc, _ := novoUseCase(t)

	nome := "Fantasma"
	_, err := uc.Editar(context.Background(), 999, estoque.EditarInput{Nome: &nome})
	assert.ErrorIs(t, err, domain.ErrProdutoNaoEncontrado)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exclusão
// ──────────────────────────────────────────────────────────────────────────────

func TestExcluirCascata(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto := cadastrarNotebook(t, uc)
	_, err := uc.EntradaEstoque(ctx, produto.ID, 3, "reposição")
	require.NoError(t, err)

	excluido, err := uc.Excluir(ctx, produto.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notebook", excluido.Nome)

	_, err = uc.ConsultarPorID(ctx, produto.ID)
	assert.ErrorIs(t, err, domain.ErrProdutoNaoEncontrado)

	movs, err := uc.Historico(ctx, produto.ID)
	require.NoError(t, err)
	assert.Empty(t, movs, "exclusão deve levar as movimentações junto")
}

func TestExcluirNaoEncontrado(t *testing.T) {
	uc, _ := novoUseCase(t)

	_, err := uc.Excluir(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrProdutoNaoEncontrado)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entrada / saída de estoque
// ──────────────────────────────────────────────────────────────────────────────

func TestMovimentacoesCenarioCompleto(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto := cadastrarNotebook(t, uc) // 5 unidades iniciais

	produto, err := uc.EntradaEstoque(ctx, produto.ID, 10, "reposição")
	require.NoError(t, err)
	assert.Equal(t, int64(15), produto.Quantidade)

	produto, err = uc.SaidaEstoque(ctx, produto.ID, 7, "venda")
	require.NoError(t, err)
	assert.Equal(t, int64(8), produto.Quantidade)

	// Saída maior que o saldo é recusada e informa o disponível
	_, err = uc.SaidaEstoque(ctx, produto.ID, 1000, "x")
	require.ErrorIs(t, err, domain.ErrEstoqueInsuficiente)
	assert.Contains(t, err.Error(), "disponível 8")

	depois, err := uc.ConsultarPorID(ctx, produto.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), depois.Quantidade, "saída recusada não altera o saldo")

	// Histórico: 3 movimentações, mais recentes primeiro
	movs, err := uc.Historico(ctx, produto.ID)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.TipoSaida, movs[0].Tipo)
	assert.Equal(t, int64(7), movs[0].Quantidade)
	assert.Equal(t, entity.TipoEntrada, movs[1].Tipo)
	assert.Equal(t, int64(10), movs[1].Quantidade)
	assert.Equal(t, entity.TipoEntrada, movs[2].Tipo)
	assert.Equal(t, int64(5), movs[2].Quantidade)
}

func TestMovimentacaoQuantidadeInvalida(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto := cadastrarNotebook(t, uc)

	for _, quantidade := range []int64{0, -5} {
		_, err := uc.EntradaEstoque(ctx, produto.ID, quantidade, "")
		assert.ErrorIs(t, err, domain.ErrQuantidadeInvalida)

		_, err = uc.SaidaEstoque(ctx, produto.ID, quantidade, "")
		assert.ErrorIs(t, err, domain.ErrQuantidadeInvalida)
	}
}

func TestMovimentacaoProdutoInexistente(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	_, err := uc.EntradaEstoque(ctx, 999, 1, "")
	assert.ErrorIs(t, err, domain.ErrProdutoNaoEncontrado)

	_, err = uc.SaidaEstoque(ctx, 999, 1, "")
	assert.ErrorIs(t, err, domain.ErrProdutoNaoEncontrado)
}

func TestEntradaAtomica(t *testing.T) {
	uc, store := novoUseCase(t)
	ctx := context.Background()

	produto := cadastrarNotebook(t, uc)

	// Se o insert da movimentação falha, a transação desfaz o saldo
	store.falharCriarMov = true
	_, err := uc.EntradaEstoque(ctx, produto.ID, 10, "")
	require.Error(t, err)
	store.falharCriarMov = false

	depois, err := uc.ConsultarPorID(ctx, produto.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), depois.Quantidade, "sem movimentação não pode haver mudança de saldo")

	movs, err := uc.Historico(ctx, produto.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "só a movimentação do estoque inicial")
}

func TestInvarianteDoLedger(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto := cadastrarNotebook(t, uc)

	passos := []struct {
		tipo       string
		quantidade int64
	}{
		{entity.TipoEntrada, 12},
		{entity.TipoSaida, 3},
		{entity.TipoEntrada, 1},
		{entity.TipoSaida, 9},
		{entity.TipoSaida, 100}, // recusada, não entra no ledger
		{entity.TipoEntrada, 4},
	}
	for _, passo := range passos {
		if passo.tipo == entity.TipoEntrada {
			_, _ = uc.EntradaEstoque(ctx, produto.ID, passo.quantidade, "")
		} else {
			_, _ = uc.SaidaEstoque(ctx, produto.ID, passo.quantidade, "")
		}
	}

	atual, err := uc.ConsultarPorID(ctx, produto.ID)
	require.NoError(t, err)

	movs, err := uc.Historico(ctx, produto.ID)
	require.NoError(t, err)

	var saldo int64
	for _, m := range movs {
		switch m.Tipo {
		case entity.TipoEntrada:
			saldo += m.Quantidade
		case entity.TipoSaida:
			saldo -= m.Quantidade
		}
	}
	assert.Equal(t, saldo, atual.Quantidade, "quantidade deve ser Σ(ENTRADA) − Σ(SAIDA)")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestConsultas(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	for _, in := range []estoque.CadastrarInput{
		{Codigo: "NB001", Nome: "Notebook Dell", Categoria: "Eletrônicos", Quantidade: 5},
		{Codigo: "MS001", Nome: "Mouse Logitech", Categoria: "Acessórios", Quantidade: 20},
		{Codigo: "KB001", Nome: "Teclado Mecânico", Categoria: "Acessórios", Quantidade: 10},
	} {
		_, err := uc.Cadastrar(ctx, in)
		require.NoError(t, err)
	}

	porCodigo, err := uc.ConsultarPorCodigo(ctx, "MS001")
	require.NoError(t, err)
	assert.Equal(t, "Mouse Logitech", porCodigo.Nome)

	_, err = uc.ConsultarPorCodigo(ctx, "ZZ999")
	assert.ErrorIs(t, err, domain.ErrProdutoNaoEncontrado)

	// Busca por nome não diferencia maiúsculas de minúsculas
	porNome, err := uc.ConsultarPorNome(ctx, "noteBOOK")
	require.NoError(t, err)
	require.Len(t, porNome, 1)
	assert.Equal(t, "Notebook Dell", porNome[0].Nome)

	porCategoria, err := uc.ConsultarPorCategoria(ctx, "Acessórios")
	require.NoError(t, err)
	assert.Len(t, porCategoria, 2)

	todos, err := uc.ListarTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	nomes := []string{todos[0].Nome, todos[1].Nome, todos[2].Nome}
	assert.Equal(t, []string{"Mouse Logitech", "Notebook Dell", "Teclado Mecânico"}, nomes, "ordenado por nome")
}

func TestHistoricoVazio(t *testing.T) {
	uc, _ := novoUseCase(t)
	ctx := context.Background()

	produto, err := uc.Cadastrar(ctx, estoque.CadastrarInput{Codigo: "V1", Nome: "Vazio"})
	require.NoError(t, err)

	movs, err := uc.Historico(ctx, produto.ID)
	require.NoError(t, err)
	assert.NotNil(t, movs)
	assert.Empty(t, movs)
}
