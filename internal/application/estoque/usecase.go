package estoque

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seu-usuario/estoque-pro/internal/domain"
	"github.com/seu-usuario/estoque-pro/internal/domain/entity"
	"github.com/seu-usuario/estoque-pro/internal/domain/repository"
	"github.com/seu-usuario/estoque-pro/pkg/logger"
)

// ObservacaoEstoqueInicial é a observação da movimentação de entrada gerada
// junto com o cadastro de um produto com quantidade inicial maior que zero.
const ObservacaoEstoqueInicial = "Estoque inicial"

// UseCase implementa o serviço de estoque: CRUD de produtos, entrada/saída com
// registro no livro-razão e consultas. Toda validação de negócio acontece aqui,
// sem confiar na camada de apresentação. Cada mutação composta roda em uma
// única transação via TxRunner.
type UseCase struct {
	txRunner    TxRunner
	produtoRepo repository.ProdutoRepository
	movRepo     repository.MovimentacaoRepository
	validate    *validator.Validate
	log         *logger.Logger
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	txRunner TxRunner,
	produtoRepo repository.ProdutoRepository,
	movRepo repository.MovimentacaoRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		produtoRepo: produtoRepo,
		movRepo:     movRepo,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		log:         log,
	}
}

// CadastrarInput entrada para cadastrar um produto.
type CadastrarInput struct {
	Codigo        string `validate:"required"`
	Nome          string `validate:"required"`
	Categoria     string
	Descricao     string
	Quantidade    int64 `validate:"gte=0"`
	PrecoUnitario decimal.Decimal
}

// EditarInput campos opcionais da edição de cadastro. Quantidade nunca é
// editável por aqui; só muda via EntradaEstoque/SaidaEstoque.
type EditarInput struct {
	Nome          *string
	Categoria     *string
	Descricao     *string
	PrecoUnitario *decimal.Decimal
}

func (in EditarInput) vazio() bool {
	return in.Nome == nil && in.Categoria == nil && in.Descricao == nil && in.PrecoUnitario == nil
}

// Cadastrar registra um novo produto. Se a quantidade inicial for maior que
// zero, grava também uma movimentação ENTRADA ("Estoque inicial") na mesma
// transação. Código duplicado devolve ErrCodigoDuplicado.
func (uc *UseCase) Cadastrar(ctx context.Context, in CadastrarInput) (*entity.Produto, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEntradaInvalida, err)
	}
	if in.PrecoUnitario.IsNegative() {
		return nil, fmt.Errorf("%w: preço unitário não pode ser negativo", domain.ErrEntradaInvalida)
	}

	existente, err := uc.produtoRepo.ObterPorCodigo(in.Codigo)
	if err != nil {
		return nil, fmt.Errorf("consultar código: %w", err)
	}
	if existente != nil {
		return nil, domain.ErrCodigoDuplicado
	}

	now := time.Now()
	produto := &entity.Produto{
		Codigo:          in.Codigo,
		Nome:            in.Nome,
		Categoria:       in.Categoria,
		Descricao:       in.Descricao,
		Quantidade:      in.Quantidade,
		PrecoUnitario:   in.PrecoUnitario,
		DataCadastro:    now,
		DataAtualizacao: now,
	}

	opID := uuid.New().String()
	err = uc.txRunner.Run(ctx, func(
		produtoRepo repository.ProdutoRepository,
		movRepo repository.MovimentacaoRepository,
	) error {
		if err := produtoRepo.Criar(produto); err != nil {
			return err
		}
		if produto.Quantidade > 0 {
			return movRepo.Criar(&entity.Movimentacao{
				ProdutoID:        produto.ID,
				Tipo:             entity.TipoEntrada,
				Quantidade:       produto.Quantidade,
				Observacao:       ObservacaoEstoqueInicial,
				DataMovimentacao: now,
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCodigoDuplicado) {
			return nil, domain.ErrCodigoDuplicado
		}
		return nil, fmt.Errorf("cadastrar produto: %w", err)
	}

	uc.log.Info().
		Str("op_id", opID).
		Int64("produto_id", produto.ID).
		Str("codigo", produto.Codigo).
		Int64("quantidade", produto.Quantidade).
		Msg("produto cadastrado")
	return produto, nil
}

// Editar atualiza campos de cadastro de um produto (parcial). Conjunto vazio de
// campos devolve ErrNadaParaAtualizar sem tocar na linha (data_atualizacao
// inclusive). Sempre renova data_atualizacao quando há mudança.
func (uc *UseCase) Editar(ctx context.Context, id int64, in EditarInput) (*entity.Produto, error) {
	if in.vazio() {
		return nil, domain.ErrNadaParaAtualizar
	}
	if in.PrecoUnitario != nil && in.PrecoUnitario.IsNegative() {
		return nil, fmt.Errorf("%w: preço unitário não pode ser negativo", domain.ErrEntradaInvalida)
	}

	produto, err := uc.produtoRepo.ObterPorID(id)
	if err != nil {
		return nil, fmt.Errorf("consultar produto: %w", err)
	}
	if produto == nil {
		return nil, domain.ErrProdutoNaoEncontrado
	}

	if in.Nome != nil {
		if *in.Nome == "" {
			return nil, fmt.Errorf("%w: nome não pode ser vazio", domain.ErrEntradaInvalida)
		}
		produto.Nome = *in.Nome
	}
	if in.Categoria != nil {
		produto.Categoria = *in.Categoria
	}
	if in.Descricao != nil {
		produto.Descricao = *in.Descricao
	}
	if in.PrecoUnitario != nil {
		produto.PrecoUnitario = *in.PrecoUnitario
	}
	produto.DataAtualizacao = time.Now()

	if err := uc.produtoRepo.Atualizar(produto); err != nil {
		return nil, fmt.Errorf("atualizar produto: %w", err)
	}

	uc.log.Info().Int64("produto_id", produto.ID).Msg("produto atualizado")
	return produto, nil
}

// Excluir remove um produto e todas as suas movimentações na mesma transação
// (nenhuma linha órfã no livro-razão). Devolve o produto excluído para a
// mensagem de confirmação.
func (uc *UseCase) Excluir(ctx context.Context, id int64) (*entity.Produto, error) {
	produto, err := uc.produtoRepo.ObterPorID(id)
	if err != nil {
		return nil, fmt.Errorf("consultar produto: %w", err)
	}
	if produto == nil {
		return nil, domain.ErrProdutoNaoEncontrado
	}

	err = uc.txRunner.Run(ctx, func(
		produtoRepo repository.ProdutoRepository,
		movRepo repository.MovimentacaoRepository,
	) error {
		if err := movRepo.ExcluirPorProduto(id); err != nil {
			return err
		}
		return produtoRepo.Excluir(id)
	})
	if err != nil {
		return nil, fmt.Errorf("excluir produto: %w", err)
	}

	uc.log.Info().Int64("produto_id", id).Str("nome", produto.Nome).Msg("produto excluído")
	return produto, nil
}

// EntradaEstoque soma quantidade ao saldo e grava uma movimentação ENTRADA,
// atomicamente. A linha do produto é bloqueada (SELECT FOR UPDATE) antes da
// soma.
func (uc *UseCase) EntradaEstoque(ctx context.Context, id int64, quantidade int64, observacao string) (*entity.Produto, error) {
	return uc.movimentar(ctx, id, quantidade, observacao, entity.TipoEntrada)
}

// SaidaEstoque subtrai quantidade do saldo e grava uma movimentação SAIDA,
// atomicamente. Saldo menor que o pedido devolve ErrEstoqueInsuficiente com a
// quantidade disponível na mensagem.
func (uc *UseCase) SaidaEstoque(ctx context.Context, id int64, quantidade int64, observacao string) (*entity.Produto, error) {
	return uc.movimentar(ctx, id, quantidade, observacao, entity.TipoSaida)
}

func (uc *UseCase) movimentar(ctx context.Context, id int64, quantidade int64, observacao, tipo string) (*entity.Produto, error) {
	if quantidade <= 0 {
		return nil, domain.ErrQuantidadeInvalida
	}

	now := time.Now()
	opID := uuid.New().String()
	var produto *entity.Produto

	err := uc.txRunner.Run(ctx, func(
		produtoRepo repository.ProdutoRepository,
		movRepo repository.MovimentacaoRepository,
	) error {
		p, err := produtoRepo.ObterPorIDParaAtualizar(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProdutoNaoEncontrado
		}
		switch tipo {
		case entity.TipoEntrada:
			p.Quantidade += quantidade
		case entity.TipoSaida:
			if p.Quantidade < quantidade {
				return fmt.Errorf("%w: disponível %d", domain.ErrEstoqueInsuficiente, p.Quantidade)
			}
			p.Quantidade -= quantidade
		}
		if err := produtoRepo.AtualizarQuantidade(p.ID, p.Quantidade); err != nil {
			return err
		}
		p.DataAtualizacao = now
		produto = p
		return movRepo.Criar(&entity.Movimentacao{
			ProdutoID:        p.ID,
			Tipo:             tipo,
			Quantidade:       quantidade,
			Observacao:       observacao,
			DataMovimentacao: now,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrProdutoNaoEncontrado) || errors.Is(err, domain.ErrEstoqueInsuficiente) {
			return nil, err
		}
		return nil, fmt.Errorf("registrar movimentação: %w", err)
	}

	uc.log.Info().
		Str("op_id", opID).
		Int64("produto_id", id).
		Str("tipo", tipo).
		Int64("quantidade", quantidade).
		Int64("saldo", produto.Quantidade).
		Msg("movimentação registrada")
	return produto, nil
}

// ConsultarPorID busca um produto pelo ID.
func (uc *UseCase) ConsultarPorID(ctx context.Context, id int64) (*entity.Produto, error) {
	produto, err := uc.produtoRepo.ObterPorID(id)
	if err != nil {
		return nil, fmt.Errorf("consultar produto: %w", err)
	}
	if produto == nil {
		return nil, domain.ErrProdutoNaoEncontrado
	}
	return produto, nil
}

// ConsultarPorCodigo busca um produto pelo código de negócio.
func (uc *UseCase) ConsultarPorCodigo(ctx context.Context, codigo string) (*entity.Produto, error) {
	produto, err := uc.produtoRepo.ObterPorCodigo(codigo)
	if err != nil {
		return nil, fmt.Errorf("consultar produto: %w", err)
	}
	if produto == nil {
		return nil, domain.ErrProdutoNaoEncontrado
	}
	return produto, nil
}

// ConsultarPorNome busca produtos por trecho do nome, sem diferenciar
// maiúsculas de minúsculas.
func (uc *UseCase) ConsultarPorNome(ctx context.Context, nome string) ([]*entity.Produto, error) {
	lista, err := uc.produtoRepo.ListarPorNome(nome)
	if err != nil {
		return nil, fmt.Errorf("consultar por nome: %w", err)
	}
	return lista, nil
}

// ConsultarPorCategoria busca produtos de uma categoria.
func (uc *UseCase) ConsultarPorCategoria(ctx context.Context, categoria string) ([]*entity.Produto, error) {
	lista, err := uc.produtoRepo.ListarPorCategoria(categoria)
	if err != nil {
		return nil, fmt.Errorf("consultar por categoria: %w", err)
	}
	return lista, nil
}

// ListarTodos lista todos os produtos em ordem alfabética de nome.
func (uc *UseCase) ListarTodos(ctx context.Context) ([]*entity.Produto, error) {
	lista, err := uc.produtoRepo.ListarTodos()
	if err != nil {
		return nil, fmt.Errorf("listar produtos: %w", err)
	}
	return lista, nil
}

// Historico devolve as movimentações de um produto, mais recentes primeiro.
// Lista vazia quando não há movimentações (não é erro).
func (uc *UseCase) Historico(ctx context.Context, produtoID int64) ([]*entity.Movimentacao, error) {
	movs, err := uc.movRepo.ListarPorProduto(produtoID)
	if err != nil {
		return nil, fmt.Errorf("consultar histórico: %w", err)
	}
	return movs, nil
}
