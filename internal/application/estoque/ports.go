package estoque

import (
	"context"

	"github.com/seu-usuario/estoque-pro/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação do banco, passando
// repositórios atados a essa tx. Garante atomicidade das mutações compostas
// (cadastro com estoque inicial, entrada/saída, exclusão em cascata).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		produtoRepo repository.ProdutoRepository,
		movRepo repository.MovimentacaoRepository,
	) error) error
}
