// Demonstração de ponta a ponta do sistema de estoque: cadastra produtos,
// consulta, edita, movimenta e mostra o histórico. Útil como smoke test manual
// contra um banco real (usa as mesmas variáveis de ambiente do cmd/estoque).
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/seu-usuario/estoque-pro/internal/application/estoque"
	"github.com/seu-usuario/estoque-pro/internal/domain/entity"
	"github.com/seu-usuario/estoque-pro/internal/infrastructure/postgres"
	"github.com/seu-usuario/estoque-pro/pkg/config"
	"github.com/seu-usuario/estoque-pro/pkg/logger"
)

func secao(titulo string) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Cyan("  %s", titulo)
	fmt.Println(strings.Repeat("=", 70))
}

func formatar(p *entity.Produto) string {
	return fmt.Sprintf("ID: %d | Código: %s | Nome: %s | Categoria: %s | Qtd: %d | Preço: R$ %s",
		p.ID, p.Codigo, p.Nome, p.Categoria, p.Quantidade, p.PrecoUnitario.StringFixed(2))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("criar tabelas")
	}

	uc := estoque.NewUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewProdutoRepository(pool),
		postgres.NewMovimentacaoRepository(pool),
		log,
	)

	color.Cyan("\nDEMONSTRAÇÃO DO SISTEMA DE GERENCIAMENTO DE ESTOQUE")

	secao("1. CADASTRAR PRODUTOS")
	demos := []estoque.CadastrarInput{
		{Codigo: "NB001", Nome: "Notebook Dell Inspiron", Categoria: "Eletrônicos", Descricao: "Notebook 15.6 polegadas", Quantidade: 5, PrecoUnitario: decimal.NewFromFloat(3500.00)},
		{Codigo: "NB002", Nome: "Notebook Lenovo", Categoria: "Eletrônicos", Descricao: "Notebook 14 polegadas", Quantidade: 3, PrecoUnitario: decimal.NewFromFloat(2800.00)},
		{Codigo: "MS001", Nome: "Mouse Logitech", Categoria: "Acessórios", Descricao: "Mouse wireless", Quantidade: 20, PrecoUnitario: decimal.NewFromFloat(89.90)},
		{Codigo: "KB001", Nome: "Teclado Mecânico", Categoria: "Acessórios", Descricao: "Teclado RGB", Quantidade: 10, PrecoUnitario: decimal.NewFromFloat(350.00)},
		{Codigo: "MON01", Nome: "Monitor LG 24\"", Categoria: "Eletrônicos", Descricao: "Monitor Full HD", Quantidade: 8, PrecoUnitario: decimal.NewFromFloat(800.00)},
	}
	for _, in := range demos {
		if _, err := uc.Cadastrar(ctx, in); err != nil {
			color.Red("  %s: %v", in.Nome, err)
			continue
		}
		color.Green("  %s: cadastrado com sucesso", in.Nome)
	}

	secao("2. LISTAR TODOS OS PRODUTOS")
	todos, err := uc.ListarTodos(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar produtos")
	}
	for _, p := range todos {
		fmt.Println("  " + formatar(p))
	}
	fmt.Printf("\n  Total: %d produtos cadastrados\n", len(todos))

	secao("3. CONSULTAR POR NOME (busca: 'notebook')")
	resultados, _ := uc.ConsultarPorNome(ctx, "notebook")
	for _, p := range resultados {
		fmt.Println("  " + formatar(p))
	}

	secao("4. CONSULTAR POR CATEGORIA (Acessórios)")
	resultados, _ = uc.ConsultarPorCategoria(ctx, "Acessórios")
	for _, p := range resultados {
		fmt.Println("  " + formatar(p))
	}

	secao("5. EDITAR PRODUTO (MS001)")
	mouse, err := uc.ConsultarPorCodigo(ctx, "MS001")
	if err != nil {
		log.Fatal().Err(err).Msg("consultar MS001")
	}
	fmt.Println("  Antes:  " + formatar(mouse))
	novoNome := "Mouse Logitech MX"
	novoPreco := decimal.NewFromFloat(99.90)
	mouse, err = uc.Editar(ctx, mouse.ID, estoque.EditarInput{Nome: &novoNome, PrecoUnitario: &novoPreco})
	if err != nil {
		log.Fatal().Err(err).Msg("editar MS001")
	}
	fmt.Println("  Depois: " + formatar(mouse))

	secao("6. MOVIMENTAÇÕES (NB001)")
	nb, err := uc.ConsultarPorCodigo(ctx, "NB001")
	if err != nil {
		log.Fatal().Err(err).Msg("consultar NB001")
	}
	nb, _ = uc.EntradaEstoque(ctx, nb.ID, 10, "Reposição de estoque")
	color.Green("  Entrada de 10 unidades. Saldo: %d", nb.Quantidade)
	nb, _ = uc.SaidaEstoque(ctx, nb.ID, 7, "Venda")
	color.Green("  Saída de 7 unidades. Saldo: %d", nb.Quantidade)
	if _, err := uc.SaidaEstoque(ctx, nb.ID, 1000, "Venda impossível"); err != nil {
		color.Yellow("  Saída de 1000 unidades recusada: %v", err)
	}

	secao("7. HISTÓRICO DE MOVIMENTAÇÕES (NB001)")
	movs, err := uc.Historico(ctx, nb.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("histórico NB001")
	}
	for _, mov := range movs {
		fmt.Printf("  %s | %-7s | %d | %s\n",
			mov.DataMovimentacao.Format("02/01/2006 15:04:05"), mov.Tipo, mov.Quantidade, mov.Observacao)
	}

	secao("8. EXCLUIR PRODUTO (MON01)")
	monitor, err := uc.ConsultarPorCodigo(ctx, "MON01")
	if err != nil {
		log.Fatal().Err(err).Msg("consultar MON01")
	}
	excluido, err := uc.Excluir(ctx, monitor.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("excluir MON01")
	}
	color.Green("  Produto '%s' excluído com sucesso!", excluido.Nome)

	fmt.Println("\nDemonstração concluída.")
}
