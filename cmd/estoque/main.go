package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/seu-usuario/estoque-pro/internal/application/estoque"
	"github.com/seu-usuario/estoque-pro/internal/domain"
	"github.com/seu-usuario/estoque-pro/internal/domain/entity"
	"github.com/seu-usuario/estoque-pro/internal/infrastructure/postgres"
	"github.com/seu-usuario/estoque-pro/pkg/config"
	"github.com/seu-usuario/estoque-pro/pkg/logger"
)

var (
	verde    = color.New(color.FgGreen)
	vermelho = color.New(color.FgRed)
	amarelo  = color.New(color.FgYellow)
	ciano    = color.New(color.FgCyan)
)

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

	produtoRepo := postgres.NewProdutoRepository(pool)
	movRepo := postgres.NewMovimentacaoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	uc := estoque.NewUseCase(txRunner, produtoRepo, movRepo, log)

	m := &menu{uc: uc, in: bufio.NewReader(os.Stdin)}
	m.loop(ctx)
}

type menu struct {
	uc *estoque.UseCase
	in *bufio.Reader
}

func (m *menu) loop(ctx context.Context) {
	for {
		fmt.Println("\n" + strings.Repeat("=", 60))
		ciano.Println(centralizar("SISTEMA DE GERENCIAMENTO DE ESTOQUE", 60))
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println("\n[1] Cadastrar Produto")
		fmt.Println("[2] Editar Produto")
		fmt.Println("[3] Excluir Produto")
		fmt.Println("[4] Consultar Produtos")
		fmt.Println("[5] Entrada de Estoque")
		fmt.Println("[6] Saída de Estoque")
		fmt.Println("[7] Histórico de Movimentações")
		fmt.Println("[8] Listar Todos os Produtos")
		fmt.Println("[0] Sair")
		fmt.Println("\n" + strings.Repeat("-", 60))

		switch m.lerTexto("Escolha uma opção: ") {
		case "1":
			m.cadastrar(ctx)
		case "2":
			m.editar(ctx)
		case "3":
			m.excluir(ctx)
		case "4":
			m.consultar(ctx)
		case "5":
			m.movimentar(ctx, entity.TipoEntrada)
		case "6":
			m.movimentar(ctx, entity.TipoSaida)
		case "7":
			m.historico(ctx)
		case "8":
			m.listarTodos(ctx)
		case "0":
			fmt.Println("Encerrando...")
			return
		default:
			vermelho.Println("Opção inválida!")
		}
	}
}

func (m *menu) cadastrar(ctx context.Context) {
	fmt.Println("\n" + centralizar("CADASTRAR NOVO PRODUTO", 60))

	in := estoque.CadastrarInput{
		Codigo:    m.lerTexto("Código do Produto: "),
		Nome:      m.lerTexto("Nome: "),
		Categoria: m.lerTexto("Categoria (opcional): "),
		Descricao: m.lerTexto("Descrição (opcional): "),
	}
	var ok bool
	if in.Quantidade, ok = m.lerInt64("Quantidade inicial: "); !ok {
		return
	}
	if in.PrecoUnitario, ok = m.lerDecimal("Preço unitário: "); !ok {
		return
	}

	produto, err := m.uc.Cadastrar(ctx, in)
	if err != nil {
		m.mostrarErro(err)
		return
	}
	verde.Printf("Produto '%s' cadastrado com sucesso! (ID %d)\n", produto.Nome, produto.ID)
}

func (m *menu) editar(ctx context.Context) {
	fmt.Println("\n" + centralizar("EDITAR PRODUTO", 60))
	id, ok := m.lerInt64("ID do produto: ")
	if !ok {
		return
	}

	fmt.Println("Deixe em branco para manter o valor atual.")
	in := estoque.EditarInput{
		Nome:      m.lerOpcional("Novo nome: "),
		Categoria: m.lerOpcional("Nova categoria: "),
		Descricao: m.lerOpcional("Nova descrição: "),
	}
	if s := m.lerTexto("Novo preço unitário: "); s != "" {
		preco, err := decimal.NewFromString(s)
		if err != nil {
			vermelho.Println("Preço inválido!")
			return
		}
		in.PrecoUnitario = &preco
	}

	produto, err := m.uc.Editar(ctx, id, in)
	if err != nil {
		if errors.Is(err, domain.ErrNadaParaAtualizar) {
			amarelo.Println("Nenhuma informação para atualizar.")
			return
		}
		m.mostrarErro(err)
		return
	}
	verde.Printf("Produto '%s' atualizado com sucesso!\n", produto.Nome)
}

func (m *menu) excluir(ctx context.Context) {
	fmt.Println("\n" + centralizar("EXCLUIR PRODUTO", 60))
	id, ok := m.lerInt64("ID do produto: ")
	if !ok {
		return
	}
	if !strings.EqualFold(m.lerTexto("Confirma a exclusão? (s/n): "), "s") {
		amarelo.Println("Exclusão cancelada.")
		return
	}

	produto, err := m.uc.Excluir(ctx, id)
	if err != nil {
		m.mostrarErro(err)
		return
	}
	verde.Printf("Produto '%s' excluído com sucesso!\n", produto.Nome)
}

func (m *menu) consultar(ctx context.Context) {
	fmt.Println("\n[1] Por ID  [2] Por código  [3] Por nome  [4] Por categoria")
	switch m.lerTexto("Tipo de consulta: ") {
	case "1":
		id, ok := m.lerInt64("ID: ")
		if !ok {
			return
		}
		produto, err := m.uc.ConsultarPorID(ctx, id)
		if err != nil {
			m.mostrarErro(err)
			return
		}
		imprimirProduto(produto)
	case "2":
		produto, err := m.uc.ConsultarPorCodigo(ctx, m.lerTexto("Código: "))
		if err != nil {
			m.mostrarErro(err)
			return
		}
		imprimirProduto(produto)
	case "3":
		m.imprimirLista(m.uc.ConsultarPorNome(ctx, m.lerTexto("Nome (ou parte): ")))
	case "4":
		m.imprimirLista(m.uc.ConsultarPorCategoria(ctx, m.lerTexto("Categoria: ")))
	default:
		vermelho.Println("Opção inválida!")
	}
}

func (m *menu) movimentar(ctx context.Context, tipo string) {
	titulo := "ENTRADA DE ESTOQUE"
	if tipo == entity.TipoSaida {
		titulo = "SAÍDA DE ESTOQUE"
	}
	fmt.Println("\n" + centralizar(titulo, 60))

	id, ok := m.lerInt64("ID do produto: ")
	if !ok {
		return
	}
	quantidade, ok := m.lerInt64("Quantidade: ")
	if !ok {
		return
	}
	observacao := m.lerTexto("Observação (opcional): ")

	var produto *entity.Produto
	var err error
	if tipo == entity.TipoEntrada {
		produto, err = m.uc.EntradaEstoque(ctx, id, quantidade, observacao)
	} else {
		produto, err = m.uc.SaidaEstoque(ctx, id, quantidade, observacao)
	}
	if err != nil {
		m.mostrarErro(err)
		return
	}
	verde.Printf("Movimentação registrada! Saldo atual de '%s': %d\n", produto.Nome, produto.Quantidade)
}

func (m *menu) historico(ctx context.Context) {
	id, ok := m.lerInt64("ID do produto: ")
	if !ok {
		return
	}
	movs, err := m.uc.Historico(ctx, id)
	if err != nil {
		m.mostrarErro(err)
		return
	}
	if len(movs) == 0 {
		amarelo.Println("Nenhuma movimentação registrada.")
		return
	}
	for _, mov := range movs {
		seta := "+"
		if mov.Tipo == entity.TipoSaida {
			seta = "-"
		}
		fmt.Printf("%s | %-7s | %s%d | %s | %s\n",
			mov.DataMovimentacao.Format("02/01/2006 15:04"),
			mov.Tipo, seta, mov.Quantidade, mov.ProdutoNome, mov.Observacao)
	}
}

func (m *menu) listarTodos(ctx context.Context) {
	m.imprimirLista(m.uc.ListarTodos(ctx))
}

func (m *menu) imprimirLista(lista []*entity.Produto, err error) {
	if err != nil {
		m.mostrarErro(err)
		return
	}
	if len(lista) == 0 {
		amarelo.Println("Nenhum produto encontrado.")
		return
	}
	for _, p := range lista {
		imprimirProduto(p)
	}
	fmt.Printf("\nTotal: %d produto(s)\n", len(lista))
}

func (m *menu) mostrarErro(err error) {
	vermelho.Printf("Erro: %v\n", err)
}

func (m *menu) lerTexto(prompt string) string {
	fmt.Print(prompt)
	linha, _ := m.in.ReadString('\n')
	return strings.TrimSpace(linha)
}

func (m *menu) lerOpcional(prompt string) *string {
	s := m.lerTexto(prompt)
	if s == "" {
		return nil
	}
	return &s
}

func (m *menu) lerInt64(prompt string) (int64, bool) {
	n, err := strconv.ParseInt(m.lerTexto(prompt), 10, 64)
	if err != nil {
		vermelho.Println("Número inválido!")
		return 0, false
	}
	return n, true
}

func (m *menu) lerDecimal(prompt string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(m.lerTexto(prompt))
	if err != nil {
		vermelho.Println("Valor inválido!")
		return decimal.Zero, false
	}
	return d, true
}

func imprimirProduto(p *entity.Produto) {
	fmt.Printf("ID: %d | Código: %s | Nome: %s | Categoria: %s | Qtd: %d | Preço: R$ %s\n",
		p.ID, p.Codigo, p.Nome, p.Categoria, p.Quantidade, p.PrecoUnitario.StringFixed(2))
}

func centralizar(s string, largura int) string {
	if len(s) >= largura {
		return s
	}
	esq := (largura - len(s)) / 2
	return strings.Repeat(" ", esq) + s
}
