package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrProdutoNaoEncontrado      = errors.New("produto não encontrado")
	ErrCodigoDuplicado           = errors.New("código do produto já existe")
	ErrQuantidadeInvalida        = errors.New("quantidade deve ser maior que zero")
	ErrEstoqueInsuficiente       = errors.New("estoque insuficiente")
	ErrEntradaInvalida           = errors.New("entrada inválida")
	ErrNadaParaAtualizar         = errors.New("nenhuma informação para atualizar")
	ErrArmazenamentoIndisponivel = errors.New("armazenamento indisponível")
)
