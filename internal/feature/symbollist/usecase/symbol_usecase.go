// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"sort"

	"trading_dashboard/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for tracked symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	List(ctx context.Context) ([]entity.Symbol, error)
	ListCodes(ctx context.Context) ([]string, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListSymbols returns all tracked symbols ordered by code.
func (u *SymbolUsecase) ListSymbols(ctx context.Context) ([]entity.Symbol, error) {
	symbols, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Code < symbols[j].Code })
	return symbols, nil
}

// ListCodes returns the codes of all tracked symbols in ascending order.
func (u *SymbolUsecase) ListCodes(ctx context.Context) ([]string, error) {
	codes, err := u.repo.ListCodes(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(codes)
	return codes, nil
}
