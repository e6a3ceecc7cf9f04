package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

// CatalogService обслуживает каталог: продукты и их складские аккаунты.
type CatalogService struct {
	uow         uow.UOW
	productRepo ProductRepository
	accountRepo AccountRepository
}

func NewCatalogService(u uow.UOW) (*CatalogService, error) {
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	accountRepo, accountRepoErr := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName))
	if accountRepoErr != nil {
		return nil, accountRepoErr
	}
	return &CatalogService{
		uow:         u,
		productRepo: productRepo,
		accountRepo: accountRepo,
	}, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error) {
	if !args.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	product, err := s.productRepo.Create(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, args repoargs.UpdateProduct) (*domain.Product, error) {
	if !args.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	product, err := s.productRepo.Update(ctx, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id) //nolint:wrapcheck
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id) //nolint:wrapcheck
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.GetAll(ctx) //nolint:wrapcheck
}

// CreateAccount создает складскую единицу. Возвращает domain.ErrRecordNotFound
// если продукт не существует.
func (s *CatalogService) CreateAccount(ctx context.Context, args repoargs.CreateAccount) (*domain.Account, error) {
	if _, err := s.productRepo.FindByID(ctx, args.ProductID); err != nil {
		return nil, err //nolint:wrapcheck
	}
	account, err := s.accountRepo.Create(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return account, nil
}

func (s *CatalogService) UpdateAccount(ctx context.Context, args repoargs.UpdateAccount) (*domain.Account, error) {
	return s.accountRepo.Update(ctx, args) //nolint:wrapcheck
}

func (s *CatalogService) DeleteAccount(ctx context.Context, id int64) error {
	return s.accountRepo.Delete(ctx, id) //nolint:wrapcheck
}

func (s *CatalogService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.accountRepo.FindByID(ctx, id) //nolint:wrapcheck
}

func (s *CatalogService) GetAccountsByProduct(ctx context.Context, productID int64) ([]domain.Account, error) {
	return s.accountRepo.GetByProductID(ctx, productID) //nolint:wrapcheck
}
