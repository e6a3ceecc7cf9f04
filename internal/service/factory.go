package service

import (
	"fmt"

	"github.com/fsdevblog/accmarket/internal/service/psswd"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

type AppServices struct {
	UserService    *UserService
	CatalogService *CatalogService
	OrderService   *OrderService
	WalletService  *WalletService
}

func Factory(unitOfWork uow.UOW, jwtSecret []byte) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, jwtSecret, psswd.PasswordHash{})
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	catalogService, catalogServiceErr := NewCatalogService(unitOfWork)
	if catalogServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", catalogServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	walletService, walletServiceErr := NewWalletService(unitOfWork)
	if walletServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletServiceErr.Error())
	}

	return &AppServices{
		UserService:    userService,
		CatalogService: catalogService,
		OrderService:   orderService,
		WalletService:  walletService,
	}, nil
}
