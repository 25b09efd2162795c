package neutaro

import (
	"fmt"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/receipts"
)

// ReceiptLister reads the receipt log.
type ReceiptLister interface {
	List(req *model.LogRequest) ([]model.Receipt, error)
}

// GetTransactions returns the receipts matching req, newest first, with the
// total of confirmed sends among them.
func GetTransactions(keystorePath string, store ReceiptLister, req *model.LogRequest) (*model.LogResponse, error) {
	address, _ := crypto.PeekAddress(keystorePath)

	list, err := store.List(req)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	return &model.LogResponse{
		Address:    address,
		TotalSpent: common.FormatBaseUnits(receipts.TotalSent(list)),
		Receipts:   list,
	}, nil
}
