package neutaro

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"

	log "github.com/sirupsen/logrus"
)

// BalanceSource reads on-chain balances.
type BalanceSource interface {
	GetBalance(ctx context.Context, address string) (*big.Int, []model.Coin, error)
}

// PriceSource quotes NTMPI in a fiat currency.
type PriceSource interface {
	GetNTMPIPrice(ctx context.Context, vsCurrency string) (string, error)
}

// GetBalance gets the balance of address, or of the keystore's address when
// address is empty. prices may be nil; a failed price lookup only drops the
// fiat fields.
func GetBalance(ctx context.Context, keystorePath, address string, chain BalanceSource, prices PriceSource, currency string) (*model.BalanceResponse, error) {
	if address == "" {
		var ok bool
		address, ok = crypto.PeekAddress(keystorePath)
		if !ok {
			return nil, fmt.Errorf("balance: %w", crypto.ErrKeystoreNotFound)
		}
	}

	amount, others, err := chain.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	resp := &model.BalanceResponse{
		Address:       address,
		Amount:        amount.String(),
		DisplayAmount: common.FormatBaseUnits(amount),
		DisplayDenom:  common.DisplayDenom,
		Other:         others,
	}

	if prices != nil && currency != "" {
		price, err := prices.GetNTMPIPrice(ctx, currency)
		if err != nil {
			log.WithError(err).Warn("failed to get NTMPI price")
			return resp, nil
		}
		value, err := fiatValue(amount, price)
		if err != nil {
			log.WithError(err).Warn("invalid NTMPI price")
			return resp, nil
		}
		resp.Price = price
		resp.PriceCurrency = strings.ToUpper(currency)
		resp.FiatValue = value
	}

	return resp, nil
}

// fiatValue multiplies base units by a decimal price exactly and renders two decimals.
func fiatValue(amount *big.Int, price string) (string, error) {
	p, ok := new(big.Rat).SetString(price)
	if !ok || p.Sign() < 0 {
		return "", fmt.Errorf("cannot parse price %q", price)
	}
	value := new(big.Rat).SetFrac(amount, common.UnitsPerDisplay())
	return value.Mul(value, p).FloatString(2), nil
}
