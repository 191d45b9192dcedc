package site

import (
	"errors"
	"strings"
)

var (
	ErrUnknownWallet        = errors.New("unknown wallet")
	ErrWalletNotImplemented = errors.New("wallet connection not implemented")
)

// ConnectWallet is a stub: there is no wallet integration, so every offered wallet
// yields ErrWalletNotImplemented.
func (c *Content) ConnectWallet(name string) error {
	name = strings.TrimSpace(name)
	for _, w := range c.Wallets {
		if strings.EqualFold(w.Name, name) {
			return ErrWalletNotImplemented
		}
	}
	return ErrUnknownWallet
}
