package neutaro

import (
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	"github.com/stretchr/testify/require"
)

func TestReceiveURI(t *testing.T) {
	require.Equal(t, "neutaro:neutaro1abc", ReceiveURI("neutaro1abc", "", ""))
	require.Equal(t, "neutaro:neutaro1abc?amount=1.5", ReceiveURI("neutaro1abc", "1.5", ""))
	require.Equal(t, "neutaro:neutaro1abc?amount=2&memo=order+%2342", ReceiveURI("neutaro1abc", "2", "order #42"))
}

func TestReceive(t *testing.T) {
	path := filepath.Join(t.TempDir(), crypto.KeystoreFileName)
	address, err := ImportWallet(path, []byte(testMnemonic), []byte(testPassword), testParams)
	require.NoError(t, err)

	resp, err := Receive(path, "3", "coffee")
	require.NoError(t, err)
	require.Equal(t, address, resp.Address)
	require.Equal(t, ReceiveURI(address, "3", "coffee"), resp.URI)
	require.NotEmpty(t, resp.QR)

	_, err = Receive(path, "0", "")
	require.ErrorIs(t, err, validate.ErrInvalidAmount)

	_, err = Receive(path, "", "bad\x1bmemo")
	require.ErrorIs(t, err, validate.ErrInvalidMemo)
}

func TestReceiveNoKeystore(t *testing.T) {
	_, err := Receive(filepath.Join(t.TempDir(), "missing.enc"), "", "")
	require.ErrorIs(t, err, crypto.ErrKeystoreNotFound)
}

func TestTerminalQR(t *testing.T) {
	qr, err := TerminalQR("neutaro:neutaro1abc")
	require.NoError(t, err)
	require.NotEmpty(t, qr)
}
