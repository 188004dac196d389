package vault

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddresses(t *testing.T) {
	a := util.Uint160{1}
	b := util.Uint160{2}

	require.Equal(t, DeriveVaultAddress(a), DeriveVaultAddress(a))
	require.NotEqual(t, DeriveVaultAddress(a), DeriveVaultAddress(b))
	require.NotEqual(t, a, DeriveVaultAddress(a))

	txA, err := DeriveTransactionAddress(a, "tx1")
	require.NoError(t, err)
	txB, err := DeriveTransactionAddress(b, "tx1")
	require.NoError(t, err)
	require.NotEqual(t, txA, txB)

	other, err := DeriveTransactionAddress(a, "tx2")
	require.NoError(t, err)
	require.NotEqual(t, txA, other)

	_, err = DeriveTransactionAddress(a, "")
	require.ErrorIs(t, err, ErrInvalidSeedLength)
	_, err = DeriveTransactionAddress(a, strings.Repeat("x", 33))
	require.ErrorIs(t, err, ErrInvalidSeedLength)
	_, err = DeriveTransactionAddress(a, strings.Repeat("x", 32))
	require.NoError(t, err)
}

func TestEncodeAddress(t *testing.T) {
	addr := DeriveVaultAddress(util.Uint160{1, 2, 3})

	s := EncodeAddress(addr)
	res, err := DecodeAddress(s)
	require.NoError(t, err)
	require.Equal(t, addr, res)

	_, err = DecodeAddress("0OIl")
	require.Error(t, err)
	_, err = DecodeAddress(EncodeAddress(addr)[:5])
	require.Error(t, err)
}

func TestParseError(t *testing.T) {
	require.NoError(t, ParseError(nil))

	plain := errors.New("connection refused")
	require.Equal(t, plain, ParseError(plain))

	fault := fmt.Errorf("script failed (FAULT state) due to an error: at instruction 42 (THROW): unhandled exception: \"%s\"",
		"the provided transaction was already executed")
	err := ParseError(fault)
	require.ErrorIs(t, err, ErrTransactionAlreadyExecuted)
	require.NotErrorIs(t, err, ErrTransactionNotFound)

	require.ErrorIs(t, ParseError(errors.New("owner witness check failed")), ErrWitnessFailed)
	require.ErrorIs(t, ParseError(errors.New("arithmetic underflow")), ErrUnderflow)

	for _, known := range knownErrors {
		exc := fmt.Errorf("at instruction 7 (THROW): unhandled exception: \"%s\"", known.Error())
		require.ErrorIs(t, ParseError(exc), known)
	}

	require.ErrorIs(t, ParseError(errors.New("only GAS can be accepted")), ErrOnlyGAS)
	require.ErrorIs(t, ParseError(errors.New("contract is already of the latest version: 1000")), ErrAlreadyUpdated)
	require.ErrorIs(t, ParseError(errors.New("previous version mismatch: expected >=1000")), ErrVersionMismatch)
}
