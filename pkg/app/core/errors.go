package core

import (
	"errors"
	"fmt"
)

// ErrAmountInvalid means user-entered amount text is not a decimal number.
// The input handler recovers locally (keystroke dropped); never fatal.
var ErrAmountInvalid = errors.New("amount is not a decimal number")

// ErrWalletUnavailable means no wallet connector is present or connected.
// Surfaced with a connect call-to-action; never retried automatically.
var ErrWalletUnavailable = errors.New("wallet not connected")

// ConfigError reports a missing identifier without which no trade can be
// composed. A manifest referencing an empty address would silently corrupt
// a financial instruction, so composition fails fast instead.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Field)
}

// RejectedError carries a wallet connector failure verbatim (user declined,
// insufficient funds, network rejection). Resubmission of a financial
// transaction is never automatic; the user must re-initiate.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction rejected: %s", e.Reason)
}
