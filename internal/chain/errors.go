package chain

import "errors"

var (
	// ErrWalletUnavailable means no keystore account exists in the
	// configured directory. Not recoverable without operator action.
	ErrWalletUnavailable = errors.New("no wallet account available in keystore")

	// ErrAuthorization means the keystore refused to unlock the account
	// (bad passphrase). Recoverable by re-invoking Connect.
	ErrAuthorization = errors.New("wallet authorization failed")

	// ErrNoSession gates every dependent operation: while the session is
	// unset, no outbound call may be made.
	ErrNoSession = errors.New("wallet is not connected")
)
