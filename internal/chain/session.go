// Package chain owns the wallet session: the single
// (account, provider, contract) tuple every other component depends on.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/config"
	"github.com/raushankr553/land-block-flow/internal/contract"
)

type State int

const (
	StateUnset State = iota
	StateConnecting
	StateConnected
)

// Provider is the RPC surface the session needs from a dialed node.
// *ethclient.Client satisfies it.
type Provider interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

type DialFunc func(ctx context.Context, rawurl string) (Provider, error)

func defaultDial(ctx context.Context, rawurl string) (Provider, error) {
	return ethclient.DialContext(ctx, rawurl)
}

// ContractHandle is the callable binding to the Crowdfund contract
// through the current wallet's signing key. *contract.Crowdfund is the
// production implementation.
type ContractHandle interface {
	Address() common.Address
	CampaignCount(ctx context.Context) (*big.Int, error)
	GetCampaign(ctx context.Context, id *big.Int) (contract.CampaignData, error)
	GetMyContribution(ctx context.Context, id *big.Int, user common.Address) (*big.Int, error)
	GetActiveCampaigns(ctx context.Context) ([]*big.Int, error)
	CreateCampaign(opts *bind.TransactOpts, title string, goal *big.Int, durationDays *big.Int) (*types.Transaction, error)
	Donate(opts *bind.TransactOpts, campaignID *big.Int) (*types.Transaction, error)
}

// Session is the connected tuple. It is replaced wholesale, never
// partially mutated.
type Session struct {
	Account  common.Address
	Provider Provider
	Contract ContractHandle
	Signer   *bind.TransactOpts
	ChainID  *big.Int
}

// Manager drives the session lifecycle: unset -> connecting -> connected.
type Manager struct {
	cfg  *config.Config
	log  *zap.Logger
	dial DialFunc
	ks   *keystore.KeyStore

	mu      sync.RWMutex
	state   State
	session *Session

	walletSub   event.Subscription
	chainStop   chan struct{}
	reload      func()
	watchEvents bool
}

func NewManager(cfg *config.Config, log *zap.Logger) *Manager {
	return &Manager{
		cfg:         cfg,
		log:         log,
		dial:        defaultDial,
		watchEvents: true,
	}
}

// SetDialFunc overrides how the RPC provider is established.
func (m *Manager) SetDialFunc(dial DialFunc) {
	m.dial = dial
}

// SetReloadHook installs the chain-change policy: when the node's chain
// ID changes, the session is torn down and fn runs a full reconnect. A
// contract handle bound to one chain is invalid on another, so no
// in-place migration is attempted.
func (m *Manager) SetReloadHook(fn func()) {
	m.mu.Lock()
	m.reload = fn
	m.mu.Unlock()
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Session returns a snapshot of the connected tuple. The second return
// is false while the session is unset; callers must not issue outbound
// calls in that case.
func (m *Manager) Session() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateConnected || m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Connect authorizes the wallet and binds the contract handle. On any
// failure the prior session state is left exactly as it was: a failed
// reconnect keeps an existing session alive, a failed first connect
// leaves it unset. Never retries automatically.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateConnecting {
		m.mu.Unlock()
		return fmt.Errorf("connect already in progress")
	}
	prev := m.state
	m.state = StateConnecting
	if m.ks == nil {
		m.ks = keystore.NewKeyStore(m.cfg.KeystoreDir, keystore.StandardScryptN, keystore.StandardScryptP)
	}
	ks := m.ks
	m.mu.Unlock()

	session, err := m.establish(ctx, ks)
	if err != nil {
		m.mu.Lock()
		m.state = prev
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.stopWatchersLocked()
	if m.session != nil {
		m.session.Provider.Close()
	}
	m.session = session
	m.state = StateConnected
	m.startWatchersLocked(session)
	m.mu.Unlock()

	m.log.Info("wallet connected",
		zap.String("account", session.Account.Hex()),
		zap.String("contract", session.Contract.Address().Hex()),
		zap.Int64("chain_id", session.ChainID.Int64()),
	)
	return nil
}

func (m *Manager) establish(ctx context.Context, ks *keystore.KeyStore) (*Session, error) {
	accs := ks.Accounts()
	if len(accs) == 0 {
		return nil, ErrWalletUnavailable
	}
	primary := accs[0]

	if err := ks.Unlock(primary, m.cfg.KeystorePassphrase); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}

	if m.cfg.ContractAddress == "" || !common.IsHexAddress(m.cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", m.cfg.ContractAddress)
	}

	provider, err := m.dial(ctx, m.cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", m.cfg.RPCURL, err)
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("read chain id: %w", err)
	}
	if m.cfg.ChainID != 0 && chainID.Int64() != m.cfg.ChainID {
		provider.Close()
		return nil, fmt.Errorf("chain id mismatch: node reports %d, expected %d", chainID.Int64(), m.cfg.ChainID)
	}

	signer, err := bind.NewKeyStoreTransactorWithChainID(ks, primary, chainID)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("build signer: %w", err)
	}

	crowdfund, err := contract.NewCrowdfund(common.HexToAddress(m.cfg.ContractAddress), provider)
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &Session{
		Account:  primary.Address,
		Provider: provider,
		Contract: crowdfund,
		Signer:   signer,
		ChainID:  chainID,
	}, nil
}

// Disconnect clears the session tuple. Idempotent.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.stopWatchersLocked()
	if m.session != nil {
		m.session.Provider.Close()
		m.session = nil
		m.log.Info("wallet disconnected")
	}
	m.state = StateUnset
	m.mu.Unlock()
}

// startWatchersLocked installs exactly one listener per event type,
// replacing (never stacking) any previous ones. Caller holds m.mu.
func (m *Manager) startWatchersLocked(session *Session) {
	if !m.watchEvents {
		return
	}

	sink := make(chan accounts.WalletEvent, 16)
	m.walletSub = m.ks.Subscribe(sink)
	go m.watchAccounts(sink, m.walletSub)

	m.chainStop = make(chan struct{})
	go m.watchChain(session.Provider, session.ChainID, m.chainStop)
}

func (m *Manager) stopWatchersLocked() {
	if m.walletSub != nil {
		m.walletSub.Unsubscribe()
		m.walletSub = nil
	}
	if m.chainStop != nil {
		close(m.chainStop)
		m.chainStop = nil
	}
}

// watchAccounts mirrors the injected-provider accountsChanged callback:
// when the active account drops out of the keystore, fall over to the
// next account or disconnect when none remain.
func (m *Manager) watchAccounts(sink <-chan accounts.WalletEvent, sub event.Subscription) {
	for {
		select {
		case <-sub.Err():
			return
		case ev := <-sink:
			if ev.Kind != accounts.WalletDropped {
				continue
			}
			m.handleAccountsChanged()
		}
	}
}

func (m *Manager) handleAccountsChanged() {
	m.mu.Lock()
	session := m.session
	if m.state != StateConnected || session == nil {
		m.mu.Unlock()
		return
	}

	accs := m.ks.Accounts()
	for _, a := range accs {
		if a.Address == session.Account {
			m.mu.Unlock()
			return // active account still present
		}
	}

	if len(accs) == 0 {
		m.mu.Unlock()
		m.log.Warn("all wallet accounts removed, disconnecting")
		m.Disconnect()
		return
	}

	next := accs[0]
	// The keystore only unlocks the account Connect selected; the
	// fall-over account must be unlocked too or signing will fail.
	if err := m.ks.Unlock(next, m.cfg.KeystorePassphrase); err != nil {
		m.mu.Unlock()
		m.log.Error("failed to unlock fall-over account", zap.Error(err))
		m.Disconnect()
		return
	}
	signer, err := bind.NewKeyStoreTransactorWithChainID(m.ks, next, session.ChainID)
	if err != nil {
		m.mu.Unlock()
		m.log.Error("failed to rebind signer to new account", zap.Error(err))
		m.Disconnect()
		return
	}

	replaced := *session
	replaced.Account = next.Address
	replaced.Signer = signer
	m.session = &replaced
	m.mu.Unlock()

	m.log.Info("active account changed", zap.String("account", next.Address.Hex()))
}

// watchChain polls the node's chain ID. A change invalidates the bound
// contract handle, so the whole session is reloaded.
func (m *Manager) watchChain(provider Provider, expected *big.Int, stop <-chan struct{}) {
	ticker := time.NewTicker(m.cfg.ChainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ChainPollInterval)
			id, err := provider.ChainID(ctx)
			cancel()
			if err != nil {
				m.log.Debug("chain id poll failed", zap.Error(err))
				continue
			}
			if id.Cmp(expected) == 0 {
				continue
			}

			m.log.Warn("chain changed, reloading session",
				zap.Int64("was", expected.Int64()),
				zap.Int64("now", id.Int64()),
			)
			m.Disconnect()

			m.mu.RLock()
			reload := m.reload
			m.mu.RUnlock()
			if reload != nil {
				reload()
			}
			return
		}
	}
}
