// Package contract holds the typed binding to the external Crowdfund
// contract. The contract owns all campaign state and fund accounting;
// everything returned from it is an untrusted projection.
package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const crowdfundABI = `[
	{"type":"function","name":"createCampaign","stateMutability":"payable","inputs":[{"name":"_title","type":"string"},{"name":"_goal","type":"uint256"},{"name":"_durationInDays","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"donate","stateMutability":"payable","inputs":[{"name":"_campaignId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getCampaign","stateMutability":"view","inputs":[{"name":"_id","type":"uint256"}],"outputs":[{"name":"owner","type":"address"},{"name":"goal","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"raised","type":"uint256"},{"name":"active","type":"bool"},{"name":"title","type":"string"}]},
	{"type":"function","name":"getMyContribution","stateMutability":"view","inputs":[{"name":"_campaignId","type":"uint256"},{"name":"_user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getActiveCampaigns","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256[]"}]},
	{"type":"function","name":"campaignCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"CampaignCreated","inputs":[{"name":"id","type":"uint256","indexed":false},{"name":"title","type":"string","indexed":false},{"name":"goal","type":"uint256","indexed":false},{"name":"deadline","type":"uint256","indexed":false}]},
	{"type":"event","name":"Donated","inputs":[{"name":"campaignId","type":"uint256","indexed":false},{"name":"donor","type":"address","indexed":false},{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"FundsReleased","inputs":[{"name":"campaignId","type":"uint256","indexed":false},{"name":"amount","type":"uint256","indexed":false}]}
]`

// Event names as emitted by the contract.
const (
	EventCampaignCreated = "CampaignCreated"
	EventDonated         = "Donated"
	EventFundsReleased   = "FundsReleased"
)

var (
	parsedABI   abi.ABI
	parseABIErr error
	parseOnce   sync.Once
)

// ABI returns the parsed Crowdfund ABI.
func ABI() (abi.ABI, error) {
	parseOnce.Do(func() {
		parsedABI, parseABIErr = abi.JSON(strings.NewReader(crowdfundABI))
	})
	return parsedABI, parseABIErr
}

// CampaignData is the raw tuple returned by getCampaign.
type CampaignData struct {
	Owner    common.Address
	Goal     *big.Int
	Deadline *big.Int
	Raised   *big.Int
	Active   bool
	Title    string
}

// CampaignCreatedEvent mirrors the CampaignCreated log payload.
type CampaignCreatedEvent struct {
	Id       *big.Int
	Title    string
	Goal     *big.Int
	Deadline *big.Int
}

// DonatedEvent mirrors the Donated log payload.
type DonatedEvent struct {
	CampaignId *big.Int
	Donor      common.Address
	Amount     *big.Int
}

// FundsReleasedEvent mirrors the FundsReleased log payload.
type FundsReleasedEvent struct {
	CampaignId *big.Int
	Amount     *big.Int
}

// Crowdfund is a callable handle to the deployed contract.
type Crowdfund struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

func NewCrowdfund(address common.Address, backend bind.ContractBackend) (*Crowdfund, error) {
	parsed, err := ABI()
	if err != nil {
		return nil, fmt.Errorf("parse crowdfund abi: %w", err)
	}
	return &Crowdfund{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (c *Crowdfund) Address() common.Address {
	return c.address
}

// EventID returns the topic hash for one of the Event* names.
func (c *Crowdfund) EventID(name string) common.Hash {
	return c.abi.Events[name].ID
}

func (c *Crowdfund) CampaignCount(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "campaignCount"); err != nil {
		return nil, fmt.Errorf("campaignCount: %w", err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *Crowdfund) GetCampaign(ctx context.Context, id *big.Int) (CampaignData, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaign", id); err != nil {
		return CampaignData{}, fmt.Errorf("getCampaign(%s): %w", id, err)
	}
	return CampaignData{
		Owner:    *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Goal:     *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		Deadline: *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		Raised:   *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		Active:   *abi.ConvertType(out[4], new(bool)).(*bool),
		Title:    *abi.ConvertType(out[5], new(string)).(*string),
	}, nil
}

func (c *Crowdfund) GetMyContribution(ctx context.Context, id *big.Int, user common.Address) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getMyContribution", id, user); err != nil {
		return nil, fmt.Errorf("getMyContribution(%s): %w", id, err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *Crowdfund) GetActiveCampaigns(ctx context.Context) ([]*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getActiveCampaigns"); err != nil {
		return nil, fmt.Errorf("getActiveCampaigns: %w", err)
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

func (c *Crowdfund) CreateCampaign(opts *bind.TransactOpts, title string, goal *big.Int, durationDays *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "createCampaign", title, goal, durationDays)
}

// Donate sends opts.Value wei to the campaign.
func (c *Crowdfund) Donate(opts *bind.TransactOpts, campaignID *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "donate", campaignID)
}

func (c *Crowdfund) ParseCampaignCreated(log types.Log) (*CampaignCreatedEvent, error) {
	ev := new(CampaignCreatedEvent)
	if err := c.contract.UnpackLog(ev, EventCampaignCreated, log); err != nil {
		return nil, fmt.Errorf("unpack CampaignCreated: %w", err)
	}
	return ev, nil
}

func (c *Crowdfund) ParseDonated(log types.Log) (*DonatedEvent, error) {
	ev := new(DonatedEvent)
	if err := c.contract.UnpackLog(ev, EventDonated, log); err != nil {
		return nil, fmt.Errorf("unpack Donated: %w", err)
	}
	return ev, nil
}

func (c *Crowdfund) ParseFundsReleased(log types.Log) (*FundsReleasedEvent, error) {
	ev := new(FundsReleasedEvent)
	if err := c.contract.UnpackLog(ev, EventFundsReleased, log); err != nil {
		return nil, fmt.Errorf("unpack FundsReleased: %w", err)
	}
	return ev, nil
}
