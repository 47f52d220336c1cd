// Package crowdfund assembles the disposable campaign projection from
// contract reads and drives the create/donate write flows.
package crowdfund

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/raushankr553/land-block-flow/internal/contract"
)

// Campaign is a read-only projection of one contract record. It is
// rebuilt on every refresh and never persisted. All field values come
// from the contract and are untrusted; in particular raised <= goal is
// NOT guaranteed.
type Campaign struct {
	ID       int64          `json:"id"`
	Owner    common.Address `json:"owner"`
	Title    string         `json:"title"`
	Goal     *big.Int       `json:"goal"`
	Deadline time.Time      `json:"deadline"`
	Raised   *big.Int       `json:"raised"`
	Active   bool           `json:"active"`
}

func fromContract(id int64, data contract.CampaignData) Campaign {
	return Campaign{
		ID:       id,
		Owner:    data.Owner,
		Title:    data.Title,
		Goal:     data.Goal,
		Deadline: time.Unix(data.Deadline.Int64(), 0).UTC(),
		Raised:   data.Raised,
		Active:   data.Active,
	}
}
