package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type SessionResponse struct {
	Connected    bool   `json:"connected"`
	Account      string `json:"account,omitempty"`
	AccountShort string `json:"account_short,omitempty"`
	ChainID      int64  `json:"chain_id,omitempty"`
	Contract     string `json:"contract,omitempty"`
}

// CampaignResponse carries the raw projection plus the derived display
// fields the pages render (progress bar, countdown, gating).
type CampaignResponse struct {
	ID              int64   `json:"id"`
	Owner           string  `json:"owner"`
	OwnerShort      string  `json:"owner_short"`
	Title           string  `json:"title"`
	GoalWei         string  `json:"goal_wei"`
	GoalEth         string  `json:"goal_eth"`
	RaisedWei       string  `json:"raised_wei"`
	RaisedEth       string  `json:"raised_eth"`
	RemainingEth    string  `json:"remaining_eth"`
	Deadline        int64   `json:"deadline"`
	ProgressPercent float64 `json:"progress_percent"`
	DaysLeft        int     `json:"days_left"`
	Active          bool    `json:"active"`
	Expired         bool    `json:"expired"`
	Donatable       bool    `json:"donatable"`
}

type ContributionResponse struct {
	CampaignID int64  `json:"campaign_id"`
	Address    string `json:"address"`
	AmountWei  string `json:"amount_wei"`
	AmountEth  string `json:"amount_eth"`
}
