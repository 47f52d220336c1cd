package dto

type CreateCampaignRequest struct {
	Title        string `json:"title"`
	GoalEth      string `json:"goal_eth"`
	DurationDays string `json:"duration_days"`
}

type DonateRequest struct {
	AmountEth string `json:"amount_eth"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
