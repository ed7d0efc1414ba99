package dto

import "time"

// SubmitTicketRequest is the external ticket submission payload
type SubmitTicketRequest struct {
	StarKeys []int `json:"star_keys"`
}

// SubmitTicketResponse reports the outcome of a ticket submission
type SubmitTicketResponse struct {
	Success      bool   `json:"success"`
	SerialNumber string `json:"serial_number,omitempty"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	Code         string `json:"code,omitempty"`
}

// CreateDrawRequest is the external draw creation payload. The winning
// combination is generated internally, never caller-supplied.
type CreateDrawRequest struct {
	Title        string    `json:"title"`
	PrizePool    string    `json:"prize_pool"`
	DrawDatetime time.Time `json:"draw_datetime"`
}

// CreateDrawResponse reports the outcome of a draw creation
type CreateDrawResponse struct {
	Success   bool   `json:"success"`
	DrawID    int64  `json:"draw_id,omitempty"`
	DrawTitle string `json:"draw_title,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
}

// WinnerInfo describes the jackpot winner of a processed draw
type WinnerInfo struct {
	Username     string `json:"username"`
	SerialNumber string `json:"serial_number"`
	PrizeAmount  string `json:"prize_amount"`
}

// AwardInfo is one line of the prize distribution breakdown
type AwardInfo struct {
	WalletID     int64  `json:"wallet_id"`
	SerialNumber string `json:"serial_number"`
	MatchCount   int    `json:"match_count"`
	Amount       string `json:"amount"`
	IsJackpot    bool   `json:"is_jackpot"`
}

// ProcessDrawResponse reports the outcome of draw processing
type ProcessDrawResponse struct {
	Success   bool        `json:"success"`
	Winner    *WinnerInfo `json:"winner"`
	Breakdown []AwardInfo `json:"breakdown,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
}

// PlatformStatsResponse is the cached platform aggregate payload
type PlatformStatsResponse struct {
	TotalDraws         int64  `json:"total_draws"`
	ActiveDraws        int64  `json:"active_draws"`
	TotalPrizePool     string `json:"total_prize_pool"`
	TotalPlayers       int64  `json:"total_players"`
	TotalTicketsMinted int64  `json:"total_tickets_minted"`
}

// DrawDetailResponse is the cached per-draw view payload
type DrawDetailResponse struct {
	DrawID           int64       `json:"draw_id"`
	Title            string      `json:"title"`
	Status           string      `json:"status"`
	PrizePool        string      `json:"prize_pool"`
	DrawDatetime     time.Time   `json:"draw_datetime"`
	TotalTicketsSold int         `json:"total_tickets_sold"`
	Winner           *WinnerInfo `json:"winner"`
}

// TicketInfo is one entry of a wallet's ticket listing
type TicketInfo struct {
	SerialNumber string    `json:"serial_number"`
	DrawID       int64     `json:"draw_id"`
	Rarity       string    `json:"rarity"`
	Glyphs       string    `json:"glyphs"`
	CreatedAt    time.Time `json:"created_at"`
}
