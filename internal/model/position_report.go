package model

// PositionReport is the printable summary of one staked position.
type PositionReport struct {
	Index       uint64         `json:"index"`
	TokenID     string         `json:"token_id"`
	Details     PositionFields `json:"details"`
	RewardRaw   string         `json:"reward_raw"`
	RewardHuman string         `json:"reward_human"`
	RewardToken string         `json:"reward_symbol"`
	Holdings    *Holdings      `json:"holdings,omitempty"`
	SkipReason  string         `json:"skip_reason,omitempty"`
}

// PositionFields are the raw position fields, as decimal strings where they are integers.
type PositionFields struct {
	Token0      string `json:"token0"`
	Token1      string `json:"token1"`
	TickSpacing int32  `json:"tick_spacing"`
	TickLower   int32  `json:"tick_lower"`
	TickUpper   int32  `json:"tick_upper"`
	Liquidity   string `json:"liquidity"`
	TokensOwed0 string `json:"tokens_owed0"`
	TokensOwed1 string `json:"tokens_owed1"`
}

// Holdings are the values derived from a position and the pool price.
type Holdings struct {
	Symbol0      string `json:"symbol0"`
	Symbol1      string `json:"symbol1"`
	CurrentTick  int32  `json:"current_tick"`
	InRange      bool   `json:"in_range"`
	CurrentPrice string `json:"current_price"`
	MinPrice     string `json:"min_price"`
	MaxPrice     string `json:"max_price"`
	Amount0      string `json:"amount0"`
	Amount1      string `json:"amount1"`
	Owed0        string `json:"owed0"`
	Owed1        string `json:"owed1"`
}
