package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"gaugeScope/internal/amm"
	"gaugeScope/internal/model"
)

// Format selects how position blocks are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", value)
	}
}

// Build turns a fetched position into its printable form. Holdings are left for the caller.
func Build(sp model.StakedPosition, reward model.TokenMeta) model.PositionReport {
	pos := sp.Position
	return model.PositionReport{
		Index:   sp.Index,
		TokenID: bigString(pos.TokenID),
		Details: model.PositionFields{
			Token0:      pos.Token0.Hex(),
			Token1:      pos.Token1.Hex(),
			TickSpacing: pos.TickSpacing,
			TickLower:   pos.TickLower,
			TickUpper:   pos.TickUpper,
			Liquidity:   bigString(pos.Liquidity),
			TokensOwed0: bigString(pos.TokensOwed0),
			TokensOwed1: bigString(pos.TokensOwed1),
		},
		RewardRaw:   bigString(sp.Reward.Amount),
		RewardHuman: amm.FormatUnits(sp.Reward.Amount, reward.Decimals),
		RewardToken: reward.Label(),
	}
}

type summaryLine struct {
	User  string `json:"user"`
	Count uint64 `json:"staked_count"`
}

// Printer writes position reports to an output stream.
type Printer struct {
	writer *bufio.Writer
	format Format
}

func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{writer: bufio.NewWriter(w), format: format}
}

// Summary writes the staked count line.
func (p *Printer) Summary(user common.Address, count uint64) error {
	if p.format == FormatJSON {
		return p.writeJSON(summaryLine{User: user.Hex(), Count: count})
	}
	_, err := fmt.Fprintf(p.writer, "User has %d staked CL positions in the gauge.\n", count)
	return p.flush(err)
}

// Position writes one position block.
func (p *Printer) Position(r model.PositionReport) error {
	if p.format == FormatJSON {
		return p.writeJSON(r)
	}

	w := p.writer
	fmt.Fprintf(w, "\nStaked Position Token ID: %s\n", r.TokenID)
	fmt.Fprintln(w, "Details:")
	fmt.Fprintf(w, "  token0:      %s\n", r.Details.Token0)
	fmt.Fprintf(w, "  token1:      %s\n", r.Details.Token1)
	fmt.Fprintf(w, "  tickSpacing: %d\n", r.Details.TickSpacing)
	fmt.Fprintf(w, "  tickLower:   %d\n", r.Details.TickLower)
	fmt.Fprintf(w, "  tickUpper:   %d\n", r.Details.TickUpper)
	fmt.Fprintf(w, "  liquidity:   %s\n", r.Details.Liquidity)
	fmt.Fprintf(w, "  tokensOwed0: %s\n", r.Details.TokensOwed0)
	fmt.Fprintf(w, "  tokensOwed1: %s\n", r.Details.TokensOwed1)

	if h := r.Holdings; h != nil {
		status := "out of range"
		if h.InRange {
			status = "in range"
		}
		fmt.Fprintf(w, "Price range (%s per %s): %s - %s\n", h.Symbol1, h.Symbol0, h.MinPrice, h.MaxPrice)
		fmt.Fprintf(w, "Current price: %s (tick %d, %s)\n", h.CurrentPrice, h.CurrentTick, status)
		fmt.Fprintf(w, "Holdings: %s %s, %s %s\n", h.Amount0, h.Symbol0, h.Amount1, h.Symbol1)
		fmt.Fprintf(w, "Unclaimed fees: %s %s, %s %s\n", h.Owed0, h.Symbol0, h.Owed1, h.Symbol1)
	} else if r.SkipReason != "" {
		fmt.Fprintf(w, "Holdings skipped: %s\n", r.SkipReason)
	}

	fmt.Fprintf(w, "Claimable %s Emissions (raw): %s\n", r.RewardToken, r.RewardRaw)
	_, err := fmt.Fprintf(w, "Claimable %s Emissions (human-readable): %s\n", r.RewardToken, r.RewardHuman)
	return p.flush(err)
}

func (p *Printer) writeJSON(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := p.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := p.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return p.flush(nil)
}

func (p *Printer) flush(err error) error {
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := p.writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func bigString(value interface{ String() string }) string {
	if value == nil {
		return "0"
	}
	return value.String()
}
