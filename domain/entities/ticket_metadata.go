package entities

import (
	"fmt"
	"strings"
	"time"
)

// Rarity tiers for minted tickets
const (
	RarityCommon    = "Common"
	RarityRare      = "Rare"
	RarityEpic      = "Epic"
	RarityLegendary = "Legendary"
)

// Glyphs is the visual alphabet for ticket combinations
var Glyphs = []rune{'⟟', '⍙', '⟊', '⊑', '⌇', '⎍', '⏁', '⍀', '⌰', '⋏'}

// rarityRule is one step of the rarity classification. Rules are
// evaluated strictly in order and the first match wins; the parity rules
// deliberately sit ahead of the all-identical rule, so a uniform
// combination classifies by parity first. That ordering is a contract.
type rarityRule struct {
	rarity string
	match  func(c Combination) bool
}

var rarityRules = []rarityRule{
	{RarityRare, func(c Combination) bool { return len(c.SymbolSet()) == CombinationLength }},
	{RarityEpic, allParity(0)},
	{RarityEpic, allParity(1)},
	{RarityLegendary, func(c Combination) bool { return len(c.SymbolSet()) == 1 }},
}

func allParity(parity int) func(Combination) bool {
	return func(c Combination) bool {
		for _, s := range c {
			if s%2 != parity {
				return false
			}
		}
		return true
	}
}

// DeriveRarity classifies a combination into a rarity tier
func DeriveRarity(c Combination) string {
	for _, rule := range rarityRules {
		if rule.match(c) {
			return rule.rarity
		}
	}
	return RarityCommon
}

// DeriveGlyphs renders a combination as its glyph string, one glyph per
// symbol, indexed modulo the table length.
func DeriveGlyphs(c Combination) string {
	var b strings.Builder
	for _, s := range c {
		b.WriteRune(Glyphs[s%len(Glyphs)])
	}
	return b.String()
}

// MetadataAttribute is one trait of a ticket metadata document
type MetadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// TicketMetadata is the NFT-style document describing a minted ticket
type TicketMetadata struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Attributes  []MetadataAttribute `json:"attributes"`
}

// BuildTicketMetadata assembles the metadata document for a minted
// ticket. imageBaseURL is joined with the ticket UUID for the image link.
func BuildTicketMetadata(ticket *Ticket, draw *Draw, combination Combination, imageBaseURL string) TicketMetadata {
	return TicketMetadata{
		Name:        fmt.Sprintf("Astral Key #%s", ticket.SerialNumber),
		Description: fmt.Sprintf("Star Key for %s - Cosmic Convergence NFT", draw.Title),
		Image:       fmt.Sprintf("%s/%s/", strings.TrimSuffix(imageBaseURL, "/"), ticket.UUID),
		Attributes: []MetadataAttribute{
			{TraitType: "Convergence", Value: draw.Title},
			{TraitType: "Serial Number", Value: ticket.SerialNumber},
			{TraitType: "Star Keys", Value: fmt.Sprint(combination.Slice())},
			{TraitType: "Cosmic Glyph", Value: DeriveGlyphs(combination)},
			{TraitType: "Forged Date", Value: ticket.CreatedAt.Format(time.RFC3339)},
			{TraitType: "Rarity", Value: ticket.Rarity},
		},
	}
}
