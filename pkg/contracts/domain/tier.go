package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownTier is returned by ParseTier for labels outside the tier set
var ErrUnknownTier = errors.New("unknown customer tier")

// Tier is the loyalty level of a customer, ranked Silver < Gold < Platinum
type Tier int

const (
	TierUnknown  Tier = 0
	TierSilver   Tier = 1
	TierGold     Tier = 2
	TierPlatinum Tier = 3
)

// String returns the canonical label of the tier
func (t Tier) String() string {
	switch t {
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	case TierPlatinum:
		return "Platinum"
	default:
		return "Unknown"
	}
}

// Known reports whether t is one of the ranked tiers
func (t Tier) Known() bool {
	return t >= TierSilver && t <= TierPlatinum
}

// ParseTier maps a canonical status label to its tier. Labels are expected
// to be normalized already; unrecognized labels yield TierUnknown together
// with an error wrapping ErrUnknownTier.
func ParseTier(label string) (Tier, error) {
	switch label {
	case "Silver":
		return TierSilver, nil
	case "Gold":
		return TierGold, nil
	case "Platinum":
		return TierPlatinum, nil
	}
	return TierUnknown, fmt.Errorf("%w: %q", ErrUnknownTier, label)
}
