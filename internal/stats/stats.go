// Package stats computes mining summaries from receipt and error records.
package stats

import (
	"cmp"
	"slices"

	"github.com/roach88/minelog/internal/record"
)

// maxTopErrors bounds Summary.TopErrors.
const maxTopErrors = 5

// Summary aggregates a mining history.
type Summary struct {
	Receipts       int              `json:"receipts"`
	UserReceipts   int              `json:"user_receipts"`
	DevFeeReceipts int              `json:"dev_fee_receipts"`
	Errors         int              `json:"errors"`
	Challenges     int              `json:"challenges"`
	Duplicates     int              `json:"duplicates"`
	FirstReceipt   string           `json:"first_receipt,omitempty"`
	LastReceipt    string           `json:"last_receipt,omitempty"`
	SuccessRate    float64          `json:"success_rate"`
	Addresses      []AddressSummary `json:"addresses"`
	TopErrors      []ErrorCount     `json:"top_errors"`
}

// AddressSummary is the per-address breakdown. Addresses are keyed by
// address and sub-account index together.
type AddressSummary struct {
	Address      string `json:"address"`
	AddressIndex *int   `json:"addressIndex,omitempty"`
	Solutions    int    `json:"solutions"`
	DevFee       int    `json:"dev_fee"`
	Errors       int    `json:"errors"`
}

// ErrorCount counts occurrences of one error message.
type ErrorCount struct {
	Message string `json:"error"`
	Count   int    `json:"count"`
}

type addressKey struct {
	address string
	index   int // -1 when absent
}

func keyOf(address string, idx *int) addressKey {
	if idx == nil {
		return addressKey{address: address, index: -1}
	}
	return addressKey{address: address, index: *idx}
}

// Summarize builds a Summary. Records are expected in file order; first and
// last receipt are taken by position, not by parsing timestamps.
func Summarize(receipts []record.Receipt, errs []record.ErrorRecord) Summary {
	s := Summary{
		Receipts:  len(receipts),
		Errors:    len(errs),
		Addresses: []AddressSummary{},
		TopErrors: []ErrorCount{},
	}

	if len(receipts) > 0 {
		s.FirstReceipt = receipts[0].Timestamp
		s.LastReceipt = receipts[len(receipts)-1].Timestamp
	}

	byAddress := make(map[addressKey]*AddressSummary)
	entry := func(address string, idx *int) *AddressSummary {
		k := keyOf(address, idx)
		a, ok := byAddress[k]
		if !ok {
			a = &AddressSummary{Address: address}
			if idx != nil {
				a.AddressIndex = record.Index(*idx)
			}
			byAddress[k] = a
		}
		return a
	}

	challenges := make(map[string]struct{})
	seen := make(map[string]struct{})
	for _, r := range receipts {
		if r.IsDevFee {
			s.DevFeeReceipts++
		}
		challenges[r.ChallengeID] = struct{}{}

		fp := record.MustFingerprint(r)
		if _, dup := seen[fp]; dup {
			s.Duplicates++
		}
		seen[fp] = struct{}{}

		a := entry(r.Address, r.AddressIndex)
		a.Solutions++
		if r.IsDevFee {
			a.DevFee++
		}
	}
	s.UserReceipts = s.Receipts - s.DevFeeReceipts
	s.Challenges = len(challenges)

	messages := make(map[string]int)
	for _, e := range errs {
		messages[e.Message]++
		entry(e.Address, e.AddressIndex).Errors++
	}

	if attempts := s.Receipts + s.Errors; attempts > 0 {
		s.SuccessRate = float64(s.Receipts) / float64(attempts)
	}

	for _, a := range byAddress {
		s.Addresses = append(s.Addresses, *a)
	}
	slices.SortFunc(s.Addresses, compareAddresses)

	for msg, n := range messages {
		s.TopErrors = append(s.TopErrors, ErrorCount{Message: msg, Count: n})
	}
	slices.SortFunc(s.TopErrors, func(a, b ErrorCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Message, b.Message)
	})
	if len(s.TopErrors) > maxTopErrors {
		s.TopErrors = s.TopErrors[:maxTopErrors]
	}

	return s
}

// compareAddresses orders indexed sub-accounts first by index, then
// unindexed addresses, each tie broken by address.
func compareAddresses(a, b AddressSummary) int {
	switch {
	case a.AddressIndex != nil && b.AddressIndex == nil:
		return -1
	case a.AddressIndex == nil && b.AddressIndex != nil:
		return 1
	case a.AddressIndex != nil && b.AddressIndex != nil:
		if c := cmp.Compare(*a.AddressIndex, *b.AddressIndex); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Address, b.Address)
}
