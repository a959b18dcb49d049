package model

import "time"

// RosterEntry is the derived participation record of a team member with an
// accepted bid. The roster is never stored: it is recomputed from accepted
// bids inside every project transaction so it cannot drift.
type RosterEntry struct {
	BidID           string     `json:"bid_id"`
	MemberID        string     `json:"member_id"`
	AgreedAmount    float64    `json:"agreed_amount"`
	MemberConfirmed *bool      `json:"member_confirmed,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	WorkFinished    bool       `json:"work_finished"`
	WorkFinishedAt  *time.Time `json:"work_finished_at,omitempty"`
}

// Confirmed reports whether the member accepted the final terms.
func (e RosterEntry) Confirmed() bool {
	return e.MemberConfirmed != nil && *e.MemberConfirmed
}

// RosterFromBids derives the participation roster from a project's bids:
// one entry per accepted bid.
func RosterFromBids(bids []Bid) []RosterEntry {
	roster := make([]RosterEntry, 0, len(bids))
	for _, b := range bids {
		if b.State != StateAccepted {
			continue
		}
		entry := RosterEntry{
			BidID:           b.BidID,
			MemberID:        b.MemberID,
			MemberConfirmed: b.MemberConfirmed,
			ConfirmedAt:     b.ConfirmedAt,
			WorkFinished:    b.WorkFinished,
			WorkFinishedAt:  b.WorkFinishedAt,
		}
		if b.AgreedAmount != nil {
			entry.AgreedAmount = *b.AgreedAmount
		}
		roster = append(roster, entry)
	}
	return roster
}

// AllFinished reports whether every roster entry has finished work. An empty
// roster never counts as finished.
func AllFinished(roster []RosterEntry) bool {
	if len(roster) == 0 {
		return false
	}
	for _, e := range roster {
		if !e.WorkFinished {
			return false
		}
	}
	return true
}

// ConfirmedMembers returns the participant ids of confirmed roster entries.
func ConfirmedMembers(roster []RosterEntry) []string {
	ids := make([]string, 0, len(roster))
	for _, e := range roster {
		if e.Confirmed() {
			ids = append(ids, e.MemberID)
		}
	}
	return ids
}
