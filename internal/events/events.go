package events

import "time"

const TopicPollSettled = "poll.settled"

// PollSettled is emitted once a settlement transaction has committed.
type PollSettled struct {
	PollID          uint      `json:"poll_id"`
	MatchID         uint      `json:"match_id"`
	Question        string    `json:"question"`
	CorrectOptionID uint      `json:"correct_option_id"`
	VoterIDs        []uint    `json:"voter_ids"`
	SettledAt       time.Time `json:"settled_at"`
}
