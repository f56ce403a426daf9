package domain

// Countdown est la décomposition relative d'un instant de diffusion,
// recalculée à chaque tick. Au plus deux unités affichées.
type Countdown struct {
	Text             string `json:"text"`
	Urgent           bool   `json:"urgent"`
	Finished         bool   `json:"finished"`
	SecondsRemaining int64  `json:"secondsRemaining"`
}
