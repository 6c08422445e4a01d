package t2048

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Keys of the two persisted slots.
const (
	KeyBestScore = "best-score"
	KeyRecords   = "records"
)

// DefaultHistoryLimit is the maximum number of records kept in history.
const DefaultHistoryLimit = 100

// DefaultDateFormat renders Record.Date.
const DefaultDateFormat = "2006/1/2 15:04:05"

// KV is the key-value persistence collaborator.
// Get reports ok=false for a key that was never written.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Record describes one finished game.
type Record struct {
	ID        int64  `json:"id"`
	Score     int    `json:"score"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
	Duration  *int   `json:"duration,omitempty"` // seconds
	Won       bool   `json:"won"`
}

// DurationOrZero returns the game duration, or 0 when it was not tracked.
func (r Record) DurationOrZero() time.Duration {
	if r.Duration == nil {
		return 0
	}
	return time.Duration(*r.Duration) * time.Second
}

// prependRecord adds rec at the front and drops the oldest entries beyond limit.
func prependRecord(history []Record, rec Record, limit int) []Record {
	out := make([]Record, 0, len(history)+1)
	out = append(out, rec)
	out = append(out, history...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// EncodeRecords serializes history for the records slot.
// A nil history encodes as an empty array.
func EncodeRecords(history []Record) (string, error) {
	if history == nil {
		history = []Record{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("t2048: cannot encode records: %w", err)
	}
	return string(data), nil
}

// DecodeRecords parses the records slot.
func DecodeRecords(raw string) ([]Record, error) {
	var history []Record
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("t2048: cannot decode records: %w", err)
	}
	return history, nil
}

// parseBestScore parses the best-score slot. Negative values are rejected.
func parseBestScore(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("t2048: cannot parse best score %q: %w", raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("t2048: negative best score %d", n)
	}
	return n, nil
}

// Stats summarizes a record history.
type Stats struct {
	Games     int
	Wins      int
	BestScore int
	AvgScore  float64
	TotalTime time.Duration
}

// ComputeStats aggregates statistics over history.
func ComputeStats(history []Record) Stats {
	var s Stats
	total := 0
	for _, r := range history {
		s.Games++
		if r.Won {
			s.Wins++
		}
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
		total += r.Score
		s.TotalTime += r.DurationOrZero()
	}
	if s.Games > 0 {
		s.AvgScore = float64(total) / float64(s.Games)
	}
	return s
}
