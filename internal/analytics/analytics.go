package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"persona-bot/internal/apperr"
)

const (
	FeedbackPositive = "positive"
	FeedbackNegative = "negative"
)

// minTopicLen is the rune length a token must exceed to count as a topic.
const minTopicLen = 3

// Feedback holds thumbs up/down counters.
type Feedback struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Snapshot is a point-in-time copy of the usage statistics.
type Snapshot struct {
	TotalConversations  int            `json:"total_conversations"`
	TotalMessages       int            `json:"total_messages"`
	PopularTopics       map[string]int `json:"popular_topics"`
	AverageResponseTime float64        `json:"average_response_time"`
	Feedback            Feedback       `json:"feedback"`
}

// Aggregator updates the statistics incrementally, one turn at a time.
type Aggregator struct {
	mu   sync.Mutex
	data Snapshot
}

func NewAggregator() *Aggregator {
	return &Aggregator{data: Snapshot{PopularTopics: make(map[string]int)}}
}

// RecordTurn accounts one user message and one bot reply.
// The average is a running value over total_messages:
// avg = (avg*(total_messages-2) + t) / total_messages.
func (a *Aggregator) RecordTurn(userMessage string, responseTime time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	d := &a.data
	d.TotalConversations++
	d.TotalMessages += 2
	d.AverageResponseTime = (d.AverageResponseTime*float64(d.TotalMessages-2) + responseTime.Seconds()) / float64(d.TotalMessages)

	for _, w := range strings.Fields(strings.ToLower(userMessage)) {
		if utf8.RuneCountInString(w) > minTopicLen {
			d.PopularTopics[w]++
		}
	}
}

// RecordFeedback increments the counter for kind, which must be
// FeedbackPositive or FeedbackNegative.
func (a *Aggregator) RecordFeedback(kind string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch kind {
	case FeedbackPositive:
		a.data.Feedback.Positive++
	case FeedbackNegative:
		a.data.Feedback.Negative++
	default:
		return apperr.Errorf(apperr.InvalidArgument, "analytics.feedback", "unknown feedback type %q", kind)
	}
	return nil
}

func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.data
	out.PopularTopics = make(map[string]int, len(a.data.PopularTopics))
	for k, v := range a.data.PopularTopics {
		out.PopularTopics[k] = v
	}
	return out
}

// TopicCount is one entry of TopTopics.
type TopicCount struct {
	Word  string
	Count int
}

// TopTopics returns the n most frequent topics, ties ordered alphabetically.
func (s Snapshot) TopTopics(n int) []TopicCount {
	out := make([]TopicCount, 0, len(s.PopularTopics))
	for w, c := range s.PopularTopics {
		out = append(out, TopicCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Summary renders a short plain-text report.
func (s Snapshot) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversations: %d\n", s.TotalConversations)
	fmt.Fprintf(&b, "Messages: %d\n", s.TotalMessages)
	fmt.Fprintf(&b, "Average response time: %.3fs\n", s.AverageResponseTime)
	fmt.Fprintf(&b, "Feedback: +%d / -%d\n", s.Feedback.Positive, s.Feedback.Negative)
	if top := s.TopTopics(5); len(top) > 0 {
		b.WriteString("Popular topics:\n")
		for _, t := range top {
			fmt.Fprintf(&b, "- %s: %d\n", t.Word, t.Count)
		}
	}
	return b.String()
}

func (s Snapshot) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
