package workflow

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/orglens/orglens/internal/github"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		merged int
		closed int
		want   Type
	}{
		{"squash-outside-platform repo", 60, 260, NonStandard},
		{"large standard repo", 1200, 1300, HighVolume},
		{"small repo", 40, 50, Standard},
		{"zero activity", 0, 0, Standard},
		{"high landed but too few merged", 10, 200, Standard},
		{"high ratio but too few landed", 50, 140, Standard},
		{"high volume trumps only when ratio not met", 1001, 5000, NonStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.merged, tt.closed); got != tt.want {
				t.Errorf("Classify(%d, %d) = %v, want %v", tt.merged, tt.closed, got, tt.want)
			}
		})
	}
}

// countClient answers issue-search queries from a canned map.
type countClient struct {
	github.Client
	counts map[string]int
}

func (c *countClient) SearchIssueCount(ctx context.Context, query string) (int, error) {
	for key, count := range c.counts {
		if strings.Contains(query, key) {
			return count, nil
		}
	}
	return 0, fmt.Errorf("unexpected query %q", query)
}

func TestDetect(t *testing.T) {
	client := &countClient{counts: map[string]int{
		"is:merged": 60,
		"is:closed": 260,
	}}

	counts, err := Detect(context.Background(), client, "acme", "widgets", "2024-01-01")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if counts.Type != NonStandard {
		t.Errorf("type = %v, want non-standard", counts.Type)
	}
	if counts.Landed != 200 {
		t.Errorf("landed = %d, want 200", counts.Landed)
	}
}

func TestDetectQueryFailure(t *testing.T) {
	client := &countClient{counts: map[string]int{}}
	if _, err := Detect(context.Background(), client, "acme", "widgets", "2024-01-01"); err == nil {
		t.Fatal("expected error from failing count query")
	}
}
