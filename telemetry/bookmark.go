package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkUpset     BookmarkType = "upset"
	BookmarkFlawless  BookmarkType = "flawless"
	BookmarkDoubleKO  BookmarkType = "double_ko"
	BookmarkMarathon  BookmarkType = "marathon"
	BookmarkBloodbath BookmarkType = "bloodbath"
)

// Detection thresholds
const (
	upsetProbability = 0.30 // Winner's pre-fight win probability below this
	marathonFactor   = 2.5  // Duration over this multiple of the rolling mean
	bloodbathFactor  = 2.0  // Damage over this multiple of the rolling mean
	minHistory       = 3
)

// Bookmark represents an automatically flagged fight.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Fight       int          `csv:"fight"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"fight", b.Fight,
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable fights.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []FightStats
	historySize int
	historyIdx  int
	historyFull bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < minHistory {
		historySize = minHistory
	}
	return &BookmarkDetector{
		history:     make([]FightStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes a finished fight and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats FightStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(t BookmarkType, desc string) {
		bookmarks = append(bookmarks, Bookmark{Type: t, Fight: stats.Fight, Tick: stats.EndTick, Description: desc})
	}

	switch stats.Winner {
	case 0:
		add(BookmarkDoubleKO, fmt.Sprintf("%s and %s went down together", stats.Left, stats.Right))
	case 1:
		if stats.LeftWinProb < upsetProbability {
			add(BookmarkUpset, fmt.Sprintf("%s won at %.0f%%", stats.Left, stats.LeftWinProb*100))
		}
		if stats.LeftMaxHP > 0 && stats.LeftHP == stats.LeftMaxHP {
			add(BookmarkFlawless, fmt.Sprintf("%s took no damage", stats.Left))
		}
	case 2:
		if 1-stats.LeftWinProb < upsetProbability {
			add(BookmarkUpset, fmt.Sprintf("%s won at %.0f%%", stats.Right, (1-stats.LeftWinProb)*100))
		}
		if stats.RightMaxHP > 0 && stats.RightHP == stats.RightMaxHP {
			add(BookmarkFlawless, fmt.Sprintf("%s took no damage", stats.Right))
		}
	}

	if history := bd.getHistory(); len(history) >= minHistory {
		var dur, dmg float64
		for _, h := range history {
			dur += h.DurationSec
			dmg += float64(h.DamageTotal)
		}
		dur /= float64(len(history))
		dmg /= float64(len(history))

		if dur > 0 && stats.DurationSec > dur*marathonFactor {
			add(BookmarkMarathon, fmt.Sprintf("lasted %.0fs (avg %.0fs)", stats.DurationSec, dur))
		}
		if dmg > 0 && float64(stats.DamageTotal) > dmg*bloodbathFactor {
			add(BookmarkBloodbath, fmt.Sprintf("%d damage dealt (avg %.0f)", stats.DamageTotal, dmg))
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats FightStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []FightStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}
