package customers

import "time"

// FollowUpBucket classifies a follow-up date relative to the current day.
// Comparison is by calendar day; time of day is ignored.
type FollowUpBucket string

const (
	BucketToday     FollowUpBucket = "TODAY"
	BucketYesterday FollowUpBucket = "YESTERDAY"
	BucketMissed    FollowUpBucket = "MISSED"
	BucketFuture    FollowUpBucket = "FUTURE"
)

// FollowUpCounts aggregates dashboard counters. A follow-up due yesterday
// counts under both Yesterday and Missed: Missed covers every date before
// today and Yesterday is its most recent slice.
type FollowUpCounts struct {
	Today     int `json:"today"`
	Yesterday int `json:"yesterday"`
	Missed    int `json:"missed"`
	Future    int `json:"future"`
}

// BucketFor classifies a single date against now by calendar day.
func BucketFor(date, now time.Time) FollowUpBucket {
	day := truncateToDay(date.In(now.Location()))
	today := truncateToDay(now)
	yesterday := today.AddDate(0, 0, -1)

	switch {
	case day.Equal(today):
		return BucketToday
	case day.Equal(yesterday):
		return BucketYesterday
	case day.Before(today):
		return BucketMissed
	default:
		return BucketFuture
	}
}

// CountPendingFollowUps selects the earliest pending follow-up per customer
// and buckets it. Only one follow-up per customer participates in the counts.
func CountPendingFollowUps(pending []FollowUp, now time.Time) FollowUpCounts {
	earliest := make(map[int64]time.Time)
	for _, f := range pending {
		if f.Status != FollowUpStatusPending {
			continue
		}
		current, ok := earliest[f.CustomerID]
		if !ok || f.NextFollowUpDate.Before(current) {
			earliest[f.CustomerID] = f.NextFollowUpDate
		}
	}

	var counts FollowUpCounts
	for _, date := range earliest {
		switch BucketFor(date, now) {
		case BucketToday:
			counts.Today++
		case BucketYesterday:
			counts.Yesterday++
			counts.Missed++
		case BucketMissed:
			counts.Missed++
		case BucketFuture:
			counts.Future++
		}
	}
	return counts
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
