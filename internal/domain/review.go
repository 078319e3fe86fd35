package domain

import "math"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a single star rating left on the results page.
type Review struct {
	Rating int `json:"rating"`
}

func (r Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return NewValidationError("rating", "rating must be between 1 and 5", r.Rating)
	}
	return nil
}

// ReviewState is the persisted "reviews" slice.
type ReviewState struct {
	Reviews []Review `json:"reviews"`
}

// AddReview returns the state with the review appended.
func AddReview(state ReviewState, review Review) (ReviewState, error) {
	if err := review.Validate(); err != nil {
		return state, err
	}
	next := make([]Review, len(state.Reviews), len(state.Reviews)+1)
	copy(next, state.Reviews)
	return ReviewState{Reviews: append(next, review)}, nil
}

// ReviewStats aggregates ratings for the admin view.
type ReviewStats struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
	// Counts[i] is the number of (i+1)-star reviews.
	Counts [MaxRating]int `json:"counts"`
}

// Stats computes the average rating (one decimal) and per-star counts.
func (s ReviewState) Stats() ReviewStats {
	var stats ReviewStats
	sum := 0
	for _, r := range s.Reviews {
		sum += r.Rating
		if r.Rating >= MinRating && r.Rating <= MaxRating {
			stats.Counts[r.Rating-1]++
		}
	}
	stats.Total = len(s.Reviews)
	if stats.Total > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Total)*10) / 10
	}
	return stats
}
