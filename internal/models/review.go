package models

import (
	"time"
)

// Review type tags. Reviews start as "simple" and become "topReview" when an
// admin promotes them; the TopReview mirror exists only for promoted reviews.
const (
	ReviewTypeSimple = "simple"
	ReviewTypeTop    = "topReview"
)

// Bounds enforced before any review write.
const (
	MaxCommentLength = 1000
	MinRatingStar    = 0
	MaxRatingStar    = 5
)

// AttachedFile holds the metadata for a single uploaded file, after
// validation has derived the type and extension and corrected the size.
type AttachedFile struct {
	FileName      string `json:"fileName"`
	FileData      []byte `json:"fileData"`
	FileSize      int64  `json:"fileSize"`
	FileType      string `json:"fileType"`
	FileExtension string `json:"fileExtension"`
}

// Review is a star-rated review submitted by an end user. ReviewID and
// Username are immutable after creation; only the owning username may modify
// or delete the review.
type Review struct {
	ReviewID        string         `json:"reviewId"`
	Name            string         `json:"name"`
	Username        string         `json:"username"`
	Comment         string         `json:"comment"`
	RatingStar      int            `json:"ratingStar"`
	Files           []AttachedFile `json:"files"`
	ReviewType      string         `json:"reviewType"`
	PositivityLevel float64        `json:"positivityLevel"`
	CreatedAt       time.Time      `json:"createdAt"`
	LastModified    time.Time      `json:"lastModified"`
}

// TopReview is a denormalized snapshot of a promoted review. It exists iff
// the underlying review has ReviewType == ReviewTypeTop, and its comment and
// rating must always match the current review.
type TopReview struct {
	ReviewID   string    `json:"reviewId"`
	CreatedAt  time.Time `json:"createdAt"`
	RatingStar int       `json:"ratingStar"`
	Name       string    `json:"name"`
	Comment    string    `json:"comment"`
}

// ReviewStats is the singleton aggregate over all existing reviews. The
// averages are maintained incrementally, never recomputed from scratch.
type ReviewStats struct {
	AverageRating   float64 `json:"averageRating"`
	TotalReviews    int     `json:"totalReviews"`
	PositivityLevel float64 `json:"positivityLevel"`
}
