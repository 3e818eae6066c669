// Package ranking scores and orders listings for the listings feed.
package ranking

import (
	"strings"

	model "studiobid/internal/models"
)

// Points awarded per match kind
const (
	TitleExactPoints    = 100
	TitleContainsPoints = 60
	TagExactPoints      = 40
	TagContainsPoints   = 20
	DescriptionPoints   = 20
	SellerNamePoints    = 10
)

// NormalizeQuery trims and lowercases a raw search term
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Score returns the relevance of listing for an already normalized query.
// An empty query scores 0.
func Score(listing model.Listing, query string) int {
	if query == "" {
		return 0
	}

	score := 0

	title := NormalizeQuery(listing.Title)
	switch {
	case title == query:
		score += TitleExactPoints
	case strings.Contains(title, query):
		score += TitleContainsPoints
	}

	for _, tag := range listing.Tags {
		tag = NormalizeQuery(tag)
		switch {
		case tag == query:
			score += TagExactPoints
		case strings.Contains(tag, query):
			score += TagContainsPoints
		}
	}

	if strings.Contains(strings.ToLower(listing.Description), query) {
		score += DescriptionPoints
	}

	if strings.Contains(strings.ToLower(listing.SellerName()), query) {
		score += SellerNamePoints
	}

	return score
}
