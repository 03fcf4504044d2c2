package order

import (
	"fmt"
	"strings"

	"tagging/internal/pkg/errs"
)

// Tag is one requested tag of an order: the text and the mood it should convey.
type Tag struct {
	name string
	mood string
}

// NewTag requires a non-empty name; the mood is optional.
func NewTag(name, mood string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, errs.NewValueIsRequiredError("tag name")
	}
	return Tag{name: name, mood: strings.TrimSpace(mood)}, nil
}

// ZipTags pairs names with moods position by position, ignoring surplus
// entries of the longer list as the order form submits them as two lists.
func ZipTags(names, moods []string) ([]Tag, error) {
	n := min(len(names), len(moods))
	tags := make([]Tag, 0, n)
	for i := range n {
		tag, err := NewTag(names[i], moods[i])
		if err != nil {
			return nil, fmt.Errorf("tag %d: %w", i+1, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (t Tag) Name() string { return t.name }
func (t Tag) Mood() string { return t.mood }

// Review is the owner's rating of a completed order.
type Review struct {
	rating int
	text   string
}

const (
	MinRating = 1
	MaxRating = 5
)

// NewReview validates the rating range.
func NewReview(rating int, text string) (Review, error) {
	if rating < MinRating || rating > MaxRating {
		return Review{}, errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	return Review{rating: rating, text: strings.TrimSpace(text)}, nil
}

func (r Review) Rating() int  { return r.rating }
func (r Review) Text() string { return r.text }
