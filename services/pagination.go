package services

import (
	"strconv"
	"strings"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
)

// PageSize is the number of posts on every feed page.
const PageSize = 10

// Page is one window of a feed.
type Page struct {
	Items       []models.Post `json:"items"`
	Number      int           `json:"number"`
	NumPages    int           `json:"num_pages"`
	Count       int64         `json:"count"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
	// zero when there is no such page
	NextPageNumber     int `json:"next_page_number,omitempty"`
	PreviousPageNumber int `json:"previous_page_number,omitempty"`
}

// NumPages returns how many pages count items fill. An empty feed still has one (empty) page.
func NumPages(count int64) int {
	if count <= 0 {
		return 1
	}
	return int((count + PageSize - 1) / PageSize)
}

// ParsePage resolves the requested page number. Absent or unparseable input yields page 1;
// numbers below 1 or past the end yield the last page.
func ParsePage(raw string, numPages int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

func paginate(s *store.Store, rawPage string, filters ...store.PostFilter) (*Page, error) {
	count, err := s.CountPosts(filters...)
	if err != nil {
		return nil, err
	}
	numPages := NumPages(count)
	number := ParsePage(rawPage, numPages)

	items, err := s.ListPosts((number-1)*PageSize, PageSize, filters...)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Post{}
	}
	page := &Page{
		Items:       items,
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	if page.HasNext {
		page.NextPageNumber = number + 1
	}
	if page.HasPrevious {
		page.PreviousPageNumber = number - 1
	}
	return page, nil
}
