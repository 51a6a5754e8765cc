package db

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/in-nis/planner/internal/models"
)

// CurriculumCache memoizes the active, start-ordered courses of a curriculum.
// It is bounded and evicts the least recently used curriculum. Every write to
// a curriculum's courses must call Invalidate.
type CurriculumCache struct {
	lru *lru.Cache[string, []models.Course]
}

func NewCurriculumCache(size int) (*CurriculumCache, error) {
	c, err := lru.New[string, []models.Course](size)
	if err != nil {
		return nil, err
	}
	return &CurriculumCache{lru: c}, nil
}

// Get returns a copy of the cached courses.
func (c *CurriculumCache) Get(curriculumID string) ([]models.Course, bool) {
	v, ok := c.lru.Get(curriculumID)
	if !ok {
		return nil, false
	}
	return append([]models.Course(nil), v...), true
}

func (c *CurriculumCache) Put(curriculumID string, courses []models.Course) {
	c.lru.Add(curriculumID, append([]models.Course(nil), courses...))
}

func (c *CurriculumCache) Invalidate(curriculumID string) {
	c.lru.Remove(curriculumID)
}

func (c *CurriculumCache) Purge() { c.lru.Purge() }

func (c *CurriculumCache) Len() int { return c.lru.Len() }
