package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/hours"
)

type stubLoader struct {
	restaurants []*domain.Restaurant
	err         error
}

func (s *stubLoader) LoadRestaurants() ([]*domain.Restaurant, error) {
	return s.restaurants, s.err
}

func TestCatalog_NotLoaded(t *testing.T) {
	c := New(&stubLoader{})
	if _, err := c.Current(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestCatalog_Reload(t *testing.T) {
	loader := &stubLoader{restaurants: []*domain.Restaurant{
		{Name: "Seoul 116", Hours: "Mon-Sun 11 am - 4 am"},
	}}
	c := New(loader)

	s, err := c.Reload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Generation != 1 || s.Restaurants != 1 || s.Table.Len() != 14 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}

	current, err := c.Current()
	if err != nil || current != s {
		t.Fatalf("Current should return the reloaded snapshot, got %v, %v", current, err)
	}
}

func TestCatalog_FailedReloadKeepsPrevious(t *testing.T) {
	loader := &stubLoader{restaurants: []*domain.Restaurant{
		{Name: "Garland", Hours: "Sat 5:30 pm - 11 pm"},
	}}
	c := New(loader)
	first, err := c.Reload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loader.restaurants = []*domain.Restaurant{
		{Name: "Garland", Hours: "Sat 5:30 pm - 11 pm"},
		{Name: "Broken", Hours: "Weekends 5 pm - 11 pm"},
	}
	_, err = c.Reload()
	var nerr *hours.NormalizationError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *hours.NormalizationError, got %v", err)
	}
	if !errors.Is(err, hours.ErrNoDaysFound) {
		t.Errorf("expected ErrNoDaysFound, got %v", err)
	}

	current, _ := c.Current()
	if current != first {
		t.Fatal("failed reload must keep the previous snapshot")
	}

	loader.restaurants = nil
	loader.err = errors.New("connection refused")
	if _, err := c.Reload(); err == nil {
		t.Fatal("expected loader error")
	}
	if current, _ := c.Current(); current != first {
		t.Fatal("loader failure must keep the previous snapshot")
	}
}

func TestCatalog_ConcurrentReaders(t *testing.T) {
	loader := &stubLoader{restaurants: []*domain.Restaurant{
		{Name: "Seoul 116", Hours: "Mon-Sun 11 am - 4 am"},
	}}
	c := New(loader)
	if _, err := c.Reload(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s, err := c.Current()
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := s.Table.FindOpen("2024-11-26 02:00", ""); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		if _, err := c.Reload(); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()

	s, _ := c.Current()
	if s.Generation != 6 {
		t.Fatalf("want generation 6, got %d", s.Generation)
	}
}
