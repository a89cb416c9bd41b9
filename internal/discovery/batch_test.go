package discovery

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/frederic-klein/ivyver/internal/config"
	"github.com/frederic-klein/ivyver/internal/coord"
	"github.com/frederic-klein/ivyver/internal/repository"
)

func TestListAll(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	calls := make(map[string]int)
	lister := repository.ListerFunc(func(_ context.Context, location string) ([]string, error) {
		mu.Lock()
		calls[location]++
		mu.Unlock()
		switch location {
		case "/repo/org.acme/proj1/":
			return []string{"1.0", "1.1"}, nil
		case "/repo/org.acme/proj2/":
			return []string{"2.0"}, nil
		}
		return nil, nil
	})
	repos := []config.Repository{{Name: "r", IvyPatterns: []string{"/repo/[organisation]/[module]/[revision]/ivy.xml"}}}
	modules := []coord.Module{
		{Organisation: "org.acme", Name: "proj1"},
		{Organisation: "org.acme", Name: "proj2"},
		{Organisation: "org.acme", Name: "proj3"},
	}

	// Act
	results, err := New(lister, nil).ListAll(context.Background(), modules, repos, 2)

	// Assert
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	want := [][]string{{"1.0", "1.1"}, {"2.0"}, nil}
	for i, r := range results {
		if !reflect.DeepEqual(r.Versions, want[i]) {
			t.Errorf("results[%d].Versions = %v, want %v", i, r.Versions, want[i])
		}
	}
	for loc, n := range calls {
		if n != 1 {
			t.Errorf("location %q listed %d times, want 1", loc, n)
		}
	}
}

func TestListAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lister := repository.ListerFunc(func(context.Context, string) ([]string, error) {
		return nil, nil
	})
	repos := []config.Repository{{Name: "r", IvyPatterns: []string{"/[revision]"}}}

	_, err := New(lister, nil).ListAll(ctx, []coord.Module{module}, repos, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ListAll() error = %v, want context.Canceled", err)
	}
}
