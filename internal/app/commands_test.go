package app_test

import (
	"context"
	"errors"
	"testing"

	"hostel_finder/internal/app"
	"hostel_finder/internal/domain"
)

func TestCreate_RejectsInvalidWithoutWriting(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	c := app.NewCommandService(repo, cache)

	in := validInput("", 0)
	in.Location = "Pokhara"
	_, err := c.Create(context.Background(), in)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, f := range []string{"name", "price", "location"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("missing field %q in %v", f, ve.Fields)
		}
	}
	if len(repo.hostels) != 0 || cache.incrs != 0 {
		t.Fatalf("invalid input reached the store")
	}
}

func TestCreate_StoresAndInvalidates(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	c := app.NewCommandService(repo, cache)

	h, err := c.Create(context.Background(), validInput("Thamel Bunks", 750))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.ID != "1" || h.Name != "Thamel Bunks" {
		t.Fatalf("unexpected hostel: %+v", h)
	}
	if cache.incrs != 1 {
		t.Fatalf("expected one invalidation, got %d", cache.incrs)
	}
}

func TestCreate_CacheFailureDoesNotFailWrite(t *testing.T) {
	c := app.NewCommandService(&fakeRepo{}, &fakeCache{incrErr: errors.New("READONLY")})
	if _, err := c.Create(context.Background(), validInput("Ok", 10)); err != nil {
		t.Fatalf("create should succeed: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := &fakeRepo{hostels: []domain.Hostel{{ID: "4", Name: "Old", Price: 100}}}
	cache := &fakeCache{}
	c := app.NewCommandService(repo, cache)
	ctx := context.Background()

	h, err := c.Update(ctx, 4, validInput("New", 300))
	if err != nil || h.Name != "New" || h.Price != 300 {
		t.Fatalf("update: %v %+v", err, h)
	}
	if _, err := c.Update(ctx, 5, validInput("Ghost", 300)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	bad := validInput("New", 300)
	bad.ContactEmail = "not-an-email"
	var ve *domain.ValidationError
	if _, err := c.Update(ctx, 4, bad); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if cache.incrs != 1 {
		t.Fatalf("only the successful update invalidates, got %d", cache.incrs)
	}
}

func TestDelete(t *testing.T) {
	repo := &fakeRepo{hostels: []domain.Hostel{{ID: "1"}}}
	cache := &fakeCache{}
	c := app.NewCommandService(repo, cache)
	ctx := context.Background()

	if err := c.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.Delete(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if cache.incrs != 1 {
		t.Fatalf("expected one invalidation, got %d", cache.incrs)
	}
}
