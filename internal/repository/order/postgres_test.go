package order

import (
	"context"
	"errors"
	"testing"

	"tiendanorte/internal/domain"
)

func TestGetByID_MalformedID(t *testing.T) {
	repo := NewPostgres(nil, nil)

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
