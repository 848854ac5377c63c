package auth

import (
	"context"
	"testing"

	"github.com/sunilvk/orderflow/internal/model"
)

func TestWithActorAndFromContext(t *testing.T) {
	actor := Actor{
		Name:      "Asha",
		Role:      model.RoleStaff,
		SessionID: 3,
	}

	ctx := WithActor(context.Background(), actor)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Actor in context")
	}
	if got.Name != "Asha" {
		t.Errorf("Name = %q, want %q", got.Name, "Asha")
	}
	if got.Role != model.RoleStaff {
		t.Errorf("Role = %q, want %q", got.Role, model.RoleStaff)
	}
	if got.SessionID != 3 {
		t.Errorf("SessionID = %d, want 3", got.SessionID)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing Actor")
	}
}

func TestIsOwner(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{Name: "Ravi", Role: model.RoleOwner})
	if !IsOwner(ctx) {
		t.Error("expected IsOwner = true for Owner role")
	}
}

func TestIsOwnerFalseForStaff(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{Name: "Asha", Role: model.RoleStaff})
	if IsOwner(ctx) {
		t.Error("expected IsOwner = false for Staff role")
	}
}

func TestIsOwnerMissing(t *testing.T) {
	if IsOwner(context.Background()) {
		t.Error("expected IsOwner = false for missing context")
	}
}
