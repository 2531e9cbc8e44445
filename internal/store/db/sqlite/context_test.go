package sqlite

import (
	"context"
	"testing"

	"github.com/propstack/tenant-chatbot/internal/model"
)

func TestGetContext_NoneStored(t *testing.T) {
	db := openTestDB(t)
	conv := seedConversation(t, db)

	state, err := db.GetContext(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("GetContext() error = %v", err)
	}
	if state != nil {
		t.Errorf("GetContext() = %+v, want nil before first upsert", state)
	}
}

func TestUpsertContext_ReplacesWholeState(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	conv := seedConversation(t, db)

	if _, err := db.UpsertContext(ctx, conv.ID, model.Mapping{
		"turns":             float64(1),
		"last_user_message": "hello",
	}); err != nil {
		t.Fatalf("UpsertContext() error = %v", err)
	}
	if _, err := db.UpsertContext(ctx, conv.ID, model.Mapping{
		"turns": float64(2),
	}); err != nil {
		t.Fatalf("UpsertContext() second call error = %v", err)
	}

	state, err := db.GetContext(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetContext() error = %v", err)
	}
	if state == nil {
		t.Fatal("GetContext() = nil after upsert")
	}
	if state.Data["turns"] != float64(2) {
		t.Errorf("turns = %v, want 2", state.Data["turns"])
	}
	if _, ok := state.Data["last_user_message"]; ok {
		t.Error("upsert should replace the stored state, not merge into it")
	}
}

func TestUpsertContext_NilDataStoresEmpty(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	conv := seedConversation(t, db)

	if _, err := db.UpsertContext(ctx, conv.ID, nil); err != nil {
		t.Fatalf("UpsertContext(nil) error = %v", err)
	}

	state, err := db.GetContext(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetContext() error = %v", err)
	}
	if state == nil {
		t.Fatal("GetContext() = nil")
	}
	if len(state.Data) != 0 {
		t.Errorf("data = %v, want empty", state.Data)
	}
}
