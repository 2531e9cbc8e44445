package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
)

func TestCreateMessage_RejectsInvalidEntities(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	conv, err := st.CreateConversation(ctx, "T1", time.Now().UTC())
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	_, err = st.CreateMessage(ctx, &store.CreateMessage{
		ConversationID: conv.ID,
		Sender:         model.SenderUser,
		Text:           "hello",
		Entities:       model.Mapping{"": "empty key"},
		CreatedAt:      time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("CreateMessage() accepted invalid entities")
	}

	messages, err := st.ListMessages(ctx, &store.FindMessage{ConversationID: conv.ID})
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("rejected message was persisted: %d rows", len(messages))
	}
}

func TestUpsertContext_RejectsInvalidData(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	conv, err := st.CreateConversation(ctx, "T1", time.Now().UTC())
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	_, err = st.UpsertContext(ctx, conv.ID, model.Mapping{"ch": make(chan int)})
	if err == nil {
		t.Fatal("UpsertContext() accepted an unserializable value")
	}
}

func TestCreateAction_RejectsInvalidDetails(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	conv, err := st.CreateConversation(ctx, "T1", time.Now().UTC())
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	msg, err := st.CreateMessage(ctx, &store.CreateMessage{
		ConversationID: conv.ID,
		Sender:         model.SenderBot,
		Text:           "done",
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateMessage() error = %v", err)
	}

	_, err = st.CreateAction(ctx, &store.CreateAction{
		MessageID:  msg.ID,
		ActionType: "maintenance_request",
		Details:    model.Mapping{"fn": func() {}},
		CreatedAt:  time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("CreateAction() accepted an unserializable value")
	}
}
