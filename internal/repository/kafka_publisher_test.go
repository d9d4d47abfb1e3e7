package repository

import (
	"context"
	"testing"

	"TickForge/internal/domain/models"
)

func TestTickMessagesKeyedByTicker(t *testing.T) {
	quotes := []models.Quote{
		{Ticker: "SOLR", Price: 41.61, Volume: 12000, Day: 3, Time: 600},
		{Ticker: "KRAB", Price: 8.12, Volume: 900, Day: 3, Time: 600},
	}

	msgs := tickMessages(quotes)
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	for i, q := range quotes {
		if string(msgs[i].Key) != q.Ticker {
			t.Errorf("msg %d key = %q, want %q", i, msgs[i].Key, q.Ticker)
		}
		got, ok := msgs[i].Value.(models.Quote)
		if !ok {
			t.Fatalf("msg %d value type %T", i, msgs[i].Value)
		}
		if got != q {
			t.Errorf("msg %d value = %+v, want %+v", i, got, q)
		}
	}
}

func TestNewsMessagesKeyedByTicker(t *testing.T) {
	events := []models.NewsEvent{
		{ID: "a1", Ticker: "SOLR", Text: "SOLR surges past resistance", Color: models.NewsColorGreen, Day: 3, Time: 605},
		{ID: "b2", Ticker: "KRAB", Text: "KRAB breaks below support", Color: models.NewsColorRed, Day: 3, Time: 610},
	}

	msgs := newsMessages(events)
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	for i, ev := range events {
		if string(msgs[i].Key) != ev.Ticker {
			t.Errorf("msg %d key = %q, want %q", i, msgs[i].Key, ev.Ticker)
		}
		got, ok := msgs[i].Value.(models.NewsEvent)
		if !ok {
			t.Fatalf("msg %d value type %T", i, msgs[i].Value)
		}
		if got != ev {
			t.Errorf("msg %d value = %+v, want %+v", i, got, ev)
		}
	}
}

func TestPublishEmptyBatchIsNoOp(t *testing.T) {
	// A nil producer would panic on any publish attempt, so these calls
	// succeeding proves empty batches never reach the broker.
	p := &KafkaPublisher{ticksTopic: "sim.ticks", newsTopic: "sim.news"}
	ctx := context.Background()

	if err := p.PublishTicks(ctx, nil); err != nil {
		t.Errorf("PublishTicks(nil): %v", err)
	}
	if err := p.PublishTicks(ctx, []models.Quote{}); err != nil {
		t.Errorf("PublishTicks(empty): %v", err)
	}
	if err := p.PublishNews(ctx, nil); err != nil {
		t.Errorf("PublishNews(nil): %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
