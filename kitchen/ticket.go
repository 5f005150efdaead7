// Package kitchen sends confirmed orders to the pit as tickets.
package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bbq-storefront/cart"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type TicketLine struct {
	Name         string   `json:"name"`
	Quantity     int      `json:"quantity"`
	Kind         string   `json:"kind"`
	Modifiers    []string `json:"modifiers,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

type Ticket struct {
	OrderNumber string       `json:"order_number"`
	OrderType   string       `json:"order_type"`
	Customer    string       `json:"customer"`
	PlacedAt    time.Time    `json:"placed_at"`
	Lines       []TicketLine `json:"lines"`
}

// NewTicket flattens cart lines into what the kitchen needs to cook: names,
// counts and every choice the shopper made. Prices are left off.
func NewTicket(orderNumber, orderType, customer string, lines []cart.Line, placedAt time.Time) Ticket {
	t := Ticket{
		OrderNumber: orderNumber,
		OrderType:   orderType,
		Customer:    customer,
		PlacedAt:    placedAt.UTC(),
		Lines:       make([]TicketLine, 0, len(lines)),
	}
	for _, l := range lines {
		t.Lines = append(t.Lines, TicketLine{
			Name:         l.Name,
			Quantity:     l.Quantity,
			Kind:         string(l.Kind()),
			Modifiers:    modifiers(l),
			Instructions: l.SpecialInstructions,
		})
	}
	return t
}

func modifiers(l cart.Line) []string {
	var mods []string
	for _, o := range l.Options {
		mods = append(mods, o.GroupName+": "+o.OptionName)
	}
	if c, ok := l.Customization(); ok {
		if c.SecondMeat != nil {
			mods = append(mods, "second meat: "+c.SecondMeat.Name)
		}
		for _, s := range c.Sides {
			mods = append(mods, "side: "+s.Name)
		}
		if c.Dessert != nil {
			mods = append(mods, "dessert: "+c.Dessert.Name)
		}
		if c.Bundle != nil {
			mods = append(mods, "bundle: "+c.Bundle.Side.Name+" + "+c.Bundle.Drink.Name)
		}
	}
	if c, ok := l.Combo(); ok {
		for _, it := range c.Items {
			mods = append(mods, it.SectionName+": "+it.ItemName)
		}
	}
	if p, ok := l.Plate(); ok {
		for _, m := range p.Meats {
			mods = append(mods, "meat: "+m.Name)
		}
		for _, s := range p.Sides {
			mods = append(mods, "side: "+s.Name)
		}
	}
	return mods
}

type Publisher interface {
	Publish(ctx context.Context, t Ticket) error
}

// messageWriter is the part of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes tickets to a topic keyed by order number.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher takes a comma-separated broker list.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	var addrs []string
	for _, a := range strings.Split(brokers, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}}
}

func newKafkaPublisherWith(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (k *KafkaPublisher) Publish(ctx context.Context, t Ticket) error {
	b, err := json.Marshal(&t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(t.OrderNumber), Value: b}); err != nil {
		return fmt.Errorf("write ticket %s: %w", t.OrderNumber, err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// LogPublisher logs tickets instead of sending them. Used when no brokers
// are configured.
type LogPublisher struct {
	Log *zap.Logger
}

func (p LogPublisher) Publish(_ context.Context, t Ticket) error {
	p.Log.Info("kitchen ticket",
		zap.String("order_number", t.OrderNumber),
		zap.String("order_type", t.OrderType),
		zap.Int("lines", len(t.Lines)),
	)
	return nil
}
