package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/fjod/shop-sphere/internal/state"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultTopic = "storefront-activity"

// Writer is the subset of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the JSON value of every activity message.
type Event struct {
	Type      string    `json:"type"`
	At        time.Time `json:"at"`
	ProductID *int64    `json:"product_id,omitempty"`
	Quantity  *int      `json:"quantity,omitempty"`
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// Publisher turns dispatched actions into Kafka messages. Observe only enqueues;
// Run does the writing, so a slow broker never holds up a dispatch.
type Publisher struct {
	writer Writer
	queue  chan kafka.Message
	log    *zap.Logger
	now    func() time.Time
}

func NewPublisher(writer Writer, buffer int, log *zap.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		queue:  make(chan kafka.Message, buffer),
		log:    log,
		now:    time.Now,
	}
}

// Observe is a state.Subscriber. When the queue is full the event is dropped.
func (p *Publisher) Observe(_, next state.AppState, action state.Action) {
	event := eventFor(action, next)
	event.At = p.now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("failed to marshal activity event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	msg := kafka.Message{
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if event.ProductID != nil {
		msg.Key = []byte(strconv.FormatInt(*event.ProductID, 10))
	}

	select {
	case p.queue <- msg:
	default:
		p.log.Warn("activity queue full, dropping event", zap.String("type", event.Type))
	}
}

// Run writes queued events until ctx is cancelled, then closes the writer.
func (p *Publisher) Run(ctx context.Context) error {
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.log.Warn("error closing kafka writer", zap.Error(err))
		}
	}()

	for {
		select {
		case msg := <-p.queue:
			if err := p.writer.WriteMessages(ctx, msg); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				p.log.Warn("failed to publish activity event", zap.ByteString("event", msg.Value), zap.Error(err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func eventFor(action state.Action, next state.AppState) Event {
	event := Event{Type: action.Type()}

	withProduct := func(id int64) {
		event.ProductID = &id
	}
	withQuantity := func(qty int) {
		event.Quantity = &qty
	}
	cartQuantity := func(id int64) {
		withProduct(id)
		if item, ok := next.Cart.Find(id); ok {
			withQuantity(item.CartQuantity)
		} else {
			withQuantity(0)
		}
	}

	switch a := action.(type) {
	case state.AddToCart:
		cartQuantity(a.Product.ID)
	case state.IncreaseCart:
		cartQuantity(a.ID)
	case state.DecreaseCart:
		cartQuantity(a.ID)
	case state.UpdateCartQuantity:
		cartQuantity(a.ID)
	case state.RemoveFromCart:
		withProduct(a.ID)
	case state.AddToWishlist:
		withProduct(a.Product.ID)
	case state.ToggleWishlist:
		withProduct(a.Product.ID)
	case state.RemoveFromWishlist:
		withProduct(a.ID)
	case state.ProductFetched:
		withProduct(a.Product.ID)
	}
	return event
}
