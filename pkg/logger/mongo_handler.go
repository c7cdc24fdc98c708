package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoBuffer    = 4096
	mongoBatch     = 50
	mongoFlushTick = 2 * time.Second
	// LogRetention is how long shipped records live before the TTL index
	// removes them.
	LogRetention = 30 * 24 * time.Hour
)

// LogDocument is one record as stored in MongoDB.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// mongoSink owns the connection and the writer goroutine shared by every
// handler derived with WithAttrs or WithGroup.
type mongoSink struct {
	client  *mongo.Client
	col     *mongo.Collection
	records chan LogDocument
	stop    chan struct{}
	stopped sync.WaitGroup
	once    sync.Once
}

// MongoHandler is a slog.Handler that ships records to MongoDB in batches.
// Handle never blocks: records are dropped while the buffer is full.
type MongoHandler struct {
	sink   *mongoSink
	level  slog.Level
	attrs  []slog.Attr
	prefix string
}

// NewMongoHandler connects to uri and writes into database.collection.
// Close flushes and disconnects.
func NewMongoHandler(uri, database, collection string, level slog.Level) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(4)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(database).Collection(collection)
	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(int32(LogRetention.Seconds()))},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
	})
	if err != nil {
		// logging works without the indexes, records just never expire
		fmt.Printf("logger: mongo indexes: %v\n", err)
	}

	s := &mongoSink{
		client:  client,
		col:     col,
		records: make(chan LogDocument, mongoBuffer),
		stop:    make(chan struct{}),
	}
	s.stopped.Add(1)
	go s.run()
	return &MongoHandler{sink: s, level: level}, nil
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	select {
	case h.sink.records <- h.document(r):
	default:
	}
	return nil
}

// document flattens the record; request_id is lifted to the top level and
// grouped keys are dotted.
func (h *MongoHandler) document(r slog.Record) LogDocument {
	doc := LogDocument{Time: r.Time, Level: r.Level.String(), Msg: r.Message}
	put := func(key string, v slog.Value) {
		if key == "request_id" {
			doc.RequestID = v.String()
			return
		}
		if doc.Attrs == nil {
			doc.Attrs = bson.M{}
		}
		doc.Attrs[key] = v.Resolve().Any()
	}
	for _, a := range h.attrs {
		put(a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(h.prefix+a.Key, a.Value)
		return true
	})
	return doc
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		out.attrs = append(out.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &out
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.prefix = h.prefix + name + "."
	return &out
}

func (s *mongoSink) run() {
	defer s.stopped.Done()
	tick := time.NewTicker(mongoFlushTick)
	defer tick.Stop()

	batch := make([]any, 0, mongoBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := s.col.InsertMany(ctx, batch); err != nil {
			fmt.Printf("logger: mongo insert of %d records: %v\n", len(batch), err)
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-s.records:
			if batch = append(batch, doc); len(batch) >= mongoBatch {
				flush()
			}
		case <-tick.C:
			flush()
		case <-s.stop:
			for {
				select {
				case doc := <-s.records:
					batch = append(batch, doc)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops the writer after a final flush and disconnects. It is safe to
// call more than once.
func (h *MongoHandler) Close() {
	h.sink.once.Do(func() {
		close(h.sink.stop)
		h.sink.stopped.Wait()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.sink.client.Disconnect(ctx)
	})
}

// MultiHandler sends each record to every handler that accepts its level.
type MultiHandler []slog.Handler

func NewMultiHandler(hs ...slog.Handler) MultiHandler { return MultiHandler(hs) }

func (m MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []string
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("logger: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(MultiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m MultiHandler) WithGroup(name string) slog.Handler {
	out := make(MultiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
