//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"covira/internal/platform/config"
	"covira/internal/platform/kafka"
	id "covira/pkg/domain"
	"covira/pkg/testutil/containers"
)

// AuditPipelineSuite exercises the full outbox path: postgres rows drained by
// the worker and published to a real broker.
type AuditPipelineSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	broker   string
	topic    string
	store    *PostgresStore
	producer *kafka.Producer
}

func TestAuditPipelineSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditPipelineSuite))
}

func (s *AuditPipelineSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.broker = mgr.GetRedpanda(s.T()).Broker
	s.topic = "covira.audit.test"
	s.store = NewPostgresStore(s.postgres.DB)

	producer, err := kafka.NewProducer(context.Background(), config.Kafka{
		Brokers:    []string{s.broker},
		AuditTopic: s.topic,
	})
	s.Require().NoError(err)
	s.Require().NotNil(producer)
	s.producer = producer
}

func (s *AuditPipelineSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *AuditPipelineSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_entries"))
}

func (s *AuditPipelineSuite) newEntry(entityID string, action Action) Entry {
	return Entry{
		ActorUserID: id.UserID(uuid.New()),
		Action:      action,
		EntityType:  "application",
		EntityID:    entityID,
		Details:     map[string]string{"step": "employees"},
		Timestamp:   time.Now().UTC().Truncate(time.Microsecond),
		IPAddress:   "203.0.113.7",
		UserAgent:   "integration-test",
	}
}

func (s *AuditPipelineSuite) TestDrainPublishesAndMarks() {
	ctx := context.Background()
	entityID := uuid.NewString()

	s.Require().NoError(s.store.Append(ctx, s.newEntry(entityID, ActionApplicationStep)))
	s.Require().NoError(s.store.Append(ctx, s.newEntry(entityID, ActionApplicationSign)))

	worker := NewWorker(s.store, s.producer, slog.New(slog.DiscardHandler), nil)
	s.Require().NoError(worker.DrainOnce(ctx))

	pending, err := s.store.ListUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending, "drained rows must be stamped published")

	records := s.consume(entityID, 2)
	s.Require().Len(records, 2)
	actions := make(map[Action]bool)
	for _, record := range records {
		s.Equal(entityID, string(record.Key))
		var entry Entry
		s.Require().NoError(json.Unmarshal(record.Value, &entry))
		s.Equal(entityID, entry.EntityID)
		actions[entry.Action] = true
	}
	s.True(actions[ActionApplicationStep])
	s.True(actions[ActionApplicationSign])
}

func (s *AuditPipelineSuite) TestDrainIsIdempotent() {
	ctx := context.Background()

	s.Require().NoError(s.store.Append(ctx, s.newEntry(uuid.NewString(), ActionApplicationStep)))

	worker := NewWorker(s.store, s.producer, slog.New(slog.DiscardHandler), nil)
	s.Require().NoError(worker.DrainOnce(ctx))
	s.Require().NoError(worker.DrainOnce(ctx))

	pending, err := s.store.ListUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)
}

// consume reads the topic from the start and returns records keyed by the
// given entity, so parallel suite methods only see their own traffic.
func (s *AuditPipelineSuite) consume(entityID string, want int) []*kgo.Record {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	deadline := time.Now().Add(15 * time.Second)
	var records []*kgo.Record
	for len(records) < want && time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		fetches := client.PollFetches(ctx)
		cancel()
		fetches.EachRecord(func(record *kgo.Record) {
			if string(record.Key) == entityID {
				records = append(records, record)
			}
		})
	}
	return records
}
