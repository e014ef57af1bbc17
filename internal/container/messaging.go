package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/fixed-window-go/internal/audit"
	auditstore "github.com/serroba/fixed-window-go/internal/audit/store"
	"github.com/serroba/fixed-window-go/internal/messaging"
	"go.uber.org/zap"
)

// PublisherGroupPackage provides the rejection publish function. When audit
// is disabled no broker connection is made and events are dropped.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     do.MustInvoke[*RedisClient](i).Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, do.MustInvoke[watermill.LoggerAdapter](i))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[audit.RejectionEvent], error) {
		if !do.MustInvoke[*Options](i).Audit {
			return messaging.NopPublish[audit.RejectionEvent](), nil
		}

		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[audit.RejectionEvent](group.Publisher(), audit.TopicQuotaRejected), nil
	})
}

// ConsumerGroupPackage provides the audit consumer group. Events go to
// Postgres when a database URL is configured, otherwise to the log.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (audit.Store, error) {
		if do.MustInvoke[*Options](i).DatabaseURL == "" {
			return auditstore.NewNoop(do.MustInvoke[*zap.Logger](i)), nil
		}

		pool, err := do.Invoke[*PostgresPool](i)
		if err != nil {
			return nil, err
		}

		return auditstore.NewPostgres(pool.Pool), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*RedisClient](i).Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: ConsumerGroupName,
		}, do.MustInvoke[watermill.LoggerAdapter](i))
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		st := do.MustInvoke[audit.Store](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer[audit.RejectionEvent](subscriber, audit.TopicQuotaRejected, st.SaveRejection, logger))

		return group, nil
	})
}
